package plugins

import (
	"path/filepath"
	"strings"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/models"
)

// SourcePlugin records where declarations and signatures are defined,
// relative to the configured base path.
type SourcePlugin struct{}

func NewSourcePlugin() *SourcePlugin {
	return &SourcePlugin{}
}

func (p *SourcePlugin) Name() string { return "sources" }

func (p *SourcePlugin) Attach(s converter.Subscriber) {
	s.On(converter.EventCreateDeclaration, p.record)
	s.On(converter.EventCreateSignature, p.record)
}

func (p *SourcePlugin) record(c *converter.Context, e converter.Event) {
	if e.Node == nil {
		return
	}
	span := e.Node.Span()
	e.Reflection.Sources = append(e.Reflection.Sources, models.Source{
		File: relativeTo(c.Options().BasePath, span.File),
		Line: span.Line,
	})
}

func relativeTo(base, file string) string {
	if base == "" {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(base, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}
