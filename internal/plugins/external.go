package plugins

import "reflectdoc/internal/converter"

// ExternalPlugin flags declarations from files matching the external pattern.
type ExternalPlugin struct{}

func NewExternalPlugin() *ExternalPlugin {
	return &ExternalPlugin{}
}

func (p *ExternalPlugin) Name() string { return "external" }

func (p *ExternalPlugin) Attach(s converter.Subscriber) {
	s.On(converter.EventCreateDeclaration, func(c *converter.Context, e converter.Event) {
		if e.Node != nil && c.Options().IsExternal(e.Node.Span().File) {
			e.Reflection.Flags.External = true
		}
	})
}
