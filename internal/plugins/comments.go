package plugins

import (
	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend/golang"
	"reflectdoc/internal/models"
)

// CommentPlugin attaches doc comments. Functions and methods carry theirs on
// the signature.
type CommentPlugin struct{}

func NewCommentPlugin() *CommentPlugin {
	return &CommentPlugin{}
}

func (p *CommentPlugin) Name() string { return "comments" }

func (p *CommentPlugin) Attach(s converter.Subscriber) {
	s.On(converter.EventCreateDeclaration, func(_ *converter.Context, e converter.Event) {
		switch e.Reflection.Kind {
		case models.KindFunction, models.KindMethod:
			return
		}
		e.Reflection.Comment = golang.DocComment(e.Node)
	})
	s.On(converter.EventCreateSignature, func(_ *converter.Context, e converter.Event) {
		e.Reflection.Comment = golang.DocComment(e.Node)
	})
}
