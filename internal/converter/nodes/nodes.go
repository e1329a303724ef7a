// Package nodes holds the node converters that build declaration reflections
// from Go syntax.
package nodes

import (
	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

// Builder converts the syntax kinds it lists.
type Builder struct {
	name  string
	kinds []string
	build func(c *converter.Context, n frontend.Node) *models.Reflection
}

var _ converter.NodeConverter = (*Builder)(nil)

func (b *Builder) Name() string    { return b.name }
func (b *Builder) Kinds() []string { return b.kinds }

func (b *Builder) Convert(c *converter.Context, n frontend.Node) *models.Reflection {
	return b.build(c, n)
}

// Builders returns every Go declaration builder.
func Builders() []converter.Component {
	return []converter.Component{
		&Builder{
			name: "node:container",
			kinds: []string{
				"source_file", "type_declaration", "const_declaration", "var_declaration",
				"field_declaration_list", "method_spec_list",
			},
			build: visitChildren,
		},
		&Builder{name: "node:function", kinds: []string{"function_declaration"}, build: convertFunction},
		&Builder{name: "node:method", kinds: []string{"method_declaration"}, build: convertMethod},
		&Builder{name: "node:type", kinds: []string{"type_spec"}, build: convertTypeSpec},
		&Builder{name: "node:alias", kinds: []string{"type_alias"}, build: convertTypeAlias},
		&Builder{name: "node:value", kinds: []string{"const_spec", "var_spec"}, build: convertValueSpec},
		&Builder{name: "node:field", kinds: []string{"field_declaration"}, build: convertField},
		&Builder{name: "node:interface-method", kinds: []string{"method_elem", "method_spec"}, build: convertInterfaceMethod},
		&Builder{name: "node:interface-element", kinds: []string{"type_elem", "constraint_elem", "interface_type_name"}, build: convertInterfaceElement},
	}
}

// visitChildren converts every child into the current scope without creating a
// reflection of its own.
func visitChildren(c *converter.Context, n frontend.Node) *models.Reflection {
	for _, child := range n.NamedChildren() {
		c.ConvertNode(child)
	}
	return nil
}
