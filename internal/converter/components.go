package converter

import (
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

// Component is anything that can be added to a Converter. What a component
// does is decided by which of the interfaces below it also implements.
type Component interface {
	Name() string
}

// NodeConverter builds reflections for the syntax kinds it lists.
type NodeConverter interface {
	Component
	Kinds() []string
	Convert(c *Context, node frontend.Node) *models.Reflection
}

// NodeTypeConverter converts a (syntax node, resolved type) pair.
type NodeTypeConverter interface {
	Component
	Priority() int
	SupportsNode(c *Context, node frontend.Node, typ frontend.Type) bool
	ConvertNode(c *Context, node frontend.Node, typ frontend.Type) models.Type
}

// TypeConverter converts a resolved type without syntax.
type TypeConverter interface {
	Component
	Priority() int
	SupportsType(c *Context, typ frontend.Type) bool
	ConvertType(c *Context, typ frontend.Type) models.Type
}

// Plugin subscribes to lifecycle events.
type Plugin interface {
	Component
	Attach(s Subscriber)
}
