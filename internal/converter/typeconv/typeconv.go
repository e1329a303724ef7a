// Package typeconv holds the Go type converters. Syntax-aware converters handle
// type expressions that appear in source; type converters handle types that
// only the checker knows, such as the inferred type of `var x = f()`.
package typeconv

import (
	"go/types"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

// Priorities of the syntax-aware chain.
const (
	PriorityParenthesized = 100
	PriorityComposite     = 90
	PriorityLiteral       = 80
	PriorityIntrinsic     = 60
	PriorityReference     = 50
)

// Priorities of the checker-type chain.
const (
	PriorityBasic     = 60
	PriorityNamed     = 50
	PriorityStructure = 40
	PriorityFallback  = -100
)

// All returns every Go type converter.
func All() []converter.Component {
	return []converter.Component{
		NewParenthesizedConverter(),
		NewPointerConverter(),
		NewArrayConverter(),
		NewMapConverter(),
		NewChannelConverter(),
		NewFunctionConverter(),
		NewLiteralConverter(),
		NewUnionConverter(),
		NewIntrinsicConverter(),
		NewReferenceConverter(),
		NewBasicTypeConverter(),
		NewNamedTypeConverter(),
		NewStructureTypeConverter(),
		NewFallbackTypeConverter(),
	}
}

func checkerType(t frontend.Type) (types.Type, bool) {
	tt, ok := t.(types.Type)
	return tt, ok
}

func qualifier(p *types.Package) string { return p.Name() }

// isExternal reports whether obj is declared outside the packages being
// converted. Universe objects are never external.
func isExternal(c *converter.Context, obj types.Object) bool {
	if obj == nil || obj.Pkg() == nil {
		return false
	}
	return !c.IsLocalPackage(obj.Pkg().Path())
}

func packageOf(obj types.Object) string {
	if obj == nil || obj.Pkg() == nil {
		return ""
	}
	return obj.Pkg().Name()
}

func convertAll(c *converter.Context, list *types.TypeList) []models.Type {
	if list == nil || list.Len() == 0 {
		return nil
	}
	out := make([]models.Type, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		if t := c.ConvertType(nil, list.At(i)); t != nil {
			out = append(out, t)
		}
	}
	return out
}
