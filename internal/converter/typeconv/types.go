package typeconv

import (
	"go/types"
	"strconv"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

// TypeConverter converts checker types for which no syntax is available.
type TypeConverter struct {
	name     string
	priority int
	accepts  func(t types.Type) bool
	convert  func(c *converter.Context, t types.Type) models.Type
}

var _ converter.TypeConverter = (*TypeConverter)(nil)

func (tc *TypeConverter) Name() string  { return tc.name }
func (tc *TypeConverter) Priority() int { return tc.priority }

func (tc *TypeConverter) SupportsType(_ *converter.Context, typ frontend.Type) bool {
	t, ok := checkerType(typ)
	if !ok {
		return false
	}
	return tc.accepts(t)
}

func (tc *TypeConverter) ConvertType(c *converter.Context, typ frontend.Type) models.Type {
	t, _ := checkerType(typ)
	return tc.convert(c, t)
}

func NewBasicTypeConverter() *TypeConverter {
	return &TypeConverter{
		name:     "checker:basic",
		priority: PriorityBasic,
		accepts: func(t types.Type) bool {
			if iface, ok := t.(*types.Interface); ok {
				return iface.Empty()
			}
			return isPredeclared(t)
		},
		convert: func(_ *converter.Context, t types.Type) models.Type {
			switch tt := t.(type) {
			case *types.Basic:
				return models.IntrinsicType{Name: tt.Name()}
			case *types.Interface:
				return models.IntrinsicType{Name: "any"}
			}
			return models.IntrinsicType{Name: objectOf(t).Name()}
		},
	}
}

func NewNamedTypeConverter() *TypeConverter {
	return &TypeConverter{
		name:     "checker:named",
		priority: PriorityNamed,
		accepts: func(t types.Type) bool {
			return objectOf(t) != nil
		},
		convert: func(c *converter.Context, t types.Type) models.Type {
			obj := objectOf(t)
			ref := models.ReferenceType{
				Name:     obj.Name(),
				Package:  packageOf(obj),
				External: isExternal(c, obj),
			}
			switch tt := t.(type) {
			case *types.Named:
				ref.TypeArguments = convertAll(c, tt.TypeArgs())
			case *types.Alias:
				ref.TypeArguments = convertAll(c, tt.TypeArgs())
			}
			return ref
		},
	}
}

func NewStructureTypeConverter() *TypeConverter {
	return &TypeConverter{
		name:     "checker:structure",
		priority: PriorityStructure,
		accepts: func(t types.Type) bool {
			switch t.(type) {
			case *types.Pointer, *types.Slice, *types.Array, *types.Map, *types.Chan,
				*types.Signature, *types.Tuple, *types.Union:
				return true
			}
			return false
		},
		convert: convertStructure,
	}
}

func convertStructure(c *converter.Context, t types.Type) models.Type {
	switch tt := t.(type) {
	case *types.Pointer:
		return models.PointerType{Target: c.ConvertType(nil, tt.Elem())}
	case *types.Slice:
		return models.ArrayType{Element: c.ConvertType(nil, tt.Elem())}
	case *types.Array:
		return models.ArrayType{Element: c.ConvertType(nil, tt.Elem()), Length: strconv.FormatInt(tt.Len(), 10)}
	case *types.Map:
		return models.MapType{Key: c.ConvertType(nil, tt.Key()), Value: c.ConvertType(nil, tt.Elem())}
	case *types.Chan:
		dir := models.ChanBoth
		switch tt.Dir() {
		case types.SendOnly:
			dir = models.ChanSend
		case types.RecvOnly:
			dir = models.ChanRecv
		}
		return models.ChannelType{Element: c.ConvertType(nil, tt.Elem()), Dir: dir}
	case *types.Signature:
		return models.FunctionType{
			Params:   tupleTypes(c, tt.Params()),
			Results:  tupleTypes(c, tt.Results()),
			Variadic: tt.Variadic(),
		}
	case *types.Tuple:
		out := models.TupleType{}
		for i := 0; i < tt.Len(); i++ {
			v := tt.At(i)
			out.Elements = append(out.Elements, models.TupleElement{Name: v.Name(), Type: c.ConvertType(nil, v.Type())})
		}
		return out
	case *types.Union:
		out := models.UnionType{}
		for i := 0; i < tt.Len(); i++ {
			term := tt.Term(i)
			out.Terms = append(out.Terms, models.UnionTerm{Tilde: term.Tilde(), Type: c.ConvertType(nil, term.Type())})
		}
		return out
	}
	return nil
}

func tupleTypes(c *converter.Context, tuple *types.Tuple) []models.Type {
	if tuple == nil || tuple.Len() == 0 {
		return nil
	}
	out := make([]models.Type, tuple.Len())
	for i := 0; i < tuple.Len(); i++ {
		out[i] = c.ConvertType(nil, tuple.At(i).Type())
	}
	return out
}

// NewFallbackTypeConverter keeps the checker's spelling of anything else, such
// as struct types reached without syntax.
func NewFallbackTypeConverter() *TypeConverter {
	return &TypeConverter{
		name:     "checker:fallback",
		priority: PriorityFallback,
		accepts:  func(types.Type) bool { return true },
		convert: func(_ *converter.Context, t types.Type) models.Type {
			return models.UnknownType{Name: types.TypeString(t, qualifier)}
		},
	}
}
