package typeconv

import (
	"go/types"
	"strings"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/frontend/golang"
	"reflectdoc/internal/models"
)

// SyntaxConverter converts type expressions of the listed syntax kinds.
type SyntaxConverter struct {
	name     string
	priority int
	kinds    map[string]bool
	// accepts further restricts SupportsNode; nil accepts every listed kind.
	accepts func(n frontend.Node, t types.Type) bool
	convert func(c *converter.Context, n frontend.Node, t types.Type) models.Type
}

var _ converter.NodeTypeConverter = (*SyntaxConverter)(nil)

func newSyntaxConverter(name string, priority int, kinds ...string) *SyntaxConverter {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return &SyntaxConverter{name: name, priority: priority, kinds: set}
}

func (s *SyntaxConverter) Name() string  { return s.name }
func (s *SyntaxConverter) Priority() int { return s.priority }

func (s *SyntaxConverter) SupportsNode(_ *converter.Context, n frontend.Node, typ frontend.Type) bool {
	if !s.kinds[n.Kind()] {
		return false
	}
	if s.accepts == nil {
		return true
	}
	t, _ := checkerType(typ)
	return s.accepts(n, t)
}

func (s *SyntaxConverter) ConvertNode(c *converter.Context, n frontend.Node, typ frontend.Type) models.Type {
	t, _ := checkerType(typ)
	return s.convert(c, n, t)
}

func firstNamed(n frontend.Node) frontend.Node {
	for _, child := range n.NamedChildren() {
		if child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

func NewParenthesizedConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:parenthesized", PriorityParenthesized, "parenthesized_type")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		return c.ConvertType(firstNamed(n), nil)
	}
	return s
}

func NewPointerConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:pointer", PriorityComposite, "pointer_type")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		return models.PointerType{Target: c.ConvertType(firstNamed(n), nil)}
	}
	return s
}

func NewArrayConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:array", PriorityComposite, "slice_type", "array_type", "implicit_length_array_type")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		out := models.ArrayType{Element: c.ConvertType(n.Field("element"), nil)}
		switch n.Kind() {
		case "array_type":
			if length := n.Field("length"); length != nil {
				out.Length = length.Text()
			}
		case "implicit_length_array_type":
			out.Length = "..."
		}
		return out
	}
	return s
}

func NewMapConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:map", PriorityComposite, "map_type")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		return models.MapType{
			Key:   c.ConvertType(n.Field("key"), nil),
			Value: c.ConvertType(n.Field("value"), nil),
		}
	}
	return s
}

func NewChannelConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:channel", PriorityComposite, "channel_type")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		return models.ChannelType{
			Element: c.ConvertType(n.Field("value"), nil),
			Dir:     channelDir(n.Text()),
		}
	}
	return s
}

func channelDir(text string) models.ChanDir {
	if strings.HasPrefix(text, "<-") {
		return models.ChanRecv
	}
	if strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(text, "chan")), "<-") {
		return models.ChanSend
	}
	return models.ChanBoth
}

func NewFunctionConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:function", PriorityComposite, "function_type")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		params, variadic := parameterTypes(c, n.Field("parameters"))
		out := models.FunctionType{Params: params, Variadic: variadic}
		if result := n.Field("result"); result != nil {
			if result.Kind() == "parameter_list" {
				out.Results, _ = parameterTypes(c, result)
			} else {
				out.Results = []models.Type{c.ConvertType(result, nil)}
			}
		}
		return out
	}
	return s
}

// parameterTypes expands a parameter list into one type per declared name.
func parameterTypes(c *converter.Context, list frontend.Node) (out []models.Type, variadic bool) {
	if list == nil {
		return nil, false
	}
	for _, decl := range list.NamedChildren() {
		switch decl.Kind() {
		case "parameter_declaration":
			typ := c.ConvertType(decl.Field("type"), nil)
			count := len(golang.FieldAll(decl, "name"))
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				out = append(out, typ)
			}
		case "variadic_parameter_declaration":
			out = append(out, models.ArrayType{Element: c.ConvertType(decl.Field("type"), nil)})
			variadic = true
		}
	}
	return out, variadic
}

// NewLiteralConverter handles anonymous struct and interface types. Members
// are converted by the node converters into a type literal reflection owned by
// the current scope.
func NewLiteralConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:literal", PriorityLiteral, "struct_type", "interface_type")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		if isEmptyLiteral(n) {
			if n.Kind() == "interface_type" {
				return models.IntrinsicType{Name: "any"}
			}
			return models.IntrinsicType{Name: "struct{}"}
		}
		lit := c.CreateReflection(models.KindTypeLiteral, "__type", n)
		c.WithScope(lit, func() {
			for _, child := range n.NamedChildren() {
				c.ConvertNode(child)
			}
		})
		return models.ReflectionType{Declaration: lit}
	}
	return s
}

func isEmptyLiteral(n frontend.Node) bool {
	for _, child := range n.NamedChildren() {
		switch child.Kind() {
		case "comment":
		case "field_declaration_list", "method_spec_list":
			if firstNamed(child) != nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// NewUnionConverter handles constraint type sets such as `~int | string`.
func NewUnionConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:union", PriorityLiteral, "type_elem", "type_constraint", "constraint_elem")
	s.convert = func(c *converter.Context, n frontend.Node, _ types.Type) models.Type {
		var terms []frontend.Node
		for _, child := range n.NamedChildren() {
			if child.Kind() != "comment" {
				terms = append(terms, child)
			}
		}
		if len(terms) == 1 && !isTilde(terms[0]) {
			return c.ConvertType(terms[0], nil)
		}
		union := models.UnionType{Terms: make([]models.UnionTerm, 0, len(terms))}
		for _, term := range terms {
			target := term
			if isTilde(term) || term.Kind() == "constraint_term" {
				target = firstNamed(term)
			}
			union.Terms = append(union.Terms, models.UnionTerm{
				Tilde: isTilde(term),
				Type:  c.ConvertType(target, nil),
			})
		}
		return union
	}
	return s
}

func isTilde(n frontend.Node) bool {
	return n.Kind() == "negated_type" || strings.HasPrefix(n.Text(), "~")
}

// NewIntrinsicConverter maps identifiers of predeclared types to intrinsics.
func NewIntrinsicConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:intrinsic", PriorityIntrinsic, "type_identifier")
	s.accepts = func(_ frontend.Node, t types.Type) bool { return isPredeclared(t) }
	s.convert = func(_ *converter.Context, n frontend.Node, _ types.Type) models.Type {
		return models.IntrinsicType{Name: n.Text()}
	}
	return s
}

func isPredeclared(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Basic:
		return true
	case *types.Named:
		return tt.Obj().Pkg() == nil
	case *types.Alias:
		return tt.Obj().Pkg() == nil
	}
	return false
}

// NewReferenceConverter handles named, qualified and instantiated generic types.
func NewReferenceConverter() *SyntaxConverter {
	s := newSyntaxConverter("type:reference", PriorityReference, "type_identifier", "qualified_type", "generic_type")
	s.convert = func(c *converter.Context, n frontend.Node, t types.Type) models.Type {
		switch n.Kind() {
		case "qualified_type":
			return models.ReferenceType{
				Name:     n.Field("name").Text(),
				Package:  n.Field("package").Text(),
				External: true,
			}
		case "generic_type":
			base := c.ConvertType(n.Field("type"), nil)
			ref, ok := base.(models.ReferenceType)
			if !ok {
				return base
			}
			if args := n.Field("type_arguments"); args != nil {
				for _, arg := range args.NamedChildren() {
					if arg.Kind() == "comment" {
						continue
					}
					ref.TypeArguments = append(ref.TypeArguments, c.ConvertType(arg, nil))
				}
			}
			return ref
		}
		obj := objectOf(t)
		return models.ReferenceType{
			Name:     n.Text(),
			Package:  packageOf(obj),
			External: isExternal(c, obj),
		}
	}
	return s
}

func objectOf(t types.Type) types.Object {
	switch tt := t.(type) {
	case *types.Named:
		return tt.Obj()
	case *types.Alias:
		return tt.Obj()
	case *types.TypeParam:
		return tt.Obj()
	}
	return nil
}
