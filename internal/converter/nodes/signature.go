package nodes

import (
	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/frontend/golang"
	"reflectdoc/internal/models"
)

// blank names parameters declared without a name.
const blank = "_"

// convertSignature creates the signature of a function, method or interface
// method under the current scope. recv is the receiver parameter declaration
// of a method, nil otherwise.
func convertSignature(c *converter.Context, n frontend.Node, name string, recv frontend.Node) *models.Reflection {
	sig := c.CreateReflection(models.KindSignature, name, n)
	c.WithScope(sig, func() {
		if recv != nil {
			convertReceiver(c, sig, recv)
		}
		convertTypeParameters(c, n.Field("type_parameters"))
		convertParameters(c, n.Field("parameters"))
		sig.Type = resultType(c, n.Field("result"))
	})
	return sig
}

func convertReceiver(c *converter.Context, sig *models.Reflection, decl frontend.Node) {
	name := blank
	if ident := decl.Field("name"); ident != nil {
		name = ident.Text()
	}
	p := c.CreateLinked(models.KindParameter, name, decl, sig, func(r *models.Reflection) {
		sig.Receiver = r
	})
	c.WithScope(p, func() {
		p.Type = c.ConvertType(decl.Field("type"), nil)
	})
}

func convertTypeParameters(c *converter.Context, list frontend.Node) {
	if list == nil {
		return
	}
	for _, decl := range list.NamedChildren() {
		switch decl.Kind() {
		case "type_parameter_declaration", "parameter_declaration":
		default:
			continue
		}
		constraint := decl.Field("type")
		for _, ident := range golang.FieldAll(decl, "name") {
			tp := c.CreateReflection(models.KindTypeParameter, ident.Text(), decl)
			c.WithScope(tp, func() {
				tp.Type = c.ConvertType(constraint, nil)
			})
		}
	}
}

func convertParameters(c *converter.Context, list frontend.Node) {
	if list == nil {
		return
	}
	for _, decl := range list.NamedChildren() {
		switch decl.Kind() {
		case "parameter_declaration":
			names := golang.FieldAll(decl, "name")
			if len(names) == 0 {
				createParameter(c, blank, decl, false)
			}
			for _, ident := range names {
				createParameter(c, ident.Text(), decl, false)
			}
		case "variadic_parameter_declaration":
			name := blank
			if ident := decl.Field("name"); ident != nil {
				name = ident.Text()
			}
			createParameter(c, name, decl, true)
		}
	}
}

func createParameter(c *converter.Context, name string, decl frontend.Node, variadic bool) {
	p := c.CreateReflection(models.KindParameter, name, decl)
	p.Flags.Variadic = variadic
	c.WithScope(p, func() {
		typ := c.ConvertType(decl.Field("type"), nil)
		if variadic {
			typ = models.ArrayType{Element: typ}
		}
		p.Type = typ
	})
}

// resultType is the single result type, or a tuple when there are several or
// they are named.
func resultType(c *converter.Context, result frontend.Node) models.Type {
	if result == nil {
		return nil
	}
	if result.Kind() != "parameter_list" {
		return c.ConvertType(result, nil)
	}

	var elems []models.TupleElement
	for _, decl := range result.NamedChildren() {
		if decl.Kind() != "parameter_declaration" {
			continue
		}
		typ := c.ConvertType(decl.Field("type"), nil)
		names := golang.FieldAll(decl, "name")
		if len(names) == 0 {
			elems = append(elems, models.TupleElement{Type: typ})
		}
		for _, ident := range names {
			elems = append(elems, models.TupleElement{Name: ident.Text(), Type: typ})
		}
	}
	switch {
	case len(elems) == 0:
		return nil
	case len(elems) == 1 && elems[0].Name == "":
		return elems[0].Type
	}
	return models.TupleType{Elements: elems}
}
