package nodes

import (
	"go/token"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/frontend/golang"
	"reflectdoc/internal/models"
)

func firstNamed(n frontend.Node) frontend.Node {
	if n == nil {
		return nil
	}
	for _, child := range n.NamedChildren() {
		if child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

func convertFunction(c *converter.Context, n frontend.Node) *models.Reflection {
	name := n.Field("name").Text()
	if excluded(c, n, name, false) {
		return nil
	}
	fn := c.CreateReflection(models.KindFunction, name, n)
	fn.Flags.Exported = token.IsExported(name)
	c.WithScope(fn, func() {
		convertSignature(c, n, name, nil)
	})
	if n.Field("body") != nil {
		c.Trigger(converter.Event{Name: converter.EventFunctionImplementation, Reflection: fn, Node: n})
	}
	return fn
}

// convertMethod places the method under its receiver type when that type has
// already been converted in the same module, otherwise under the current
// scope.
func convertMethod(c *converter.Context, n frontend.Node) *models.Reflection {
	name := n.Field("name").Text()
	recv := firstNamed(n.Field("receiver"))
	base := ""
	if recv != nil {
		base = receiverBase(recv.Field("type"))
	}

	owner := c.Scope().Module().FindChild(base, models.KindStruct, models.KindInterface, models.KindTypeAlias)
	if owner == nil && c.Options().ExcludeNotExported && !token.IsExported(base) {
		return nil
	}
	if excluded(c, n, name, true) {
		return nil
	}
	if owner == nil {
		owner = c.Scope()
	}

	var method *models.Reflection
	c.WithScope(owner, func() {
		method = c.CreateReflection(models.KindMethod, name, n)
		method.Flags.Exported = token.IsExported(name)
		c.WithScope(method, func() {
			convertSignature(c, n, name, recv)
		})
	})
	if n.Field("body") != nil {
		c.Trigger(converter.Event{Name: converter.EventFunctionImplementation, Reflection: method, Node: n})
	}
	return method
}

// receiverBase returns the type name of a receiver such as `*List[T]`.
func receiverBase(n frontend.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "pointer_type", "parenthesized_type":
		return receiverBase(firstNamed(n))
	case "generic_type":
		return receiverBase(n.Field("type"))
	}
	return n.Text()
}

func convertTypeSpec(c *converter.Context, n frontend.Node) *models.Reflection {
	name := n.Field("name").Text()
	if excluded(c, n, name, false) {
		return nil
	}
	typeNode := n.Field("type")
	kind := models.KindTypeAlias
	if typeNode != nil {
		switch typeNode.Kind() {
		case "struct_type":
			kind = models.KindStruct
		case "interface_type":
			kind = models.KindInterface
		}
	}

	r := c.CreateReflection(kind, name, n)
	r.Flags.Exported = token.IsExported(name)
	c.WithScope(r, func() {
		convertTypeParameters(c, n.Field("type_parameters"))
		switch kind {
		case models.KindStruct, models.KindInterface:
			for _, member := range typeNode.NamedChildren() {
				c.ConvertNode(member)
			}
		default:
			r.Type = c.ConvertType(typeNode, nil)
		}
	})
	return r
}

func convertTypeAlias(c *converter.Context, n frontend.Node) *models.Reflection {
	name := n.Field("name").Text()
	if excluded(c, n, name, false) {
		return nil
	}
	r := c.CreateReflection(models.KindTypeAlias, name, n)
	r.Flags.Exported = token.IsExported(name)
	c.WithScope(r, func() {
		convertTypeParameters(c, n.Field("type_parameters"))
		r.Type = c.ConvertType(n.Field("type"), nil)
	})
	return r
}

// convertValueSpec creates one constant or variable per declared name. Without
// an explicit type the checker's inferred type is used.
func convertValueSpec(c *converter.Context, n frontend.Node) *models.Reflection {
	kind := models.KindVariable
	if n.Kind() == "const_spec" {
		kind = models.KindConstant
	}
	typeNode := n.Field("type")
	var values []frontend.Node
	if list := n.Field("value"); list != nil {
		for _, v := range list.NamedChildren() {
			if v.Kind() != "comment" {
				values = append(values, v)
			}
		}
	}

	var last *models.Reflection
	for i, ident := range golang.FieldAll(n, "name") {
		name := ident.Text()
		if name == "_" || excluded(c, n, name, false) {
			continue
		}
		r := c.CreateReflection(kind, name, n)
		r.Flags.Exported = token.IsExported(name)
		c.WithScope(r, func() {
			if typeNode != nil {
				r.Type = c.ConvertType(typeNode, nil)
			} else {
				r.Type = c.ConvertType(ident, nil)
			}
		})
		if i < len(values) {
			r.DefaultValue = values[i].Text()
		}
		last = r
	}
	return last
}
