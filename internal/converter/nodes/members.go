package nodes

import (
	"go/token"
	"strings"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/frontend/golang"
	"reflectdoc/internal/models"
)

// convertField creates one field per declared name. An embedded field is named
// after its type and extends the enclosing struct.
func convertField(c *converter.Context, n frontend.Node) *models.Reflection {
	typeNode := n.Field("type")
	if typeNode == nil {
		return nil
	}
	names := golang.FieldAll(n, "name")
	if len(names) == 0 {
		return convertEmbedded(c, n, typeNode)
	}

	var last *models.Reflection
	for _, ident := range names {
		name := ident.Text()
		if excluded(c, n, name, true) {
			continue
		}
		f := c.CreateReflection(models.KindField, name, n)
		f.Flags.Exported = token.IsExported(name)
		c.WithScope(f, func() {
			f.Type = c.ConvertType(typeNode, nil)
		})
		last = f
	}
	return last
}

func convertEmbedded(c *converter.Context, n, typeNode frontend.Node) *models.Reflection {
	name := embeddedName(typeNode)
	if excluded(c, n, name, true) {
		return nil
	}
	owner := c.Scope()
	f := c.CreateReflection(models.KindField, name, n)
	f.Flags.Exported = token.IsExported(name)
	f.Flags.Embedded = true
	c.WithScope(f, func() {
		typ := c.ConvertType(typeNode, nil)
		// `*Base` keeps the star outside the type node.
		if typeNode.Kind() != "pointer_type" && strings.HasPrefix(strings.TrimSpace(n.Text()), "*") {
			typ = models.PointerType{Target: typ}
		}
		f.Type = typ
	})
	if f.Type != nil {
		owner.ExtendedTypes = append(owner.ExtendedTypes, f.Type)
	}
	return f
}

func embeddedName(n frontend.Node) string {
	switch n.Kind() {
	case "pointer_type":
		if inner := firstNamed(n); inner != nil {
			return embeddedName(inner)
		}
	case "generic_type":
		return embeddedName(n.Field("type"))
	case "qualified_type":
		return n.Field("name").Text()
	}
	name := n.Text()
	if i := strings.LastIndex(name, "."); i != -1 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

func convertInterfaceMethod(c *converter.Context, n frontend.Node) *models.Reflection {
	name := n.Field("name").Text()
	if excluded(c, n, name, true) {
		return nil
	}
	m := c.CreateReflection(models.KindMethod, name, n)
	m.Flags.Exported = token.IsExported(name)
	c.WithScope(m, func() {
		convertSignature(c, n, name, nil)
	})
	return m
}

// convertInterfaceElement records an embedded interface as an extended type
// and a type set element (`~int | ~string`) as the interface's type. Several
// type set elements make the type their intersection.
func convertInterfaceElement(c *converter.Context, n frontend.Node) *models.Reflection {
	typ := c.ConvertType(n, nil)
	if typ == nil {
		return nil
	}
	owner := c.Scope()
	if _, ok := typ.(models.ReferenceType); ok {
		owner.ExtendedTypes = append(owner.ExtendedTypes, typ)
		return nil
	}
	switch prev := owner.Type.(type) {
	case nil:
		owner.Type = typ
	case models.IntersectionType:
		owner.Type = models.IntersectionType{Types: append(append([]models.Type(nil), prev.Types...), typ)}
	default:
		owner.Type = models.IntersectionType{Types: []models.Type{prev, typ}}
	}
	return nil
}
