package plugins

import (
	"reflectdoc/internal/converter"
	"reflectdoc/internal/models"
)

// declarationKinds are the kinds a local type name can refer to.
var declarationKinds = []models.ReflectionKind{
	models.KindStruct,
	models.KindInterface,
	models.KindTypeAlias,
}

// ReferencePlugin links local reference types to the reflection they name.
// Names that match nothing in the project, typically because the target was
// excluded, are recorded as dangling references.
type ReferencePlugin struct{}

func NewReferencePlugin() *ReferencePlugin {
	return &ReferencePlugin{}
}

func (p *ReferencePlugin) Name() string { return "references" }

func (p *ReferencePlugin) Attach(s converter.Subscriber) {
	s.On(converter.EventResolveReflection, p.resolve)
}

func (p *ReferencePlugin) resolve(c *converter.Context, e converter.Event) {
	r := e.Reflection
	project := c.Project()
	link := func(ref models.ReferenceType) models.ReferenceType {
		if ref.External || ref.TargetID != 0 {
			return ref
		}
		if target := lookup(project, r, ref); target != nil {
			return ref.WithTarget(target.ID)
		}
		project.AddDanglingReference(ref.Name)
		return ref
	}

	if r.Type != nil {
		r.Type = models.MapReferences(r.Type, link)
	}
	for i, t := range r.ExtendedTypes {
		r.ExtendedTypes[i] = models.MapReferences(t, link)
	}
}

// lookup resolves ref from r: type parameters of r and its ancestors shadow
// the type declarations of r's module. A reference into another converted
// package is looked up in the module of that name.
func lookup(project *models.Project, r *models.Reflection, ref models.ReferenceType) *models.Reflection {
	for scope := r; scope != nil; scope = scope.Parent {
		for _, child := range scope.Children {
			if child.Kind == models.KindTypeParameter && child.Name == ref.Name {
				return child
			}
		}
	}

	home := r.Module()
	if ref.Package == "" || home.Kind != models.KindModule || home.Name == ref.Package {
		if target := home.FindChild(ref.Name, declarationKinds...); target != nil {
			return target
		}
	}
	if home.Kind != models.KindModule {
		return nil
	}
	for _, module := range project.Root.ChildrenOfKind(models.KindModule) {
		if module == home || module.Name != ref.Package {
			continue
		}
		if target := module.FindChild(ref.Name, declarationKinds...); target != nil {
			return target
		}
	}
	return nil
}
