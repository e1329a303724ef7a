package models

// ReflectionKind tags what a Reflection describes.
type ReflectionKind string

const (
	KindProject       ReflectionKind = "project"
	KindModule        ReflectionKind = "module"
	KindFunction      ReflectionKind = "function"
	KindMethod        ReflectionKind = "method"
	KindStruct        ReflectionKind = "struct"
	KindInterface     ReflectionKind = "interface"
	KindTypeAlias     ReflectionKind = "type_alias"
	KindVariable      ReflectionKind = "variable"
	KindConstant      ReflectionKind = "constant"
	KindField         ReflectionKind = "field"
	KindSignature     ReflectionKind = "signature"
	KindParameter     ReflectionKind = "parameter"
	KindTypeParameter ReflectionKind = "type_parameter"
	KindTypeLiteral   ReflectionKind = "type_literal"
)

// IsDeclaration reports whether reflections of this kind are created through the
// createDeclaration event.
func (k ReflectionKind) IsDeclaration() bool {
	switch k {
	case KindSignature, KindParameter, KindTypeParameter, KindProject:
		return false
	}
	return true
}

// IsContainer reports whether reflections of this kind group their children.
func (k ReflectionKind) IsContainer() bool {
	switch k {
	case KindProject, KindModule, KindStruct, KindInterface, KindTypeLiteral:
		return true
	}
	return false
}

type Flags struct {
	Exported bool `json:"exported,omitempty"`
	External bool `json:"external,omitempty"`
	Variadic bool `json:"variadic,omitempty"`
	Embedded bool `json:"embedded,omitempty"`
}

type Source struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Group collects the children of a container that share a kind.
type Group struct {
	Title    string `json:"title"`
	Children []int  `json:"children"`
}

// Reflection is one node of the output graph. A reflection owns its Children and
// its linked Receiver; it is referenced from the Project index by ID.
type Reflection struct {
	ID      int
	Name    string
	Kind    ReflectionKind
	Flags   Flags
	Comment string
	Sources []Source

	Parent   *Reflection
	Children []*Reflection
	// Receiver is the receiver parameter of a method signature.
	Receiver *Reflection

	Type         Type
	DefaultValue string

	ExtendedTypes []Type
	ExtendedBy    []Type
	Groups        []Group
}

// AddChild appends child in discovery order and takes ownership of it.
func (r *Reflection) AddChild(child *Reflection) {
	child.Parent = r
	r.Children = append(r.Children, child)
}

// ChildByName returns the first direct child called name.
func (r *Reflection) ChildByName(name string) *Reflection {
	for _, c := range r.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindChild returns the first direct child called name whose kind is one of
// kinds.
func (r *Reflection) FindChild(name string, kinds ...ReflectionKind) *Reflection {
	for _, c := range r.Children {
		if c.Name != name {
			continue
		}
		for _, k := range kinds {
			if c.Kind == k {
				return c
			}
		}
	}
	return nil
}

// Module returns the nearest module enclosing r, r included. Reflections of
// a run without modules report the project root.
func (r *Reflection) Module() *Reflection {
	scope := r
	for scope.Kind != KindModule && scope.Parent != nil {
		scope = scope.Parent
	}
	return scope
}

// ChildrenOfKind returns the direct children with the given kind, in order.
func (r *Reflection) ChildrenOfKind(kind ReflectionKind) []*Reflection {
	var out []*Reflection
	for _, c := range r.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Traverse calls fn for every reflection owned by r (children and linked
// reflections), depth first. Returning false stops descent below that node.
func (r *Reflection) Traverse(fn func(*Reflection) bool) {
	if r.Receiver != nil {
		if fn(r.Receiver) {
			r.Receiver.Traverse(fn)
		}
	}
	for _, c := range r.Children {
		if fn(c) {
			c.Traverse(fn)
		}
	}
}

// FullName joins the names of r and its ancestors below the project root.
func (r *Reflection) FullName() string {
	if r.Parent == nil || r.Parent.Kind == KindProject {
		return r.Name
	}
	return r.Parent.FullName() + "." + r.Name
}
