package converter

import (
	"context"

	"reflectdoc/internal/config"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

type fakeNode struct {
	kind     string
	text     string
	file     string
	start    int
	end      int
	parent   *fakeNode
	children []*fakeNode
	// ref models a syntax-level reference to another node (e.g. an alias target).
	ref *fakeNode
}

var fakeOffset int

func node(kind, text string, children ...*fakeNode) *fakeNode {
	fakeOffset += 10
	n := &fakeNode{kind: kind, text: text, file: "fake.go", start: fakeOffset, end: fakeOffset + 5}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *fakeNode) Kind() string { return n.kind }
func (n *fakeNode) Span() frontend.Span {
	return frontend.Span{File: n.file, Start: n.start, End: n.end, Line: 1, Column: 1}
}
func (n *fakeNode) Text() string                    { return n.text }
func (n *fakeNode) Field(name string) frontend.Node { return nil }
func (n *fakeNode) NamedChildren() []frontend.Node {
	out := make([]frontend.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *fakeNode) Parent() frontend.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *fakeNode) PrevSibling() frontend.Node { return nil }

type fakeType string

func (t fakeType) String() string { return string(t) }

type fakeChecker map[frontend.NodeKey]frontend.Type

func (c fakeChecker) TypeAt(n frontend.Node) (frontend.Type, bool) {
	t, ok := c[frontend.KeyOf(n)]
	return t, ok
}

type fakeProgram struct {
	files   map[string]*fakeNode
	order   []string
	diags   []frontend.Diagnostic
	checker fakeChecker
	modules []frontend.Module
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{files: make(map[string]*fakeNode), checker: fakeChecker{}}
}

func (p *fakeProgram) addFile(name string, root *fakeNode) {
	p.files[name] = root
	p.order = append(p.order, name)
}

func (p *fakeProgram) RootFiles() []string { return p.order }
func (p *fakeProgram) SourceUnit(file string) (frontend.Node, bool) {
	n, ok := p.files[file]
	if !ok {
		return nil, false
	}
	return n, true
}
func (p *fakeProgram) Checker() frontend.TypeChecker             { return p.checker }
func (p *fakeProgram) PreEmitDiagnostics() []frontend.Diagnostic { return p.diags }
func (p *fakeProgram) Modules() []frontend.Module {
	if p.modules != nil {
		return p.modules
	}
	return []frontend.Module{{Name: "fake", Path: "fake", Files: p.order}}
}

func fakeLoader(p *fakeProgram) frontend.Loader {
	return frontend.LoaderFunc(func(context.Context, *config.Options, []string) (frontend.Program, error) {
		return p, nil
	})
}

// visitAll is a node converter that creates one reflection per node and then
// visits children and references.
type visitAll struct {
	name  string
	kinds []string
	kind  models.ReflectionKind
}

func (v *visitAll) Name() string    { return v.name }
func (v *visitAll) Kinds() []string { return v.kinds }
func (v *visitAll) Convert(c *Context, n frontend.Node) *models.Reflection {
	r := c.CreateReflection(v.kind, n.Text(), n)
	c.WithScope(r, func() {
		for _, child := range n.NamedChildren() {
			c.ConvertNode(child)
		}
		if fn, ok := n.(*fakeNode); ok && fn.ref != nil {
			c.ConvertNode(fn.ref)
		}
	})
	return r
}

// passThrough converts children into the current scope without creating a
// reflection of its own.
type passThrough struct {
	kinds []string
}

func (p *passThrough) Name() string    { return "pass-through" }
func (p *passThrough) Kinds() []string { return p.kinds }
func (p *passThrough) Convert(c *Context, n frontend.Node) *models.Reflection {
	for _, child := range n.NamedChildren() {
		c.ConvertNode(child)
	}
	return nil
}

type stubTypeConverter struct {
	name     string
	priority int
	accepts  func(t frontend.Type) bool
	result   models.Type
}

func (s *stubTypeConverter) Name() string  { return s.name }
func (s *stubTypeConverter) Priority() int { return s.priority }
func (s *stubTypeConverter) SupportsType(_ *Context, t frontend.Type) bool {
	return s.accepts == nil || s.accepts(t)
}
func (s *stubTypeConverter) ConvertType(*Context, frontend.Type) models.Type { return s.result }

type stubNodeTypeConverter struct {
	name     string
	priority int
	nodeKind string
	result   models.Type
}

func (s *stubNodeTypeConverter) Name() string  { return s.name }
func (s *stubNodeTypeConverter) Priority() int { return s.priority }
func (s *stubNodeTypeConverter) SupportsNode(_ *Context, n frontend.Node, _ frontend.Type) bool {
	return n.Kind() == s.nodeKind
}
func (s *stubNodeTypeConverter) ConvertNode(*Context, frontend.Node, frontend.Type) models.Type {
	return s.result
}

type recorder struct {
	name   string
	events []EventName
	counts map[EventName]int
}

func newRecorder() *recorder {
	return &recorder{name: "recorder", counts: make(map[EventName]int)}
}

func (r *recorder) Name() string { return r.name }
func (r *recorder) Attach(s Subscriber) {
	for _, name := range []EventName{
		EventBegin, EventFileBegin, EventCreateDeclaration, EventCreateSignature,
		EventCreateParameter, EventCreateTypeParameter, EventFunctionImplementation,
		EventResolveBegin, EventResolveReflection, EventResolveEnd, EventEnd,
	} {
		s.On(name, func(_ *Context, e Event) {
			r.events = append(r.events, e.Name)
			r.counts[e.Name]++
		})
	}
}
