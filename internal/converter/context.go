package converter

import (
	"go.uber.org/zap"

	"reflectdoc/internal/config"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

type typeLookup struct {
	typ frontend.Type
	ok  bool
}

// Context is the state of one conversion run. It must not be shared between
// runs or goroutines.
type Context struct {
	converter *Converter
	project   *models.Project
	program   frontend.Program
	checker   frontend.TypeChecker

	scope      *models.Reflection
	visitStack []frontend.NodeKey
	typeCache  map[frontend.NodeKey]typeLookup
	local      map[string]bool
}

func newContext(conv *Converter, program frontend.Program, project *models.Project) *Context {
	local := make(map[string]bool)
	for _, m := range program.Modules() {
		local[m.Path] = true
	}
	return &Context{
		converter: conv,
		project:   project,
		program:   program,
		checker:   program.Checker(),
		scope:     project.Root,
		typeCache: make(map[frontend.NodeKey]typeLookup),
		local:     local,
	}
}

func (c *Context) Project() *models.Project   { return c.project }
func (c *Context) Program() frontend.Program  { return c.program }
func (c *Context) Options() *config.Options   { return c.converter.opts }
func (c *Context) Logger() *zap.SugaredLogger { return c.converter.log }
func (c *Context) Scope() *models.Reflection  { return c.scope }

// IsLocalPackage reports whether the package with the given path is one of
// the packages being converted.
func (c *Context) IsLocalPackage(path string) bool { return c.local[path] }

// SetScope replaces the reflection new children attach to and returns the
// previous one.
func (c *Context) SetScope(r *models.Reflection) *models.Reflection {
	prev := c.scope
	c.scope = r
	return prev
}

// WithScope runs fn with r as the current scope and restores the previous scope
// afterwards.
func (c *Context) WithScope(r *models.Reflection, fn func()) {
	prev := c.SetScope(r)
	defer c.SetScope(prev)
	fn()
}

// VisitStack returns a copy of the keys of the nodes currently being visited,
// outermost first.
func (c *Context) VisitStack() []frontend.NodeKey {
	return append([]frontend.NodeKey(nil), c.visitStack...)
}

// TypeAt resolves the type recorded for node by the front-end. Results are
// memoized for the run.
func (c *Context) TypeAt(node frontend.Node) (frontend.Type, bool) {
	if node == nil || c.checker == nil {
		return nil, false
	}
	key := frontend.KeyOf(node)
	if hit, ok := c.typeCache[key]; ok {
		return hit.typ, hit.ok
	}
	typ, ok := c.checker.TypeAt(node)
	c.typeCache[key] = typeLookup{typ: typ, ok: ok}
	return typ, ok
}

// ConvertNode dispatches node to the converter registered for its kind.
func (c *Context) ConvertNode(node frontend.Node) *models.Reflection {
	return c.converter.nodes.convert(c, node)
}

// ConvertType converts a node and/or resolved type. A nil result means the type
// is omitted.
func (c *Context) ConvertType(node frontend.Node, typ frontend.Type) models.Type {
	return c.converter.types.convert(c, node, typ)
}

// ConvertTypes converts position-aligned nodes and types, dropping entries that
// no converter handled.
func (c *Context) ConvertTypes(nodes []frontend.Node, types []frontend.Type) []models.Type {
	return c.converter.types.convertAll(c, nodes, types)
}

// Trigger fires an event on the converter's bus.
func (c *Context) Trigger(e Event) {
	c.converter.bus.Trigger(c, e)
}

// CreateReflection registers a new reflection, attaches it to the current
// scope, and fires the creation event matching its kind before returning.
func (c *Context) CreateReflection(kind models.ReflectionKind, name string, node frontend.Node) *models.Reflection {
	r := &models.Reflection{Name: name, Kind: kind}
	c.project.Register(r)
	c.scope.AddChild(r)
	c.fireCreate(r, node)
	return r
}

// CreateLinked registers a reflection owned by owner through a single-valued
// link (see models.Reflection.Receiver); link stores it on the owner.
func (c *Context) CreateLinked(kind models.ReflectionKind, name string, node frontend.Node, owner *models.Reflection, link func(*models.Reflection)) *models.Reflection {
	r := &models.Reflection{Name: name, Kind: kind, Parent: owner}
	c.project.Register(r)
	link(r)
	c.fireCreate(r, node)
	return r
}

func (c *Context) fireCreate(r *models.Reflection, node frontend.Node) {
	var name EventName
	switch r.Kind {
	case models.KindSignature:
		name = EventCreateSignature
	case models.KindParameter:
		name = EventCreateParameter
	case models.KindTypeParameter:
		name = EventCreateTypeParameter
	default:
		name = EventCreateDeclaration
	}
	c.Trigger(Event{Name: name, Reflection: r, Node: node})
}
