// Package converter turns a front-end program into a reflection project.
//
// A Converter owns a node registry (syntax kind -> NodeConverter), two
// prioritized type converter chains, and an event bus. Convert runs two phases:
// compile visits every entry point's syntax tree; resolve fires
// resolveReflection for every reflection compile produced, so plugins can link
// cross references against the complete graph.
package converter

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"reflectdoc/internal/config"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

// Phase is the state of the most recent run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCompiling
	PhaseFailed
	PhaseResolving
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCompiling:
		return "compiling"
	case PhaseFailed:
		return "failed"
	case PhaseResolving:
		return "resolving"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// DiagnosticsError is returned when the front-end reports pre-emit
// diagnostics. No project is produced in that case.
type DiagnosticsError struct {
	Diagnostics []frontend.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	lines := make([]string, 0, len(e.Diagnostics)+1)
	lines = append(lines, fmt.Sprintf("program has %d diagnostic(s)", len(e.Diagnostics)))
	for _, d := range e.Diagnostics {
		lines = append(lines, "  "+d.String())
	}
	return strings.Join(lines, "\n")
}

type Option func(*Converter)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// Converter drives conversion runs. Runs are sequential; a Converter is not safe
// for concurrent use.
type Converter struct {
	opts   *config.Options
	loader frontend.Loader
	log    *zap.SugaredLogger

	bus        *EventBus
	nodes      *nodeRegistry
	types      *typeRegistry
	components map[string]Component
	order      []string

	phase Phase
}

// New creates a converter without any components.
func New(opts *config.Options, loader frontend.Loader, options ...Option) *Converter {
	if opts == nil {
		opts = config.Default()
	}
	c := &Converter{
		opts:       opts,
		loader:     loader,
		log:        zap.NewNop().Sugar(),
		bus:        NewEventBus(),
		nodes:      newNodeRegistry(),
		types:      newTypeRegistry(),
		components: make(map[string]Component),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

func (c *Converter) Options() *config.Options { return c.opts }
func (c *Converter) Events() *EventBus        { return c.bus }
func (c *Converter) Phase() Phase             { return c.phase }

// AddComponent registers comp under its name and inserts it into every
// registry matching the interfaces it implements.
func (c *Converter) AddComponent(comp Component) error {
	name := comp.Name()
	if name == "" {
		return errors.New("component has no name")
	}
	if _, exists := c.components[name]; exists {
		return errors.Newf("component %q already registered", name)
	}
	c.components[name] = comp
	c.order = append(c.order, name)

	if nc, ok := comp.(NodeConverter); ok {
		c.nodes.add(nc)
	}
	if ntc, ok := comp.(NodeTypeConverter); ok {
		c.types.addNodeConverter(ntc)
	}
	if tc, ok := comp.(TypeConverter); ok {
		c.types.addTypeConverter(tc)
	}
	if p, ok := comp.(Plugin); ok {
		p.Attach(Subscriber{bus: c.bus, owner: name})
	}
	return nil
}

// RemoveComponent unregisters the named component and purges every registry
// entry and event subscription it owns.
func (c *Converter) RemoveComponent(name string) bool {
	if _, ok := c.components[name]; !ok {
		return false
	}
	delete(c.components, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	c.nodes.remove(name)
	c.types.remove(name)
	c.bus.Off(name)
	return true
}

// Component returns a registered component by name.
func (c *Converter) Component(name string) (Component, bool) {
	comp, ok := c.components[name]
	return comp, ok
}

// ComponentNames lists registered components in registration order.
func (c *Converter) ComponentNames() []string {
	return append([]string(nil), c.order...)
}

// TypeChains lists the type converter names of both chains in lookup order.
func (c *Converter) TypeChains() (nodeChain, typeChain []string) {
	return c.types.names()
}

// Convert runs compile and resolve over entryPoints (or the configured entry
// points when none are given). When the front-end reports diagnostics the
// returned error is a *DiagnosticsError and no project is returned.
func (c *Converter) Convert(ctx context.Context, entryPoints []string) (project *models.Project, err error) {
	if len(entryPoints) == 0 {
		entryPoints = c.opts.EntryPoints
	}
	c.phase = PhaseCompiling

	program, err := c.loader.Load(ctx, c.opts, entryPoints)
	if err != nil {
		c.phase = PhaseFailed
		return nil, errors.Wrap(err, "failed to load program")
	}

	if diags := program.PreEmitDiagnostics(); len(diags) > 0 {
		c.phase = PhaseFailed
		return nil, &DiagnosticsError{Diagnostics: diags}
	}

	name := c.opts.Name
	if name == "" {
		name = projectName(program.Modules())
	}
	project = models.NewProject(name)
	cctx := newContext(c, program, project)

	defer func() {
		if r := recover(); r != nil {
			c.phase = PhaseFailed
			project = nil
			if cause, ok := r.(error); ok {
				err = errors.Wrap(cause, "converter aborted")
			} else {
				err = errors.Newf("converter aborted: %v", r)
			}
		}
	}()

	c.compile(cctx, program, entryPoints)

	c.phase = PhaseResolving
	c.resolve(cctx)

	c.phase = PhaseDone
	cctx.Trigger(Event{Name: EventEnd})

	if warning := project.DanglingWarning(); warning != "" {
		c.log.Warnw(warning, "references", project.DanglingReferences())
	}
	return project, nil
}

func (c *Converter) compile(cctx *Context, program frontend.Program, entryPoints []string) {
	cctx.Trigger(Event{Name: EventBegin})

	scopes := newModuleScopes(program.Modules())
	for _, entry := range entryPoints {
		root, ok := program.SourceUnit(entry)
		if !ok {
			c.log.Warnw("entry point not found in program, skipping", "entry", entry)
			continue
		}
		cctx.WithScope(scopes.scopeFor(cctx, entry), func() {
			cctx.Trigger(Event{Name: EventFileBegin, File: entry, Node: root})
			cctx.ConvertNode(root)
		})
	}
}

// moduleScopes maps entry files to the reflection their declarations attach
// to. A run over a single package uses the project itself; otherwise every
// package gets a module reflection, created when its first file is compiled.
type moduleScopes struct {
	modules []frontend.Module
	byFile  map[string]int
	created map[int]*models.Reflection
}

func newModuleScopes(modules []frontend.Module) *moduleScopes {
	s := &moduleScopes{
		modules: modules,
		byFile:  make(map[string]int),
		created: make(map[int]*models.Reflection),
	}
	for i, m := range modules {
		for _, f := range m.Files {
			s.byFile[filepath.ToSlash(filepath.Clean(f))] = i
		}
	}
	return s
}

func (s *moduleScopes) scopeFor(cctx *Context, entry string) *models.Reflection {
	if len(s.modules) < 2 {
		return cctx.project.Root
	}
	i, ok := s.byFile[filepath.ToSlash(filepath.Clean(entry))]
	if !ok {
		return cctx.project.Root
	}
	if r, ok := s.created[i]; ok {
		return r
	}
	var module *models.Reflection
	cctx.WithScope(cctx.project.Root, func() {
		module = cctx.CreateReflection(models.KindModule, s.modules[i].Name, nil)
	})
	s.created[i] = module
	return module
}

// projectName is the package name of a single-package run, otherwise the
// base name of the directory the packages share.
func projectName(modules []frontend.Module) string {
	switch len(modules) {
	case 0:
		return ""
	case 1:
		return modules[0].Name
	}
	common := modules[0].Dir
	for _, m := range modules[1:] {
		for common != "/" && common != "." && m.Dir != common && !strings.HasPrefix(m.Dir, common+"/") {
			common = path.Dir(common)
		}
	}
	return path.Base(common)
}

func (c *Converter) resolve(cctx *Context) {
	project := cctx.project
	cctx.Trigger(Event{Name: EventResolveBegin})
	for _, r := range project.Ordered() {
		// A subscriber may have removed r while an earlier reflection resolved.
		if _, ok := project.Get(r.ID); !ok {
			continue
		}
		cctx.Trigger(Event{Name: EventResolveReflection, Reflection: r})
	}
	cctx.Trigger(Event{Name: EventResolveEnd})
}
