package converter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"reflectdoc/internal/config"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

func newTestConverter(t *testing.T, program *fakeProgram, comps ...Component) *Converter {
	t.Helper()
	conv := New(config.Default(), fakeLoader(program))
	for _, comp := range comps {
		require.NoError(t, conv.AddComponent(comp))
	}
	return conv
}

func declConverter() *visitAll {
	return &visitAll{name: "decl", kinds: []string{"decl"}, kind: models.KindFunction}
}

func TestConvertNode_CycleGuard(t *testing.T) {
	a := node("decl", "A")
	b := node("decl", "B")
	a.ref = b
	b.ref = a

	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", a))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter())
	project, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)

	require.Len(t, project.Root.Children, 1)
	ra := project.Root.Children[0]
	assert.Equal(t, "A", ra.Name)
	require.Len(t, ra.Children, 1)
	rb := ra.Children[0]
	assert.Equal(t, "B", rb.Name)
	assert.Empty(t, rb.Children, "A is on the visit stack while B converts, so it is not re-dispatched")
	assert.Equal(t, 3, project.Len())
}

func TestConvertNode_SelfReference(t *testing.T) {
	a := node("decl", "Self")
	a.ref = a

	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", a))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter())
	project, err := conv.Convert(context.Background(), nil)
	require.NoError(t, err)
	// No configured entry points and none given: nothing is visited.
	assert.Empty(t, project.Root.Children)

	project, err = conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	require.Len(t, project.Root.Children, 1)
	assert.Empty(t, project.Root.Children[0].Children)
}

func TestConvertNode_SiblingsDoNotShareVisitStack(t *testing.T) {
	shared := node("decl", "Shared")
	left := node("decl", "Left")
	right := node("decl", "Right")
	left.ref = shared
	right.ref = shared

	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", left, right))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter())
	project, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)

	require.Len(t, project.Root.Children, 2)
	for _, r := range project.Root.Children {
		require.Len(t, r.Children, 1, "%s should convert the shared node", r.Name)
		assert.Equal(t, "Shared", r.Children[0].Name)
	}
}

func TestConvertNode_RestoresVisitStack(t *testing.T) {
	var stacks [][]frontend.NodeKey
	probe := &visitAll{name: "probe", kinds: []string{"probe"}, kind: models.KindVariable}

	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", node("probe", "x"), node("probe", "y")))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, probe)
	conv.Events().On(EventCreateDeclaration, "test", func(c *Context, e Event) {
		stacks = append(stacks, c.VisitStack())
	})
	_, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)

	require.Len(t, stacks, 2)
	assert.Len(t, stacks[0], 2, "file + first probe")
	assert.Len(t, stacks[1], 2, "first probe was popped before the second")
	assert.NotEqual(t, stacks[0][1], stacks[1][1])
}

func TestConvertNode_UnregisteredKindYieldsNothing(t *testing.T) {
	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", node("import", "fmt"), node("decl", "F")))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter())
	project, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)

	require.Len(t, project.Root.Children, 1)
	assert.Equal(t, "F", project.Root.Children[0].Name)
}

func TestTypeRegistry_PriorityResolution(t *testing.T) {
	program := newFakeProgram()
	conv := newTestConverter(t, program,
		&stubTypeConverter{name: "ten", priority: 10, result: models.IntrinsicType{Name: "ten"}},
		&stubTypeConverter{name: "five", priority: 5, result: models.IntrinsicType{Name: "five"}},
	)
	c := newContext(conv, program, models.NewProject("p"))

	assert.Equal(t, models.IntrinsicType{Name: "ten"}, c.ConvertType(nil, fakeType("int")))

	require.NoError(t, conv.AddComponent(&stubTypeConverter{name: "seven", priority: 7, result: models.IntrinsicType{Name: "seven"}}))
	assert.Equal(t, models.IntrinsicType{Name: "ten"}, c.ConvertType(nil, fakeType("int")))

	_, typeChain := conv.TypeChains()
	assert.Equal(t, []string{"ten", "seven", "five"}, typeChain)
}

func TestTypeRegistry_EqualPrioritiesKeepInsertionOrder(t *testing.T) {
	program := newFakeProgram()
	conv := newTestConverter(t, program,
		&stubTypeConverter{name: "first", priority: 1},
		&stubTypeConverter{name: "high", priority: 3},
		&stubTypeConverter{name: "second", priority: 1},
		&stubTypeConverter{name: "third", priority: 1},
	)
	_, typeChain := conv.TypeChains()
	assert.Equal(t, []string{"high", "first", "second", "third"}, typeChain)

	conv.RemoveComponent("second")
	_, typeChain = conv.TypeChains()
	assert.Equal(t, []string{"high", "first", "third"}, typeChain)
}

func TestTypeRegistry_NodeChainBeforeTypeChain(t *testing.T) {
	ptr := node("pointer_type", "*T")
	program := newFakeProgram()
	program.checker[frontend.KeyOf(ptr)] = fakeType("*T")

	conv := newTestConverter(t, program,
		&stubTypeConverter{name: "by-type", priority: 100, result: models.UnknownType{Name: "by-type"}},
		&stubNodeTypeConverter{name: "by-node", priority: 1, nodeKind: "pointer_type", result: models.PointerType{Target: models.ReferenceType{Name: "T"}}},
	)
	c := newContext(conv, program, models.NewProject("p"))

	t.Run("node with lazily resolved type", func(t *testing.T) {
		assert.Equal(t, "*T", c.ConvertType(ptr, nil).String())
	})
	t.Run("node kind not supported falls through", func(t *testing.T) {
		other := node("slice_type", "[]T")
		assert.Equal(t, "by-type", c.ConvertType(other, fakeType("[]T")).String())
	})
	t.Run("node without a resolved type", func(t *testing.T) {
		untyped := node("pointer_type", "*U")
		assert.Nil(t, c.ConvertType(untyped, nil))
	})
	t.Run("no node", func(t *testing.T) {
		assert.Equal(t, "by-type", c.ConvertType(nil, fakeType("*T")).String())
	})
}

func TestTypeRegistry_MissReturnsNil(t *testing.T) {
	program := newFakeProgram()
	conv := newTestConverter(t, program, &stubTypeConverter{
		name:    "ints-only",
		accepts: func(t frontend.Type) bool { return t.String() == "int" },
		result:  models.IntrinsicType{Name: "int"},
	})
	c := newContext(conv, program, models.NewProject("p"))

	assert.Nil(t, c.ConvertType(nil, fakeType("chan int")))
	assert.Nil(t, c.ConvertType(nil, nil))
}

func TestTypeRegistry_BatchDropsFailures(t *testing.T) {
	program := newFakeProgram()
	conv := newTestConverter(t, program, &stubTypeConverter{
		name:    "echo-ints",
		accepts: func(t frontend.Type) bool { return t.String() != "bad" },
		result:  models.IntrinsicType{Name: "ok"},
	})
	c := newContext(conv, program, models.NewProject("p"))

	a, b, d := node("x", "a"), node("x", "b"), node("x", "d")
	got := c.ConvertTypes(
		[]frontend.Node{a, b, d},
		[]frontend.Type{fakeType("int"), fakeType("bad"), fakeType("string")},
	)
	assert.Len(t, got, 2)

	got = c.ConvertTypes(nil, []frontend.Type{fakeType("bad"), fakeType("int")})
	assert.Equal(t, []models.Type{models.IntrinsicType{Name: "ok"}}, got)
}

func TestComponents_IdempotentReRegistration(t *testing.T) {
	a := node("decl", "A")
	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", a))

	typeConv := &stubTypeConverter{name: "t", priority: 4, result: models.IntrinsicType{Name: "int"}}
	decl := declConverter()
	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, decl, typeConv)

	before, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)

	assert.True(t, conv.RemoveComponent("decl"))
	assert.True(t, conv.RemoveComponent("t"))
	assert.False(t, conv.RemoveComponent("t"))

	empty, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	assert.Empty(t, empty.Root.Children)
	_, typeChain := conv.TypeChains()
	assert.Empty(t, typeChain)

	require.NoError(t, conv.AddComponent(declConverter()))
	require.NoError(t, conv.AddComponent(&stubTypeConverter{name: "t", priority: 4, result: models.IntrinsicType{Name: "int"}}))

	after, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	assert.Equal(t, models.ToObject(before), models.ToObject(after))

	c := newContext(conv, program, models.NewProject("p"))
	assert.Equal(t, models.IntrinsicType{Name: "int"}, c.ConvertType(nil, fakeType("x")))
}

func TestComponents_RemoveUncoversEarlierNodeConverter(t *testing.T) {
	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", node("decl", "A")))

	conv := newTestConverter(t, program,
		&passThrough{kinds: []string{"file"}},
		&visitAll{name: "as-function", kinds: []string{"decl"}, kind: models.KindFunction},
		&visitAll{name: "as-variable", kinds: []string{"decl"}, kind: models.KindVariable},
	)
	project, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	assert.Equal(t, models.KindVariable, project.Root.Children[0].Kind)

	conv.RemoveComponent("as-variable")
	project, err = conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	assert.Equal(t, models.KindFunction, project.Root.Children[0].Kind)
}

func TestComponents_ReAddKeepsDispatchPosition(t *testing.T) {
	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", node("decl", "A")))

	conv := newTestConverter(t, program,
		&passThrough{kinds: []string{"file"}},
		&visitAll{name: "as-function", kinds: []string{"decl"}, kind: models.KindFunction},
		&visitAll{name: "as-variable", kinds: []string{"decl"}, kind: models.KindVariable},
	)
	before, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	require.Equal(t, models.KindVariable, before.Root.Children[0].Kind)

	require.True(t, conv.RemoveComponent("as-function"))
	require.NoError(t, conv.AddComponent(&visitAll{name: "as-function", kinds: []string{"decl"}, kind: models.KindFunction}))

	after, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	assert.Equal(t, models.KindVariable, after.Root.Children[0].Kind)
	assert.Equal(t, models.ToObject(before), models.ToObject(after))
}

func TestTypeRegistry_ReAddKeepsPositionAmongEqualPriorities(t *testing.T) {
	program := newFakeProgram()
	conv := newTestConverter(t, program,
		&stubTypeConverter{name: "first", priority: 1},
		&stubTypeConverter{name: "second", priority: 1},
	)
	require.True(t, conv.RemoveComponent("first"))
	require.NoError(t, conv.AddComponent(&stubTypeConverter{name: "first", priority: 1}))

	_, typeChain := conv.TypeChains()
	assert.Equal(t, []string{"first", "second"}, typeChain)
}

func TestEventBus_ReSubscribedOwnerKeepsItsPlace(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	on := func(owner string) {
		bus.On(EventResolveReflection, owner, func(*Context, Event) { calls = append(calls, owner) })
	}
	on("references")
	on("hierarchy")
	on("groups")

	bus.Off("references")
	on("references")
	bus.Trigger(nil, Event{Name: EventResolveReflection})
	assert.Equal(t, []string{"references", "hierarchy", "groups"}, calls)
}

func TestComponents_DuplicateName(t *testing.T) {
	conv := New(nil, fakeLoader(newFakeProgram()))
	require.NoError(t, conv.AddComponent(declConverter()))
	assert.Error(t, conv.AddComponent(declConverter()))
	assert.Equal(t, []string{"decl"}, conv.ComponentNames())
}

func TestConvert_FailClosedOnDiagnostics(t *testing.T) {
	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", node("decl", "A")))
	program.diags = []frontend.Diagnostic{
		{Message: "undefined: x", Severity: frontend.SeverityError, Span: frontend.Span{File: "main.go", Line: 3, Column: 2}},
		{Message: "missing return", Severity: frontend.SeverityError},
	}

	rec := newRecorder()
	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter(), rec)

	project, err := conv.Convert(context.Background(), []string{"main.go"})
	assert.Nil(t, project)

	var diagErr *DiagnosticsError
	require.True(t, errors.As(err, &diagErr))
	assert.Equal(t, program.diags, diagErr.Diagnostics)
	assert.Contains(t, err.Error(), "main.go:3:2: error: undefined: x")

	assert.Zero(t, rec.counts[EventResolveBegin])
	assert.Zero(t, rec.counts[EventBegin])
	assert.Equal(t, PhaseFailed, conv.Phase())
}

func TestConvert_LoaderError(t *testing.T) {
	conv := New(nil, frontend.LoaderFunc(func(context.Context, *config.Options, []string) (frontend.Program, error) {
		return nil, errors.New("boom")
	}))
	_, err := conv.Convert(context.Background(), []string{"x.go"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, PhaseFailed, conv.Phase())
}

func TestConvert_MissingEntryPointIsSkipped(t *testing.T) {
	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", node("decl", "A")))

	core, logs := observer.New(zapcore.WarnLevel)
	conv := New(config.Default(), fakeLoader(program), WithLogger(zap.New(core).Sugar()))
	require.NoError(t, conv.AddComponent(&passThrough{kinds: []string{"file"}}))
	require.NoError(t, conv.AddComponent(declConverter()))

	project, err := conv.Convert(context.Background(), []string{"missing.go", "main.go"})
	require.NoError(t, err)
	require.Len(t, project.Root.Children, 1)

	entries := logs.FilterMessage("entry point not found in program, skipping").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "missing.go", entries[0].ContextMap()["entry"])
	assert.Equal(t, PhaseDone, conv.Phase())
}

type danglingPlugin struct{}

func (danglingPlugin) Name() string { return "dangling" }
func (danglingPlugin) Attach(s Subscriber) {
	s.On(EventResolveReflection, func(c *Context, e Event) {
		if e.Reflection.Name == "A" {
			c.Project().AddDanglingReference("Ghost")
		}
	})
}

func TestConvert_DanglingReferencesAreWarnings(t *testing.T) {
	program := newFakeProgram()
	program.addFile("main.go", node("file", "main.go", node("decl", "A")))

	core, logs := observer.New(zapcore.WarnLevel)
	conv := New(config.Default(), fakeLoader(program), WithLogger(zap.New(core).Sugar()))
	for _, comp := range []Component{&passThrough{kinds: []string{"file"}}, declConverter(), danglingPlugin{}} {
		require.NoError(t, conv.AddComponent(comp))
	}

	project, err := conv.Convert(context.Background(), []string{"main.go"})
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, []string{"Ghost"}, project.DanglingReferences())
	assert.Len(t, project.Root.Children, 1)
	assert.Equal(t, 1, logs.FilterMessageSnippet("Ghost").Len())
}

func TestConvert_EventOrder(t *testing.T) {
	program := newFakeProgram()
	program.addFile("a.go", node("file", "a.go", node("decl", "A")))
	program.addFile("b.go", node("file", "b.go", node("decl", "B")))

	rec := newRecorder()
	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter(), rec)
	_, err := conv.Convert(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)

	assert.Equal(t, []EventName{
		EventBegin,
		EventFileBegin, EventCreateDeclaration,
		EventFileBegin, EventCreateDeclaration,
		EventResolveBegin,
		EventResolveReflection, EventResolveReflection, EventResolveReflection,
		EventResolveEnd,
		EventEnd,
	}, rec.events)
}

func TestConvert_ResolveSeesCompleteGraph(t *testing.T) {
	program := newFakeProgram()
	program.addFile("a.go", node("file", "a.go", node("decl", "A"), node("decl", "B")))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter())
	var seen []int
	conv.Events().On(EventResolveReflection, "test", func(c *Context, e Event) {
		seen = append(seen, e.Reflection.ID)
		assert.Equal(t, 3, c.Project().Len())
		assert.Equal(t, PhaseResolving, conv.Phase())
	})
	_, err := conv.Convert(context.Background(), []string{"a.go"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestConvert_StableOrderingAcrossRuns(t *testing.T) {
	program := newFakeProgram()
	program.addFile("a.go", node("file", "a.go", node("decl", "Z", node("decl", "inner")), node("decl", "A")))
	program.addFile("b.go", node("file", "b.go", node("decl", "M")))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter())
	first, err := conv.Convert(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)
	second, err := conv.Convert(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)

	assert.Equal(t, models.ToObject(first), models.ToObject(second))
	var names []string
	for _, r := range second.Ordered() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"fake", "Z", "inner", "A", "M"}, names)
}

func TestConvert_ModulePerPackage(t *testing.T) {
	program := newFakeProgram()
	program.addFile("a/a.go", node("file", "a/a.go", node("decl", "T")))
	program.addFile("b/b.go", node("file", "b/b.go", node("decl", "T")))
	program.addFile("a/more.go", node("file", "a/more.go", node("decl", "U")))
	program.modules = []frontend.Module{
		{Name: "a", Path: "example.com/multi/a", Dir: "/src/multi/a", Files: []string{"a/a.go", "a/more.go"}},
		{Name: "b", Path: "example.com/multi/b", Dir: "/src/multi/b", Files: []string{"b/b.go"}},
	}

	rec := newRecorder()
	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter(), rec)
	var local []bool
	conv.Events().On(EventBegin, "test", func(c *Context, _ Event) {
		local = []bool{
			c.IsLocalPackage("example.com/multi/a"),
			c.IsLocalPackage("example.com/multi/b"),
			c.IsLocalPackage("fmt"),
		}
	})

	project, err := conv.Convert(context.Background(), []string{"a/a.go", "b/b.go", "a/more.go"})
	require.NoError(t, err)
	assert.Equal(t, "multi", project.Root.Name)
	assert.Equal(t, []bool{true, true, false}, local)

	mods := project.Root.Children
	require.Len(t, mods, 2)
	for i, want := range []struct {
		name     string
		children []string
	}{
		{"a", []string{"T", "U"}},
		{"b", []string{"T"}},
	} {
		assert.Equal(t, models.KindModule, mods[i].Kind)
		assert.Equal(t, want.name, mods[i].Name)
		var names []string
		for _, child := range mods[i].Children {
			names = append(names, child.Name)
		}
		assert.Equal(t, want.children, names)
	}
	assert.Equal(t, 5, rec.counts[EventCreateDeclaration])
}

func TestConvert_SinglePackageHasNoModule(t *testing.T) {
	program := newFakeProgram()
	program.addFile("a.go", node("file", "a.go", node("decl", "A")))

	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, declConverter())
	project, err := conv.Convert(context.Background(), []string{"a.go"})
	require.NoError(t, err)
	assert.Equal(t, "fake", project.Root.Name)
	require.Len(t, project.Root.Children, 1)
	assert.Equal(t, models.KindFunction, project.Root.Children[0].Kind)
}

type panickingConverter struct{}

func (panickingConverter) Name() string    { return "panics" }
func (panickingConverter) Kinds() []string { return []string{"decl"} }
func (panickingConverter) Convert(*Context, frontend.Node) *models.Reflection {
	panic("unsupported node")
}

func TestConvert_ConverterPanicAbortsRun(t *testing.T) {
	program := newFakeProgram()
	program.addFile("a.go", node("file", "a.go", node("decl", "A")))

	rec := newRecorder()
	conv := newTestConverter(t, program, &passThrough{kinds: []string{"file"}}, panickingConverter{}, rec)
	project, err := conv.Convert(context.Background(), []string{"a.go"})
	assert.Nil(t, project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported node")
	assert.Zero(t, rec.counts[EventResolveBegin])
	assert.Equal(t, PhaseFailed, conv.Phase())
}

func TestEventBus_OrderAndOff(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	bus.On(EventBegin, "one", func(*Context, Event) { calls = append(calls, "one") })
	bus.On(EventBegin, "two", func(*Context, Event) { calls = append(calls, "two") })
	bus.On(EventEnd, "one", func(*Context, Event) { calls = append(calls, "one-end") })

	bus.Trigger(nil, Event{Name: EventBegin})
	assert.Equal(t, []string{"one", "two"}, calls)

	assert.Equal(t, 2, bus.Off("one"))
	assert.Equal(t, 1, bus.Subscribers(EventBegin))
	assert.Zero(t, bus.Subscribers(EventEnd))

	calls = nil
	bus.Trigger(nil, Event{Name: EventBegin})
	bus.Trigger(nil, Event{Name: EventEnd})
	assert.Equal(t, []string{"two"}, calls)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "resolving", PhaseResolving.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
}
