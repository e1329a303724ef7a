package nodes

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflectdoc/internal/config"
	"reflectdoc/internal/converter"
	"reflectdoc/internal/converter/typeconv"
	"reflectdoc/internal/frontend/golang"
	"reflectdoc/internal/models"
)

// implementations records the reflections announced by functionImplementation.
type implementations struct {
	names []string
}

func (r *implementations) Name() string { return "test:implementations" }

func (r *implementations) Attach(s converter.Subscriber) {
	s.On(converter.EventFunctionImplementation, func(_ *converter.Context, e converter.Event) {
		r.names = append(r.names, e.Reflection.Name)
	})
}

func convertFixture(t *testing.T, opts *config.Options, fixture string, extra ...converter.Component) *models.Project {
	t.Helper()
	conv := converter.New(opts, golang.NewLoader(nil))
	components := append(Builders(), typeconv.All()...)
	for _, comp := range append(components, extra...) {
		require.NoError(t, conv.AddComponent(comp))
	}
	project, err := conv.Convert(context.Background(), []string{filepath.Join("testdata", fixture, fixture+".go")})
	require.NoError(t, err)
	return project
}

func convertDecls(t *testing.T, opts *config.Options, extra ...converter.Component) *models.Project {
	t.Helper()
	return convertFixture(t, opts, "decls", extra...)
}

func names(rs []*models.Reflection) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestBuilders_TopLevel(t *testing.T) {
	project := convertDecls(t, config.Default())
	root := project.Root

	assert.Equal(t,
		[]string{"Early", "Store", "Sum", "Map", "Reader", "ID", "A", "B", "x", "y"},
		names(root.Children),
	)

	kinds := map[string]models.ReflectionKind{
		"Store":  models.KindStruct,
		"Sum":    models.KindFunction,
		"Reader": models.KindInterface,
		"ID":     models.KindTypeAlias,
		"A":      models.KindConstant,
		"x":      models.KindVariable,
	}
	for name, kind := range kinds {
		assert.Equal(t, kind, root.ChildByName(name).Kind, name)
	}
}

func TestBuilders_MethodPlacement(t *testing.T) {
	project := convertDecls(t, config.Default())
	root := project.Root
	store := root.ChildByName("Store")
	require.NotNil(t, store)

	t.Run("Receiver type already converted", func(t *testing.T) {
		get := store.ChildByName("Get")
		require.NotNil(t, get)
		assert.Equal(t, models.KindMethod, get.Kind)
		assert.Nil(t, root.ChildByName("Get"))
	})

	t.Run("Receiver type declared later", func(t *testing.T) {
		early := root.ChildByName("Early")
		require.NotNil(t, early)
		assert.Equal(t, models.KindMethod, early.Kind)
		assert.Nil(t, store.ChildByName("Early"))
	})

	t.Run("Value receiver", func(t *testing.T) {
		unnamed := store.ChildByName("unnamed")
		require.NotNil(t, unnamed)
		assert.Same(t, store, unnamed.Parent)
		assert.Equal(t, []string{"items", "Stringer", "Get", "unnamed"}, names(store.Children))
	})
}

func TestBuilders_Signatures(t *testing.T) {
	project := convertDecls(t, config.Default())
	root := project.Root
	store := root.ChildByName("Store")

	t.Run("Named results become a tuple", func(t *testing.T) {
		sig := store.ChildByName("Get").Children[0]
		assert.Equal(t, models.KindSignature, sig.Kind)
		assert.Equal(t, models.TupleType{Elements: []models.TupleElement{
			{Name: "value", Type: models.IntrinsicType{Name: "int"}},
			{Name: "ok", Type: models.IntrinsicType{Name: "bool"}},
		}}, sig.Type)

		require.NotNil(t, sig.Receiver)
		assert.Equal(t, "s", sig.Receiver.Name)
		assert.Equal(t, models.KindParameter, sig.Receiver.Kind)
		assert.Equal(t, models.PointerType{Target: models.ReferenceType{Name: "Store", Package: "decls"}}, sig.Receiver.Type)
		assert.Equal(t, []string{"key"}, names(sig.Children))
	})

	t.Run("Unnamed parameters", func(t *testing.T) {
		sig := store.ChildByName("unnamed").Children[0]
		assert.Equal(t, []string{"_", "_"}, names(sig.Children))
		assert.Equal(t, "_", sig.Receiver.Name)
		assert.Nil(t, sig.Type)
	})

	t.Run("Variadic parameter", func(t *testing.T) {
		sig := root.ChildByName("Sum").Children[0]
		require.Len(t, sig.Children, 2)
		rest := sig.Children[1]
		assert.True(t, rest.Flags.Variadic)
		assert.Equal(t, models.ArrayType{Element: models.IntrinsicType{Name: "int"}}, rest.Type)
		assert.False(t, sig.Children[0].Flags.Variadic)
		assert.Equal(t, models.IntrinsicType{Name: "int"}, sig.Type)
	})

	t.Run("Type parameters", func(t *testing.T) {
		sig := root.ChildByName("Map").Children[0]
		assert.Equal(t, []string{"T", "U"}, names(sig.ChildrenOfKind(models.KindTypeParameter)))
		assert.Equal(t, []string{"in", "fn"}, names(sig.ChildrenOfKind(models.KindParameter)))

		fn := sig.ChildByName("fn")
		assert.Equal(t, models.FunctionType{
			Params:  []models.Type{models.ReferenceType{Name: "T", Package: "decls"}},
			Results: []models.Type{models.ReferenceType{Name: "U", Package: "decls"}},
		}, fn.Type)
	})
}

func TestBuilders_Members(t *testing.T) {
	project := convertDecls(t, config.Default())
	root := project.Root

	t.Run("Struct fields and embedding", func(t *testing.T) {
		store := root.ChildByName("Store")
		items := store.ChildByName("items")
		require.NotNil(t, items)
		assert.Equal(t, models.KindField, items.Kind)
		assert.False(t, items.Flags.Exported)

		stringer := store.ChildByName("Stringer")
		require.NotNil(t, stringer)
		assert.True(t, stringer.Flags.Embedded)

		embedded := models.ReferenceType{Name: "Stringer", Package: "fmt", External: true}
		assert.Equal(t, embedded, stringer.Type)
		assert.Equal(t, []models.Type{embedded}, store.ExtendedTypes)
	})

	t.Run("Interface methods and embedded interfaces", func(t *testing.T) {
		reader := root.ChildByName("Reader")
		assert.Equal(t, []models.Type{
			models.ReferenceType{Name: "Stringer", Package: "fmt", External: true},
		}, reader.ExtendedTypes)

		read := reader.ChildByName("Read")
		require.NotNil(t, read)
		assert.Equal(t, models.KindMethod, read.Kind)
		sig := read.Children[0]
		assert.Equal(t, []string{"p"}, names(sig.Children))
		assert.IsType(t, models.TupleType{}, sig.Type)
	})

	t.Run("Alias", func(t *testing.T) {
		assert.Equal(t, models.IntrinsicType{Name: "string"}, root.ChildByName("ID").Type)
	})

	t.Run("Values", func(t *testing.T) {
		a := root.ChildByName("A")
		assert.Equal(t, "1", a.DefaultValue)
		assert.Equal(t, "2", root.ChildByName("B").DefaultValue)
		assert.Nil(t, root.ChildByName("_"))
		assert.Equal(t, models.IntrinsicType{Name: "int"}, root.ChildByName("y").Type)
	})
}

func TestBuilders_InterfaceTypeSets(t *testing.T) {
	root := convertFixture(t, config.Default(), "typeset").Root

	union := func(names ...string) models.UnionType {
		u := models.UnionType{}
		for _, name := range names {
			u.Terms = append(u.Terms, models.UnionTerm{Tilde: true, Type: models.IntrinsicType{Name: name}})
		}
		return u
	}

	t.Run("Single element", func(t *testing.T) {
		assert.Equal(t, union("int", "string"), root.ChildByName("Single").Type)
	})

	t.Run("Every element is kept", func(t *testing.T) {
		integer := root.ChildByName("Integer")
		require.NotNil(t, integer)
		assert.Equal(t, models.IntersectionType{Types: []models.Type{
			union("int", "int64"),
			union("int", "uint"),
		}}, integer.Type)
		assert.Equal(t, "~int | ~int64; ~int | ~uint", integer.Type.String())
	})

	t.Run("Three elements", func(t *testing.T) {
		keyed := root.ChildByName("Keyed")
		require.NotNil(t, keyed)
		set, ok := keyed.Type.(models.IntersectionType)
		require.True(t, ok)
		require.Len(t, set.Types, 3)
		assert.Equal(t, union("int", "int32"), set.Types[2])
	})
}

func TestBuilders_FunctionImplementation(t *testing.T) {
	rec := &implementations{}
	convertDecls(t, config.Default(), rec)

	assert.Equal(t, []string{"Early", "Get", "unnamed", "Sum", "Map"}, rec.names)
}

func TestBuilders_Exclusion(t *testing.T) {
	t.Run("Not exported", func(t *testing.T) {
		opts := config.Default()
		opts.ExcludeNotExported = true
		root := convertDecls(t, opts).Root

		assert.Nil(t, root.ChildByName("x"))
		assert.Nil(t, root.ChildByName("y"))
		// Members are governed by excludePrivate.
		assert.NotNil(t, root.ChildByName("Store").ChildByName("items"))
	})

	t.Run("Private members", func(t *testing.T) {
		opts := config.Default()
		opts.ExcludePrivate = true
		root := convertDecls(t, opts).Root

		store := root.ChildByName("Store")
		assert.Nil(t, store.ChildByName("items"))
		assert.Nil(t, store.ChildByName("unnamed"))
		assert.NotNil(t, store.ChildByName("Get"))
		assert.NotNil(t, root.ChildByName("x"))
	})

	t.Run("Not documented", func(t *testing.T) {
		opts := config.Default()
		opts.ExcludeNotDocumented = true
		root := convertDecls(t, opts).Root

		assert.Equal(t, []string{"Early", "Store", "Sum", "Reader"}, names(root.Children))
		assert.Equal(t, []string{"Get"}, names(root.ChildByName("Store").Children))
	})

	t.Run("Externals", func(t *testing.T) {
		opts := config.Default()
		opts.ExcludeExternals = true
		opts.ExternalPattern = []string{"decls.go"}
		root := convertDecls(t, opts).Root

		assert.Empty(t, root.Children)
	})
}
