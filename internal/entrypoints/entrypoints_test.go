package entrypoints

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpander_Expand(t *testing.T) {
	root := filepath.Join("testdata", "tree")

	t.Run("Directory", func(t *testing.T) {
		got, err := NewExpander().Expand([]string{root})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"testdata/tree/a.go",
			"testdata/tree/b.go",
			"testdata/tree/sub/c.go",
		}, got)
	})

	t.Run("Tests and custom ignore list", func(t *testing.T) {
		got, err := NewExpander(WithTests(), WithIgnored("sub")).Expand([]string{root})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"testdata/tree/a.go",
			"testdata/tree/a_test.go",
			"testdata/tree/b.go",
			"testdata/tree/vendor/dep/d.go",
		}, got)
	})

	t.Run("Files keep argument order and are deduplicated", func(t *testing.T) {
		got, err := NewExpander().Expand([]string{
			filepath.Join(root, "b.go"),
			"missing.go",
			root,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"testdata/tree/b.go",
			"missing.go",
			"testdata/tree/a.go",
			"testdata/tree/sub/c.go",
		}, got)
	})
}
