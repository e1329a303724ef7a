package nodes

import (
	"go/token"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/frontend"
	"reflectdoc/internal/frontend/golang"
)

// excluded decides, before a reflection exists, whether the configured
// exclusion options drop the declaration. member is true for fields and
// methods, which are governed by excludePrivate instead of excludeNotExported.
func excluded(c *converter.Context, n frontend.Node, name string, member bool) bool {
	opts := c.Options()
	exported := token.IsExported(name)
	switch {
	case !member && opts.ExcludeNotExported && !exported:
		return true
	case member && opts.ExcludePrivate && !exported:
		return true
	case opts.ExcludeExternals && opts.IsExternal(n.Span().File):
		return true
	case opts.ExcludeNotDocumented && golang.DocComment(n) == "":
		return true
	}
	return false
}
