// Package golang is the Go front-end: tree-sitter provides the syntax tree the
// converter walks, go/types provides the resolved types behind it.
package golang

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	grammar "github.com/smacker/go-tree-sitter/golang"

	"reflectdoc/internal/frontend"
)

// sourceUnit is one parsed entry file.
type sourceUnit struct {
	// name is the display path used in spans; abs is the canonical absolute path.
	name string
	abs  string
	src  []byte
	tree *sitter.Tree
	pkg  string
	// pkgPath is the path the type checker gave the unit's package.
	pkgPath string
}

func (u *sourceUnit) root() frontend.Node {
	return wrap(u.tree.RootNode(), u)
}

func parseSyntax(ctx context.Context, name, abs string, src []byte) (*sourceUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammar.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", name)
	}
	unit := &sourceUnit{name: name, abs: abs, src: src, tree: tree}
	unit.pkg = detectPackageName(tree.RootNode(), src)
	return unit, nil
}

func detectPackageName(root *sitter.Node, src []byte) string {
	query, err := sitter.NewQuery([]byte(`(package_clause (package_identifier) @pkg)`), grammar.GetLanguage())
	if err != nil {
		return ""
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(query, root)
	if m, ok := qc.NextMatch(); ok && len(m.Captures) > 0 {
		return m.Captures[0].Node.Content(src)
	}
	return ""
}

// syntaxDiagnostics reports ERROR and missing nodes of the unit's tree.
func syntaxDiagnostics(u *sourceUnit) []frontend.Diagnostic {
	root := u.tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var diags []frontend.Diagnostic
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			diags = append(diags, syntaxDiagnostic(u, n, fmt.Sprintf("syntax error: missing %s", n.Type())))
			return
		case n.IsError():
			diags = append(diags, syntaxDiagnostic(u, n, fmt.Sprintf("syntax error: unexpected %q", n.Content(u.src))))
			return
		case !n.HasError():
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(root)
	return diags
}

func syntaxDiagnostic(u *sourceUnit, n *sitter.Node, msg string) frontend.Diagnostic {
	return frontend.Diagnostic{
		Message:  msg,
		Severity: frontend.SeverityError,
		Span:     wrap(n, u).Span(),
	}
}

func canonicalPath(p string) string {
	if p == "" {
		return p
	}
	return filepath.ToSlash(filepath.Clean(p))
}

func pkgGroupKey(filePath, pkg string) string {
	return canonicalPath(filepath.Dir(filePath)) + "|" + pkg
}
