package golang

import (
	"go/ast"
	"go/token"
	"go/types"

	"reflectdoc/internal/frontend"
)

type spanKey struct {
	file       string
	start, end int
}

// positionIndex maps byte spans of a file to the type go/types recorded for the
// expression or identifier at that span.
type positionIndex struct {
	types map[spanKey]types.Type
	// defs holds the identifiers a declaration introduces, used for
	// declaration nodes whose own span has no recorded type.
	defs map[spanKey]types.Object
	// files maps a display file name to the canonical name used as key.
	files map[string]string
}

func newPositionIndex() *positionIndex {
	return &positionIndex{
		types: make(map[spanKey]types.Type),
		defs:  make(map[spanKey]types.Object),
		files: make(map[string]string),
	}
}

// add indexes one type-checked file. name is the canonical path the file was
// parsed under.
func (idx *positionIndex) add(fset *token.FileSet, file *ast.File, info *types.Info, name string) {
	keyOf := func(n ast.Node) (spanKey, bool) {
		start, end := fset.Position(n.Pos()), fset.Position(n.End())
		if !start.IsValid() || !end.IsValid() {
			return spanKey{}, false
		}
		return spanKey{file: name, start: start.Offset, end: end.Offset}, true
	}

	ast.Inspect(file, func(n ast.Node) bool {
		expr, ok := n.(ast.Expr)
		if !ok {
			return true
		}
		key, ok := keyOf(expr)
		if !ok {
			return true
		}
		if tv, ok := info.Types[expr]; ok && tv.Type != nil {
			idx.types[key] = tv.Type
			return true
		}
		if bin, ok := expr.(*ast.BinaryExpr); ok && bin.Op == token.OR {
			if u := unionOf(info, bin); u != nil {
				idx.types[key] = u
			}
		}
		return true
	})

	for ident, obj := range info.Defs {
		if obj == nil || !inFile(fset, file, ident) {
			continue
		}
		if key, ok := keyOf(ident); ok {
			idx.defs[key] = obj
			if _, seen := idx.types[key]; !seen {
				idx.types[key] = obj.Type()
			}
		}
	}
	for ident, obj := range info.Uses {
		if obj == nil || !inFile(fset, file, ident) {
			continue
		}
		if _, isPkg := obj.(*types.PkgName); isPkg {
			continue
		}
		if key, ok := keyOf(ident); ok {
			if _, seen := idx.types[key]; !seen {
				idx.types[key] = obj.Type()
			}
		}
	}
}

func inFile(fset *token.FileSet, file *ast.File, n ast.Node) bool {
	return fset.File(n.Pos()) == fset.File(file.Pos())
}

// unionOf rebuilds the union a constraint expression such as `~int | string`
// denotes from the types recorded for its operands.
func unionOf(info *types.Info, bin *ast.BinaryExpr) *types.Union {
	var terms []*types.Term
	var collect func(e ast.Expr) bool
	collect = func(e ast.Expr) bool {
		switch x := e.(type) {
		case *ast.ParenExpr:
			return collect(x.X)
		case *ast.BinaryExpr:
			if x.Op == token.OR {
				return collect(x.X) && collect(x.Y)
			}
		case *ast.UnaryExpr:
			if x.Op == token.TILDE {
				tv, ok := info.Types[x.X]
				if !ok || tv.Type == nil {
					return false
				}
				terms = append(terms, types.NewTerm(true, tv.Type))
				return true
			}
		}
		tv, ok := info.Types[e]
		if !ok || tv.Type == nil {
			return false
		}
		terms = append(terms, types.NewTerm(false, tv.Type))
		return true
	}
	if !collect(bin) || len(terms) == 0 {
		return nil
	}
	return types.NewUnion(terms)
}

// TypeAt implements frontend.TypeChecker.
func (idx *positionIndex) TypeAt(n frontend.Node) (frontend.Type, bool) {
	span := n.Span()
	file, ok := idx.files[span.File]
	if !ok {
		return nil, false
	}
	key := spanKey{file: file, start: span.Start, end: span.End}
	if t, ok := idx.types[key]; ok {
		return t, true
	}
	// Declarations: the type of the object introduced by their name.
	if name := n.Field("name"); name != nil {
		ns := name.Span()
		if obj, ok := idx.defs[spanKey{file: file, start: ns.Start, end: ns.End}]; ok {
			return obj.Type(), true
		}
	}
	return nil, false
}

// ObjectAt returns the object declared by the identifier node n.
func (idx *positionIndex) ObjectAt(n frontend.Node) (types.Object, bool) {
	span := n.Span()
	file, ok := idx.files[span.File]
	if !ok {
		return nil, false
	}
	obj, ok := idx.defs[spanKey{file: file, start: span.Start, end: span.End}]
	return obj, ok
}
