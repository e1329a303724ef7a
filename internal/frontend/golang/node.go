package golang

import (
	sitter "github.com/smacker/go-tree-sitter"

	"reflectdoc/internal/frontend"
)

// syntaxNode adapts a tree-sitter node to frontend.Node.
type syntaxNode struct {
	n    *sitter.Node
	unit *sourceUnit
}

func wrap(n *sitter.Node, unit *sourceUnit) frontend.Node {
	if n == nil || n.IsNull() {
		return nil
	}
	return &syntaxNode{n: n, unit: unit}
}

func (s *syntaxNode) Kind() string { return s.n.Type() }

func (s *syntaxNode) Span() frontend.Span {
	p := s.n.StartPoint()
	return frontend.Span{
		File:   s.unit.name,
		Start:  int(s.n.StartByte()),
		End:    int(s.n.EndByte()),
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
	}
}

func (s *syntaxNode) Text() string { return s.n.Content(s.unit.src) }

func (s *syntaxNode) Field(name string) frontend.Node {
	return wrap(s.n.ChildByFieldName(name), s.unit)
}

func (s *syntaxNode) NamedChildren() []frontend.Node {
	count := int(s.n.NamedChildCount())
	out := make([]frontend.Node, 0, count)
	for i := 0; i < count; i++ {
		if child := wrap(s.n.NamedChild(i), s.unit); child != nil {
			out = append(out, child)
		}
	}
	return out
}

func (s *syntaxNode) Parent() frontend.Node { return wrap(s.n.Parent(), s.unit) }

func (s *syntaxNode) PrevSibling() frontend.Node { return wrap(s.n.PrevSibling(), s.unit) }

// FieldAll returns every child stored under a grammar field, e.g. the several
// `name` fields of `var a, b int`.
func FieldAll(n frontend.Node, field string) []frontend.Node {
	s, ok := n.(*syntaxNode)
	if !ok {
		if f := n.Field(field); f != nil {
			return []frontend.Node{f}
		}
		return nil
	}
	var out []frontend.Node
	cursor := sitter.NewTreeCursor(s.n)
	defer cursor.Close()
	if !cursor.GoToFirstChild() {
		return nil
	}
	for {
		if cursor.CurrentFieldName() == field {
			if child := wrap(cursor.CurrentNode(), s.unit); child != nil {
				out = append(out, child)
			}
		}
		if !cursor.GoToNextSibling() {
			break
		}
	}
	return out
}

// EndLine returns the 1-based line a node ends on, or the start line for
// nodes that are not tree-sitter backed.
func EndLine(n frontend.Node) int {
	if s, ok := n.(*syntaxNode); ok {
		return int(s.n.EndPoint().Row) + 1
	}
	return n.Span().Line
}
