// Package frontend defines the contract between the conversion engine and the
// parser/type checker that analyzes a program. The engine only ever talks to
// these interfaces; internal/frontend/golang provides the Go implementation.
package frontend

import (
	"context"
	"fmt"

	"reflectdoc/internal/config"
)

// Span locates a syntax node inside a source unit.
// Start and End are byte offsets, Line and Column are 1-based.
type Span struct {
	File   string `json:"file"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Node is one syntax node of a source unit.
type Node interface {
	// Kind is the syntax-kind tag used for dispatch (e.g. "function_declaration").
	Kind() string
	Span() Span
	Text() string
	// Field returns the child stored under a grammar field name, or nil.
	Field(name string) Node
	NamedChildren() []Node
	Parent() Node
	PrevSibling() Node
}

// NodeKey identifies a node for recursion guards. Two wrappers around the same
// underlying syntax node always produce the same key.
type NodeKey struct {
	File  string
	Start int
	End   int
	Kind  string
}

// KeyOf returns the identity key of n.
func KeyOf(n Node) NodeKey {
	s := n.Span()
	return NodeKey{File: s.File, Start: s.Start, End: s.End, Kind: n.Kind()}
}

// Type is a resolved type produced by the type checker.
// go/types.Type satisfies it.
type Type interface {
	String() string
}

// TypeChecker resolves the type at a syntax position.
type TypeChecker interface {
	TypeAt(n Node) (Type, bool)
}

// Program is a fully analyzed set of source units.
type Program interface {
	// RootFiles lists the source units that were loaded, in entry-point order.
	RootFiles() []string
	SourceUnit(file string) (Node, bool)
	Checker() TypeChecker
	PreEmitDiagnostics() []Diagnostic
	// Modules lists the packages the root files belong to, in order of first
	// appearance among the root files.
	Modules() []Module
}

// Module is one package of a program: the root files of a single directory
// that share a package clause.
type Module struct {
	// Name is the package name.
	Name string
	// Path identifies the package to the type checker; go/types objects
	// declared in the module report it from Pkg().Path().
	Path  string
	Dir   string
	Files []string
}

// Loader builds a fresh Program for one conversion run.
type Loader interface {
	Load(ctx context.Context, opts *config.Options, entryPoints []string) (Program, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, opts *config.Options, entryPoints []string) (Program, error)

func (f LoaderFunc) Load(ctx context.Context, opts *config.Options, entryPoints []string) (Program, error) {
	return f(ctx, opts, entryPoints)
}
