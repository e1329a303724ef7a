package golang

import (
	"go/types"
	"path/filepath"

	"reflectdoc/internal/frontend"
)

type program struct {
	roots []string
	units map[string]*sourceUnit
	index *positionIndex
	diags []frontend.Diagnostic
	mods  []frontend.Module
}

func (p *program) RootFiles() []string { return append([]string(nil), p.roots...) }

func (p *program) SourceUnit(file string) (frontend.Node, bool) {
	unit, ok := p.units[canonicalPath(file)]
	if !ok {
		return nil, false
	}
	return unit.root(), true
}

func (p *program) Checker() frontend.TypeChecker { return p.index }

func (p *program) PreEmitDiagnostics() []frontend.Diagnostic { return p.diags }

func (p *program) Modules() []frontend.Module {
	out := make([]frontend.Module, len(p.mods))
	for i, m := range p.mods {
		m.Files = append([]string(nil), m.Files...)
		out[i] = m
	}
	return out
}

// group collects the root files into modules keyed by directory and package
// name. Units the type checker never reached fall back to their directory as
// the package path.
func (p *program) group() {
	p.mods = nil
	at := make(map[string]int)
	for _, name := range p.roots {
		unit := p.units[name]
		key := pkgGroupKey(unit.abs, unit.pkg)
		i, ok := at[key]
		if !ok {
			i = len(p.mods)
			at[key] = i
			dir := canonicalPath(filepath.Dir(unit.abs))
			path := unit.pkgPath
			if path == "" {
				path = dir
			}
			p.mods = append(p.mods, frontend.Module{Name: unit.pkg, Path: path, Dir: dir})
		}
		p.mods[i].Files = append(p.mods[i].Files, name)
	}
}

// relabel rewrites absolute diagnostic paths of entry files to the name the
// entry was given under.
func (p *program) relabel() {
	byAbs := make(map[string]string, len(p.units))
	for name, unit := range p.units {
		byAbs[unit.abs] = name
	}
	for i := range p.diags {
		if name, ok := byAbs[p.diags[i].Span.File]; ok {
			p.diags[i].Span.File = name
		}
	}
}

// ObjectOf returns the go/types object declared by an identifier node of a
// program built by Loader.
func ObjectOf(checker frontend.TypeChecker, ident frontend.Node) (types.Object, bool) {
	idx, ok := checker.(*positionIndex)
	if !ok || ident == nil {
		return nil, false
	}
	return idx.ObjectAt(ident)
}
