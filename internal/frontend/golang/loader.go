package golang

import (
	"context"
	"go/ast"
	"go/build"
	"go/importer"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"reflectdoc/internal/config"
	"reflectdoc/internal/frontend"
)

// Loader builds programs from Go source files.
type Loader struct {
	log *zap.SugaredLogger
}

var _ frontend.Loader = (*Loader)(nil)

func NewLoader(log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{log: log}
}

// Load parses every entry point and type-checks the packages they belong to.
// Entry points that do not exist are left out of the program.
func (l *Loader) Load(ctx context.Context, opts *config.Options, entryPoints []string) (frontend.Program, error) {
	if opts == nil {
		opts = config.Default()
	}
	prog := &program{
		units: make(map[string]*sourceUnit),
		index: newPositionIndex(),
	}

	for _, entry := range entryPoints {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "load cancelled")
		}
		name := canonicalPath(entry)
		if _, dup := prog.units[name]; dup {
			continue
		}
		src, err := os.ReadFile(entry)
		if err != nil {
			if os.IsNotExist(err) {
				l.log.Debugw("entry point does not exist", "entry", entry)
				continue
			}
			return nil, errors.Wrapf(err, "failed to read %s", entry)
		}
		abs, err := filepath.Abs(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", entry)
		}
		unit, err := parseSyntax(ctx, name, canonicalPath(abs), src)
		if err != nil {
			return nil, err
		}
		prog.units[name] = unit
		prog.roots = append(prog.roots, name)
		prog.index.files[name] = unit.abs
	}
	if len(prog.roots) == 0 {
		return prog, nil
	}

	var typeDiags []frontend.Diagnostic
	var err error
	switch opts.Loader {
	case config.LoaderPackages:
		typeDiags, err = l.checkPackages(ctx, opts, prog)
	default:
		typeDiags, err = l.checkSource(ctx, prog)
	}
	if err != nil {
		return nil, err
	}

	prog.group()
	prog.diags = typeDiags
	prog.relabel()
	// tree-sitter and go/parser usually both flag a syntax error; report the
	// tree-sitter view only for files nothing else complained about.
	reported := make(map[string]bool)
	for _, d := range prog.diags {
		reported[d.Span.File] = true
	}
	for _, name := range prog.roots {
		if !reported[name] {
			prog.diags = append(prog.diags, syntaxDiagnostics(prog.units[name])...)
		}
	}
	frontend.SortDiagnostics(prog.diags)
	return prog, nil
}

// checkSource type-checks each (directory, package) group with go/types and
// the source importer. Sibling files of the same package are parsed for
// typing only. The directory serves as the package path, so same-named
// packages of different directories stay distinct.
func (l *Loader) checkSource(ctx context.Context, prog *program) ([]frontend.Diagnostic, error) {
	groups := make(map[string][]*sourceUnit)
	var keys []string
	for _, name := range prog.roots {
		unit := prog.units[name]
		key := pkgGroupKey(unit.abs, unit.pkg)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], unit)
	}

	var diags []frontend.Diagnostic
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "type check cancelled")
		}
		units := groups[key]
		fset := token.NewFileSet()
		files, parseDiags := parseGroup(fset, units)
		diags = append(diags, parseDiags...)

		info := &types.Info{
			Types: make(map[ast.Expr]types.TypeAndValue),
			Defs:  make(map[*ast.Ident]types.Object),
			Uses:  make(map[*ast.Ident]types.Object),
		}
		conf := &types.Config{
			Importer: importer.ForCompiler(fset, "source", nil),
			Error: func(err error) {
				var terr types.Error
				if errors.As(err, &terr) {
					diags = append(diags, diagnosticAt(terr.Fset.Position(terr.Pos), terr.Msg))
				}
			},
		}
		pkgPath := canonicalPath(filepath.Dir(units[0].abs))
		pkg, _ := conf.Check(pkgPath, fset, files, info)
		for _, u := range units {
			u.pkgPath = pkgPath
		}
		for _, f := range files {
			prog.index.add(fset, f, info, canonicalPath(fset.Position(f.Pos()).Filename))
		}
		l.log.Debugw("type-checked package",
			"group", key,
			"files", len(files),
			"complete", pkg != nil && pkg.Complete(),
		)
	}
	return diags, nil
}

// parseGroup parses the group's entry files from the bytes tree-sitter saw,
// then any sibling file of the same package that matches the build context.
func parseGroup(fset *token.FileSet, units []*sourceUnit) ([]*ast.File, []frontend.Diagnostic) {
	var files []*ast.File
	var diags []frontend.Diagnostic
	seen := make(map[string]bool)

	add := func(abs string, src []byte) {
		f, err := parser.ParseFile(fset, abs, src, parser.ParseComments)
		if err != nil {
			var list scanner.ErrorList
			if errors.As(err, &list) {
				for _, e := range list {
					diags = append(diags, diagnosticAt(e.Pos, e.Msg))
				}
			} else {
				diags = append(diags, frontend.Diagnostic{Message: err.Error(), Severity: frontend.SeverityError, Span: frontend.Span{File: abs}})
			}
		}
		if f != nil {
			files = append(files, f)
		}
	}

	for _, u := range units {
		seen[u.abs] = true
		add(u.abs, u.src)
	}

	dir := filepath.Dir(units[0].abs)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.go"))
	sort.Strings(matches)
	for _, m := range matches {
		abs := canonicalPath(m)
		if seen[abs] || strings.HasSuffix(abs, "_test.go") {
			continue
		}
		if ok, err := build.Default.MatchFile(dir, filepath.Base(m)); err != nil || !ok {
			continue
		}
		src, err := os.ReadFile(m)
		if err != nil {
			continue
		}
		clause, err := parser.ParseFile(token.NewFileSet(), abs, src, parser.PackageClauseOnly)
		if err != nil || clause.Name.Name != units[0].pkg {
			continue
		}
		add(abs, src)
	}
	return files, diags
}

const packagesMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

// checkPackages type-checks through go/packages, which resolves imports the
// way the go command does.
func (l *Loader) checkPackages(ctx context.Context, opts *config.Options, prog *program) ([]frontend.Diagnostic, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packagesMode,
		Dir:     opts.BasePath,
		Fset:    fset,
	}
	patterns := make([]string, 0, len(prog.roots))
	for _, name := range prog.roots {
		patterns = append(patterns, "file="+prog.units[name].abs)
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	var diags []frontend.Diagnostic
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			diags = append(diags, diagnosticAt(parsePosition(e.Pos), e.Msg))
		}
	})
	byAbs := make(map[string]*sourceUnit, len(prog.units))
	for _, unit := range prog.units {
		byAbs[unit.abs] = unit
	}
	for _, pkg := range pkgs {
		if pkg.TypesInfo == nil {
			continue
		}
		for _, f := range pkg.Syntax {
			abs := canonicalPath(pkg.Fset.Position(f.Pos()).Filename)
			prog.index.add(pkg.Fset, f, pkg.TypesInfo, abs)
			if unit, ok := byAbs[abs]; ok {
				unit.pkgPath = pkg.PkgPath
			}
		}
		l.log.Debugw("loaded package", "path", pkg.PkgPath, "files", len(pkg.Syntax))
	}
	return diags, nil
}

func diagnosticAt(pos token.Position, msg string) frontend.Diagnostic {
	return frontend.Diagnostic{
		Message:  msg,
		Severity: frontend.SeverityError,
		Span: frontend.Span{
			File:   canonicalPath(pos.Filename),
			Start:  pos.Offset,
			End:    pos.Offset,
			Line:   pos.Line,
			Column: pos.Column,
		},
	}
}

// parsePosition splits the "file:line:col" form go/packages reports.
func parsePosition(pos string) token.Position {
	var p token.Position
	parts := strings.Split(pos, ":")
	if len(parts) >= 3 {
		p.Column, _ = strconv.Atoi(parts[len(parts)-1])
		p.Line, _ = strconv.Atoi(parts[len(parts)-2])
		p.Filename = strings.Join(parts[:len(parts)-2], ":")
		return p
	}
	p.Filename = pos
	return p
}
