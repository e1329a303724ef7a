// Package entrypoints expands command line paths into the Go files a
// conversion run starts from.
package entrypoints

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Expander turns files and directories into entry point files.
type Expander struct {
	ignored      []string
	includeTests bool
}

type Option func(*Expander)

// WithTests includes _test.go files.
func WithTests() Option {
	return func(e *Expander) { e.includeTests = true }
}

// WithIgnored replaces the directory names that are never descended into.
func WithIgnored(names ...string) Option {
	return func(e *Expander) { e.ignored = names }
}

func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		ignored: []string{".git", "vendor", "node_modules", "testdata"},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Expand returns the entry points for paths in argument order. Files are kept
// as given, even when they do not exist, so the converter can report them;
// directories are walked and their Go files added in lexical order.
func (e *Expander) Expand(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.ToSlash(filepath.Clean(p))
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			add(p)
			continue
		}
		files, err := e.walk(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s", p)
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

func (e *Expander) walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && e.isIgnored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if e.isSource(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func (e *Expander) isIgnored(name string) bool {
	for _, ign := range e.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

func (e *Expander) isSource(name string) bool {
	if !strings.HasSuffix(name, ".go") {
		return false
	}
	return e.includeTests || !strings.HasSuffix(name, "_test.go")
}
