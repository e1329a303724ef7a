package models

import (
	"fmt"
	"sort"
	"strings"
)

// Project is the root of a conversion result and the index of every reflection
// created during one run.
type Project struct {
	Root *Reflection

	reflections map[int]*Reflection
	// nameIndex: Name -> IDs in creation order
	nameIndex map[string][]int
	nextID    int
	dangling  map[string]bool
}

// NewProject creates an empty project. The root reflection always has ID 0.
func NewProject(name string) *Project {
	root := &Reflection{ID: 0, Name: name, Kind: KindProject}
	return &Project{
		Root:        root,
		reflections: map[int]*Reflection{0: root},
		nameIndex:   make(map[string][]int),
		nextID:      1,
		dangling:    make(map[string]bool),
	}
}

// Register assigns the next identifier to r and indexes it. It does not attach
// r to a parent.
func (p *Project) Register(r *Reflection) {
	r.ID = p.nextID
	p.nextID++
	p.reflections[r.ID] = r
	if r.Name != "" {
		p.nameIndex[r.Name] = append(p.nameIndex[r.Name], r.ID)
	}
}

// Get returns the reflection with the given ID.
func (p *Project) Get(id int) (*Reflection, bool) {
	r, ok := p.reflections[id]
	return r, ok
}

// Len is the number of indexed reflections, root included.
func (p *Project) Len() int {
	return len(p.reflections)
}

// Ordered returns every indexed reflection in ascending ID order, which is the
// order of discovery.
func (p *Project) Ordered() []*Reflection {
	ids := make([]int, 0, len(p.reflections))
	for id := range p.reflections {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*Reflection, len(ids))
	for i, id := range ids {
		out[i] = p.reflections[id]
	}
	return out
}

// FindByName returns the first reflection (by ID) with the given name and, when
// kinds are given, one of those kinds.
func (p *Project) FindByName(name string, kinds ...ReflectionKind) *Reflection {
	for _, id := range p.nameIndex[name] {
		r, ok := p.reflections[id]
		if !ok {
			continue
		}
		if len(kinds) == 0 {
			return r
		}
		for _, k := range kinds {
			if r.Kind == k {
				return r
			}
		}
	}
	return nil
}

// RemoveReflection detaches r from its parent and drops r and everything it owns
// from the index. Identifiers of removed reflections are never reassigned.
func (p *Project) RemoveReflection(r *Reflection) {
	if r == nil || r == p.Root {
		return
	}
	if parent := r.Parent; parent != nil {
		if parent.Receiver == r {
			parent.Receiver = nil
		}
		for i, c := range parent.Children {
			if c == r {
				parent.Children = append(parent.Children[:i:i], parent.Children[i+1:]...)
				break
			}
		}
		r.Parent = nil
	}

	p.unindex(r)
	r.Traverse(func(child *Reflection) bool {
		p.unindex(child)
		return true
	})
}

func (p *Project) unindex(r *Reflection) {
	delete(p.reflections, r.ID)
	ids := p.nameIndex[r.Name]
	for i, id := range ids {
		if id == r.ID {
			p.nameIndex[r.Name] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

// AddDanglingReference records a symbolic reference that could not be linked to
// any reflection.
func (p *Project) AddDanglingReference(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.dangling[name] = true
}

// DanglingReferences returns the recorded dangling names, sorted.
func (p *Project) DanglingReferences() []string {
	out := make([]string, 0, len(p.dangling))
	for name := range p.dangling {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DanglingWarning renders the dangling references as a warning message, or ""
// when there are none.
func (p *Project) DanglingWarning() string {
	names := p.DanglingReferences()
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("failed to resolve %d reference(s): %s", len(names), strings.Join(names, ", "))
}

// KindCounts counts indexed reflections per kind.
func (p *Project) KindCounts() map[ReflectionKind]int {
	counts := make(map[ReflectionKind]int)
	for _, r := range p.reflections {
		counts[r.Kind]++
	}
	return counts
}
