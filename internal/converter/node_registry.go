package converter

import (
	"sort"

	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

// nodeRegistry maps a syntax kind to its converter. Each kind keeps a stack
// ordered by when a converter name was first registered, so removing a
// component uncovers the converter registered before it and adding it back
// restores the previous dispatch.
type nodeRegistry struct {
	byKind map[string][]NodeConverter
	// seq: converter name -> position of its first registration
	seq map[string]int
}

func newNodeRegistry() *nodeRegistry {
	return &nodeRegistry{
		byKind: make(map[string][]NodeConverter),
		seq:    make(map[string]int),
	}
}

func (r *nodeRegistry) add(conv NodeConverter) {
	name := conv.Name()
	if _, ok := r.seq[name]; !ok {
		r.seq[name] = len(r.seq)
	}
	for _, kind := range conv.Kinds() {
		list := r.byKind[kind]
		at := sort.Search(len(list), func(i int) bool {
			return r.seq[list[i].Name()] > r.seq[name]
		})
		list = append(list, nil)
		copy(list[at+1:], list[at:])
		list[at] = conv
		r.byKind[kind] = list
	}
}

func (r *nodeRegistry) remove(name string) {
	for kind, list := range r.byKind {
		kept := list[:0:0]
		for _, conv := range list {
			if conv.Name() != name {
				kept = append(kept, conv)
			}
		}
		if len(kept) == 0 {
			delete(r.byKind, kind)
		} else {
			r.byKind[kind] = kept
		}
	}
}

func (r *nodeRegistry) lookup(kind string) (NodeConverter, bool) {
	list := r.byKind[kind]
	if len(list) == 0 {
		return nil, false
	}
	return list[len(list)-1], true
}

// convert dispatches node to its converter. A node that is already being
// visited by an ancestor call yields no reflection.
func (r *nodeRegistry) convert(c *Context, node frontend.Node) *models.Reflection {
	if node == nil {
		return nil
	}
	key := frontend.KeyOf(node)
	for _, k := range c.visitStack {
		if k == key {
			return nil
		}
	}

	saved := c.visitStack
	stack := make([]frontend.NodeKey, len(saved), len(saved)+1)
	copy(stack, saved)
	c.visitStack = append(stack, key)
	defer func() { c.visitStack = saved }()

	conv, ok := r.lookup(node.Kind())
	if !ok {
		return nil
	}
	return conv.Convert(c, node)
}
