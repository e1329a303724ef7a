package converter

import (
	"sort"

	"reflectdoc/internal/frontend"
	"reflectdoc/internal/models"
)

// typeRegistry holds the two type converter chains. Both are kept sorted by
// descending priority; equal priorities keep the order in which converter
// names were first registered.
type typeRegistry struct {
	nodeChain []NodeTypeConverter
	typeChain []TypeConverter
	seq       map[string]int
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{seq: make(map[string]int)}
}

func (r *typeRegistry) register(name string) {
	if _, ok := r.seq[name]; !ok {
		r.seq[name] = len(r.seq)
	}
}

func (r *typeRegistry) addNodeConverter(conv NodeTypeConverter) {
	r.register(conv.Name())
	r.nodeChain = append(r.nodeChain, conv)
	r.sort()
}

func (r *typeRegistry) addTypeConverter(conv TypeConverter) {
	r.register(conv.Name())
	r.typeChain = append(r.typeChain, conv)
	r.sort()
}

func (r *typeRegistry) remove(name string) {
	nodes := r.nodeChain[:0:0]
	for _, conv := range r.nodeChain {
		if conv.Name() != name {
			nodes = append(nodes, conv)
		}
	}
	types := r.typeChain[:0:0]
	for _, conv := range r.typeChain {
		if conv.Name() != name {
			types = append(types, conv)
		}
	}
	r.nodeChain, r.typeChain = nodes, types
	r.sort()
}

func (r *typeRegistry) sort() {
	sort.SliceStable(r.nodeChain, func(i, j int) bool {
		return r.before(r.nodeChain[i], r.nodeChain[j])
	})
	sort.SliceStable(r.typeChain, func(i, j int) bool {
		return r.before(r.typeChain[i], r.typeChain[j])
	})
}

type prioritized interface {
	Name() string
	Priority() int
}

func (r *typeRegistry) before(a, b prioritized) bool {
	if a.Priority() != b.Priority() {
		return a.Priority() > b.Priority()
	}
	return r.seq[a.Name()] < r.seq[b.Name()]
}

// convert returns nil when no converter of either chain claims the input.
func (r *typeRegistry) convert(c *Context, node frontend.Node, typ frontend.Type) models.Type {
	if node != nil && typ == nil {
		if resolved, ok := c.TypeAt(node); ok {
			typ = resolved
		}
	}

	if node != nil && typ != nil {
		for _, conv := range r.nodeChain {
			if conv.SupportsNode(c, node, typ) {
				return conv.ConvertNode(c, node, typ)
			}
		}
	}

	if typ != nil {
		for _, conv := range r.typeChain {
			if conv.SupportsType(c, typ) {
				return conv.ConvertType(c, typ)
			}
		}
	}
	return nil
}

// convertAll pairs nodes[i] with types[i] and keeps only the successful
// conversions, in input order.
func (r *typeRegistry) convertAll(c *Context, nodes []frontend.Node, types []frontend.Type) []models.Type {
	n := len(nodes)
	if len(types) > n {
		n = len(types)
	}
	out := make([]models.Type, 0, n)
	for i := 0; i < n; i++ {
		var node frontend.Node
		var typ frontend.Type
		if i < len(nodes) {
			node = nodes[i]
		}
		if i < len(types) {
			typ = types[i]
		}
		if converted := r.convert(c, node, typ); converted != nil {
			out = append(out, converted)
		}
	}
	return out
}

// names lists converter names in chain order. Used by diagnostics and tests.
func (r *typeRegistry) names() (nodeChain, typeChain []string) {
	for _, conv := range r.nodeChain {
		nodeChain = append(nodeChain, conv.Name())
	}
	for _, conv := range r.typeChain {
		typeChain = append(typeChain, conv.Name())
	}
	return nodeChain, typeChain
}
