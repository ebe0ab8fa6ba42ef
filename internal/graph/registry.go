package graph

import (
	"github.com/reoring/schemamodel/schema"
)

// Registry owns the nodes of one build, at most one per member set. It also
// hands out the per-build ids that node keys are made of.
type Registry struct {
	ids   map[*schema.Schema]int
	nodes map[Key]*Node
	order []*Node
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset drops every node and id.
func (r *Registry) Reset() {
	r.ids = make(map[*schema.Schema]int)
	r.nodes = make(map[Key]*Node)
	r.order = nil
}

// ID returns the id of s, assigning the next one on first sight.
func (r *Registry) ID(s *schema.Schema) int {
	if id, ok := r.ids[s]; ok {
		return id
	}
	id := len(r.ids)
	r.ids[s] = id
	return id
}

func (r *Registry) Contains(k Key) bool {
	_, ok := r.nodes[k]
	return ok
}

func (r *Registry) Get(k Key) (*Node, error) {
	n, ok := r.nodes[k]
	if !ok {
		return nil, &InvariantError{Op: "get", Key: k, Err: ErrNotFound}
	}
	return n, nil
}

// Register stores n under its key.
func (r *Registry) Register(n *Node) error {
	if _, ok := r.nodes[n.key]; ok {
		return &InvariantError{Op: "register", Key: n.key, Err: ErrDuplicateIdentity}
	}
	r.nodes[n.key] = n
	r.order = append(r.order, n)
	return nil
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int { return len(r.nodes) }

// Nodes returns the registered nodes in creation order.
func (r *Registry) Nodes() []*Node { return append([]*Node(nil), r.order...) }
