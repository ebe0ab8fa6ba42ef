package graph

import (
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/schemamodel/schema"
)

// Key is the canonical identity of a Node: the sorted registry ids of its
// member definitions. Two nodes share a key iff their member sets are equal.
type Key string

func keyOf(ids []int) Key {
	b := &strings.Builder{}
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return Key(b.String())
}

// Node is the union of one or more definitions. Its key never changes after
// registration; its children are filled in during the same build pass.
type Node struct {
	Properties           map[string]*Node
	PatternProperties    map[string]*Node
	Items                []*Node
	AdditionalProperties *Node

	key     Key
	ids     []int // sorted
	schemas []*schema.Schema
	members map[*schema.Schema]struct{}
}

// unionIDs returns the sorted ids of n's members plus id. A nil n yields {id}.
func unionIDs(n *Node, id int) []int {
	if n == nil {
		return []int{id}
	}
	pos := sort.SearchInts(n.ids, id)
	ids := make([]int, 0, len(n.ids)+1)
	ids = append(ids, n.ids[:pos]...)
	ids = append(ids, id)
	return append(ids, n.ids[pos:]...)
}

func newNode(s *schema.Schema, ids []int) *Node {
	return &Node{
		Properties:        make(map[string]*Node),
		PatternProperties: make(map[string]*Node),
		key:               keyOf(ids),
		ids:               ids,
		schemas:           []*schema.Schema{s},
		members:           map[*schema.Schema]struct{}{s: {}},
	}
}

// combine returns a new node holding n's members plus s (registry id id,
// union ids ids). Child entries are copied by reference; merging s's own
// children is left to the builder.
func (n *Node) combine(s *schema.Schema, id int, ids []int) *Node {
	pos := sort.SearchInts(n.ids, id)
	schemas := make([]*schema.Schema, 0, len(n.schemas)+1)
	schemas = append(schemas, n.schemas[:pos]...)
	schemas = append(schemas, s)
	schemas = append(schemas, n.schemas[pos:]...)

	members := make(map[*schema.Schema]struct{}, len(n.members)+1)
	for m := range n.members {
		members[m] = struct{}{}
	}
	members[s] = struct{}{}

	c := &Node{
		Properties:           make(map[string]*Node, len(n.Properties)),
		PatternProperties:    make(map[string]*Node, len(n.PatternProperties)),
		Items:                append([]*Node(nil), n.Items...),
		AdditionalProperties: n.AdditionalProperties,
		key:                  keyOf(ids),
		ids:                  ids,
		schemas:              schemas,
		members:              members,
	}
	for k, v := range n.Properties {
		c.Properties[k] = v
	}
	for k, v := range n.PatternProperties {
		c.PatternProperties[k] = v
	}
	return c
}

// Key returns the node's canonical identity.
func (n *Node) Key() Key { return n.key }

// Schemas returns the member definitions ordered by registry id.
func (n *Node) Schemas() []*schema.Schema { return append([]*schema.Schema(nil), n.schemas...) }

// Contains reports whether s is a member of the node.
func (n *Node) Contains(s *schema.Schema) bool {
	_, ok := n.members[s]
	return ok
}

// Len returns the number of member definitions.
func (n *Node) Len() int { return len(n.schemas) }

func (n *Node) String() string {
	names := make([]string, len(n.schemas))
	for i, s := range n.schemas {
		names[i] = s.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
