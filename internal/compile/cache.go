package compile

import (
	"github.com/reoring/schemamodel/internal/graph"
	"github.com/reoring/schemamodel/model"
)

// Cache maps node identities to their compiled models for one build.
type Cache struct {
	models map[graph.Key]*model.Model
}

func NewCache() *Cache { return &Cache{models: make(map[graph.Key]*model.Model)} }

// Reset drops every cached model.
func (c *Cache) Reset() { c.models = make(map[graph.Key]*model.Model) }

func (c *Cache) TryGet(n *graph.Node) (*model.Model, bool) {
	m, ok := c.models[n.Key()]
	return m, ok
}

// Put stores m for n. m may still lack its children; it only has to be the
// final object that later lookups return.
func (c *Cache) Put(n *graph.Node, m *model.Model) error {
	if _, ok := c.models[n.Key()]; ok {
		return &graph.InvariantError{Op: "cache put", Key: n.Key(), Err: graph.ErrDuplicateIdentity}
	}
	c.models[n.Key()] = m
	return nil
}

func (c *Cache) Len() int { return len(c.models) }
