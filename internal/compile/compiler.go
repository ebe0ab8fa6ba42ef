package compile

import (
	"errors"
	"sort"

	"github.com/reoring/schemamodel/internal/graph"
	"github.com/reoring/schemamodel/model"
)

var errNilNode = errors.New("nil node")

// Compiler turns a node graph into a model graph, one model per node.
type Compiler struct {
	cache *Cache
	merge model.MergeFunc
}

// NewCompiler returns a compiler memoizing into cache. A nil merge uses
// model.Merge.
func NewCompiler(cache *Cache, merge model.MergeFunc) *Compiler {
	if merge == nil {
		merge = model.Merge
	}
	return &Compiler{cache: cache, merge: merge}
}

// BuildNodeModel returns the model for n, compiling it and everything it
// reaches on first request. The model is cached before its children are
// compiled, so a child that reaches n again gets this same model back.
func (c *Compiler) BuildNodeModel(n *graph.Node) (*model.Model, error) {
	if n == nil {
		return nil, &graph.InvariantError{Op: "compile", Err: errNilNode}
	}
	if m, ok := c.cache.TryGet(n); ok {
		return m, nil
	}

	m := model.New(c.merge(n.Schemas()))
	if err := c.cache.Put(n, m); err != nil {
		return nil, err
	}

	for _, k := range sortedKeys(n.Properties) {
		child, err := c.BuildNodeModel(n.Properties[k])
		if err != nil {
			return nil, err
		}
		m.SetProperty(k, child)
	}
	for _, k := range sortedKeys(n.PatternProperties) {
		child, err := c.BuildNodeModel(n.PatternProperties[k])
		if err != nil {
			return nil, err
		}
		m.SetPatternProperty(k, child)
	}
	for _, it := range n.Items {
		child, err := c.BuildNodeModel(it)
		if err != nil {
			return nil, err
		}
		m.AppendItem(child)
	}
	if n.AdditionalProperties != nil {
		child, err := c.BuildNodeModel(n.AdditionalProperties)
		if err != nil {
			return nil, err
		}
		m.AdditionalProperties = child
	}
	return m, nil
}

func sortedKeys(m map[string]*graph.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
