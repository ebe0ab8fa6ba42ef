package compile_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemamodel/internal/compile"
	"github.com/reoring/schemamodel/internal/graph"
	"github.com/reoring/schemamodel/model"
	"github.com/reoring/schemamodel/schema"
)

func buildNode(t *testing.T, s *schema.Schema) *graph.Node {
	t.Helper()
	n, err := graph.NewBuilder(graph.NewRegistry(), nil).AddSchema(nil, s)
	require.NoError(t, err)
	return n
}

func TestBuildNodeModel_SelfReference(t *testing.T) {
	s := &schema.Schema{ID: "s", Keywords: schema.Keywords{Type: schema.TypeObject}}
	s.Properties = map[string]*schema.Schema{"self": s}
	s.Items = []*schema.Schema{s}
	s.AdditionalProperties = s

	cache := compile.NewCache()
	m, err := compile.NewCompiler(cache, nil).BuildNodeModel(buildNode(t, s))
	require.NoError(t, err)
	assert.Same(t, m, m.Properties["self"])
	assert.Same(t, m, m.Items[0])
	assert.Same(t, m, m.AdditionalProperties)
	assert.Equal(t, schema.TypeObject, m.Keywords.Type)
	assert.Equal(t, 1, cache.Len())
}

func TestBuildNodeModel_SharedChildCompiledOnce(t *testing.T) {
	leaf := &schema.Schema{ID: "leaf", Keywords: schema.Keywords{Type: schema.TypeString}}
	root := &schema.Schema{
		ID:                "root",
		Properties:        map[string]*schema.Schema{"a": leaf, "b": leaf},
		PatternProperties: map[string]*schema.Schema{"^c": leaf},
	}
	calls := 0
	merge := func(ss []*schema.Schema) model.Keywords {
		calls++
		return model.Merge(ss)
	}
	cache := compile.NewCache()
	m, err := compile.NewCompiler(cache, merge).BuildNodeModel(buildNode(t, root))
	require.NoError(t, err)
	assert.Same(t, m.Properties["a"], m.Properties["b"])
	assert.Same(t, m.Properties["a"], m.PatternProperties["^c"])
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, cache.Len())
}

func TestBuildNodeModel_OmitsEmptyChildren(t *testing.T) {
	m, err := compile.NewCompiler(compile.NewCache(), nil).BuildNodeModel(buildNode(t, &schema.Schema{}))
	require.NoError(t, err)
	assert.Nil(t, m.Properties)
	assert.Nil(t, m.PatternProperties)
	assert.Nil(t, m.Items)
	assert.Nil(t, m.AdditionalProperties)
}

func TestBuildNodeModel_MergerSeesAllMembers(t *testing.T) {
	base := &schema.Schema{ID: "base", Keywords: schema.Keywords{Required: true}}
	top := &schema.Schema{ID: "top", Extends: base}
	var seen []*schema.Schema
	merge := func(ss []*schema.Schema) model.Keywords {
		seen = ss
		return model.Merge(ss)
	}
	m, err := compile.NewCompiler(compile.NewCache(), merge).BuildNodeModel(buildNode(t, top))
	require.NoError(t, err)
	assert.ElementsMatch(t, []*schema.Schema{top, base}, seen)
	assert.True(t, m.Keywords.Required)
}

func TestCache_PutTwiceIsInvariantViolation(t *testing.T) {
	n := buildNode(t, &schema.Schema{})
	cache := compile.NewCache()
	require.NoError(t, cache.Put(n, model.New(model.Keywords{})))
	err := cache.Put(n, model.New(model.Keywords{}))
	var ie *graph.InvariantError
	require.True(t, errors.As(err, &ie))
	assert.ErrorIs(t, err, graph.ErrDuplicateIdentity)

	cache.Reset()
	_, ok := cache.TryGet(n)
	assert.False(t, ok)
}

func TestBuildNodeModel_NilNode(t *testing.T) {
	_, err := compile.NewCompiler(compile.NewCache(), nil).BuildNodeModel(nil)
	var ie *graph.InvariantError
	assert.True(t, errors.As(err, &ie))
}
