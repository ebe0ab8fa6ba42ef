package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemamodel/schema"
)

func def(id string) *schema.Schema { return &schema.Schema{ID: id} }

func newTestBuilder() (*Builder, *Registry) {
	reg := NewRegistry()
	return NewBuilder(reg, nil), reg
}

func TestAddSchema_SingleDefinition(t *testing.T) {
	b, reg := newTestBuilder()
	s := def("s")
	n, err := b.AddSchema(nil, s)
	require.NoError(t, err)
	assert.Equal(t, []*schema.Schema{s}, n.Schemas())
	assert.True(t, n.Contains(s))
	assert.Equal(t, 1, reg.Len())
	got, err := reg.Get(n.Key())
	require.NoError(t, err)
	assert.Same(t, n, got)
}

func TestAddSchema_IdempotentReAdd(t *testing.T) {
	b, reg := newTestBuilder()
	s := def("s")
	s.Properties = map[string]*schema.Schema{"a": def("a")}
	n, err := b.AddSchema(nil, s)
	require.NoError(t, err)
	before := reg.Len()
	child := n.Properties["a"]

	again, err := b.AddSchema(n, s)
	require.NoError(t, err)
	assert.Same(t, n, again)
	assert.Equal(t, before, reg.Len())
	assert.Same(t, child, n.Properties["a"])
}

func TestAddSchema_DedupAcrossPaths(t *testing.T) {
	b, reg := newTestBuilder()
	x, y := def("x"), def("y")

	nx, err := b.AddSchema(nil, x)
	require.NoError(t, err)
	xy, err := b.AddSchema(nx, y)
	require.NoError(t, err)

	ny, err := b.AddSchema(nil, y)
	require.NoError(t, err)
	yx, err := b.AddSchema(ny, x)
	require.NoError(t, err)

	assert.Same(t, xy, yx)
	assert.Equal(t, 3, reg.Len())
}

func TestAddSchema_SharedPropertyDefinitionConverges(t *testing.T) {
	b, reg := newTestBuilder()
	shared := def("shared")
	root := def("root")
	root.Properties = map[string]*schema.Schema{"a": shared, "b": shared}
	n, err := b.AddSchema(nil, root)
	require.NoError(t, err)
	assert.Same(t, n.Properties["a"], n.Properties["b"])
	assert.Equal(t, 2, reg.Len())
}

func TestAddSchema_MutualExtendsTerminates(t *testing.T) {
	b, reg := newTestBuilder()
	a, bb := def("a"), def("b")
	a.Extends = bb
	bb.Extends = a

	n, err := b.AddSchema(nil, a)
	require.NoError(t, err)
	assert.True(t, n.Contains(a))
	assert.True(t, n.Contains(bb))
	assert.Equal(t, 2, n.Len())
	assert.Equal(t, 2, reg.Len())
}

func TestAddSchema_SelfExtends(t *testing.T) {
	b, _ := newTestBuilder()
	a := def("a")
	a.Extends = a
	n, err := b.AddSchema(nil, a)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Len())
}

func TestAddSchema_SelfReferentialProperty(t *testing.T) {
	b, reg := newTestBuilder()
	s := def("s")
	s.Properties = map[string]*schema.Schema{"self": s}
	n, err := b.AddSchema(nil, s)
	require.NoError(t, err)
	assert.Same(t, n, n.Properties["self"])
	assert.Equal(t, 1, reg.Len())
}

func TestAddSchema_ExtendsMergesPropertiesIntoOneChild(t *testing.T) {
	b, _ := newTestBuilder()
	s1, s2 := def("s1"), def("s2")
	p2 := def("p2")
	p2.Properties = map[string]*schema.Schema{"x": s2}
	p1 := def("p1")
	p1.Properties = map[string]*schema.Schema{"x": s1}
	p1.Extends = p2

	n, err := b.AddSchema(nil, p1)
	require.NoError(t, err)
	assert.True(t, n.Contains(p1))
	assert.True(t, n.Contains(p2))
	require.Len(t, n.Properties, 1)
	x := n.Properties["x"]
	assert.Equal(t, 2, x.Len())
	assert.True(t, x.Contains(s1))
	assert.True(t, x.Contains(s2))
}

func TestAddSchema_ItemsExtendShorterSequence(t *testing.T) {
	b, _ := newTestBuilder()
	a0, a1 := def("a0"), def("a1")
	b0, b1, b2 := def("b0"), def("b1"), def("b2")
	i1 := &schema.Schema{ID: "i1", Items: []*schema.Schema{a0, a1}, PositionalItems: true}
	i2 := &schema.Schema{ID: "i2", Items: []*schema.Schema{b0, b1, b2}, PositionalItems: true}
	i1.Extends = i2

	n, err := b.AddSchema(nil, i1)
	require.NoError(t, err)
	require.Len(t, n.Items, 3)
	assert.ElementsMatch(t, []*schema.Schema{a0, b0}, n.Items[0].Schemas())
	assert.ElementsMatch(t, []*schema.Schema{a1, b1}, n.Items[1].Schemas())
	assert.Equal(t, []*schema.Schema{b2}, n.Items[2].Schemas())
}

func TestAddSchema_AdditionalAndPatternProperties(t *testing.T) {
	b, _ := newTestBuilder()
	apA, apB := def("apA"), def("apB")
	pA, pB := def("pA"), def("pB")
	base := &schema.Schema{ID: "base", AdditionalProperties: apB, PatternProperties: map[string]*schema.Schema{"^x": pB}}
	top := &schema.Schema{ID: "top", AdditionalProperties: apA, PatternProperties: map[string]*schema.Schema{"^x": pA, "^y": pA}, Extends: base}

	n, err := b.AddSchema(nil, top)
	require.NoError(t, err)
	require.NotNil(t, n.AdditionalProperties)
	assert.ElementsMatch(t, []*schema.Schema{apA, apB}, n.AdditionalProperties.Schemas())
	assert.ElementsMatch(t, []*schema.Schema{pA, pB}, n.PatternProperties["^x"].Schemas())
	assert.Equal(t, []*schema.Schema{pA}, n.PatternProperties["^y"].Schemas())
}

func TestAddSchema_CombineLeavesSourceNodeUntouched(t *testing.T) {
	b, _ := newTestBuilder()
	s1, s2 := def("s1"), def("s2")
	p1 := &schema.Schema{ID: "p1", Properties: map[string]*schema.Schema{"x": s1}}
	p2 := &schema.Schema{ID: "p2", Properties: map[string]*schema.Schema{"x": s2, "y": s2}}

	n1, err := b.AddSchema(nil, p1)
	require.NoError(t, err)
	n12, err := b.AddSchema(n1, p2)
	require.NoError(t, err)

	assert.NotSame(t, n1, n12)
	assert.Len(t, n1.Properties, 1)
	assert.Equal(t, []*schema.Schema{s1}, n1.Properties["x"].Schemas())
	assert.Len(t, n12.Properties, 2)
	assert.Equal(t, 2, n12.Properties["x"].Len())
}

func TestAddSchema_NilReferencesAreInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		s    *schema.Schema
		path string
	}{
		{"root", nil, "/"},
		{"property", &schema.Schema{Properties: map[string]*schema.Schema{"a": nil}}, "/properties/a"},
		{"pattern property", &schema.Schema{PatternProperties: map[string]*schema.Schema{"^a/b": nil}}, "/patternProperties/^a~1b"},
		{"item", &schema.Schema{Items: []*schema.Schema{def("ok"), nil}}, "/items/1"},
		{"nested via extends", &schema.Schema{Extends: &schema.Schema{Items: []*schema.Schema{nil}}}, "/extends/items/0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := newTestBuilder()
			_, err := b.AddSchema(nil, tc.s)
			var ie *InputError
			require.True(t, errors.As(err, &ie), "got %v", err)
			assert.Equal(t, tc.path, ie.Path)
		})
	}
}

func TestRegistry_Invariants(t *testing.T) {
	reg := NewRegistry()
	s := def("s")
	n := newNode(s, []int{reg.ID(s)})
	require.NoError(t, reg.Register(n))

	err := reg.Register(newNode(s, []int{reg.ID(s)}))
	var ie *InvariantError
	require.True(t, errors.As(err, &ie))
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	assert.Equal(t, "register", ie.Op)

	_, err = reg.Get("99")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []*Node{n}, reg.Nodes())
	reg.Reset()
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Contains(n.Key()))
	assert.Equal(t, 0, reg.ID(def("fresh")))
}

func TestKey_OrderIndependent(t *testing.T) {
	reg := NewRegistry()
	a, b, c := def("a"), def("b"), def("c")
	ia, ib, ic := reg.ID(a), reg.ID(b), reg.ID(c)

	abc := newNode(a, []int{ia}).combine(b, ib, unionIDs(newNode(a, []int{ia}), ib))
	abc = abc.combine(c, ic, unionIDs(abc, ic))
	cb := newNode(c, []int{ic})
	cba := cb.combine(b, ib, unionIDs(cb, ib))
	cba = cba.combine(a, ia, unionIDs(cba, ia))

	assert.Equal(t, abc.Key(), cba.Key())
	assert.Equal(t, Key("0,1,2"), abc.Key())
	assert.Equal(t, abc.Schemas(), cba.Schemas())
	assert.Equal(t, "{a,b,c}", cba.String())
}
