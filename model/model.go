// Package model defines the compiled validation model handed to validators.
//
// A compiled graph may be cyclic: a schema whose property refers back to the
// schema itself compiles to a Model whose Properties entry is the Model
// itself. Consumers walking the graph must track visited models.
package model

// Model is the merged constraint set for one combination of schema
// definitions, with child models for nested values.
type Model struct {
	Keywords Keywords

	// Properties and PatternProperties are nil unless the combination
	// declared at least one entry.
	Properties        map[string]*Model
	PatternProperties map[string]*Model

	// Items is nil unless the combination declared items.
	Items []*Model

	AdditionalProperties *Model
}

// New returns a model with the given keywords and no children.
func New(kw Keywords) *Model { return &Model{Keywords: kw} }

// SetProperty stores child under name, allocating the map on first use.
func (m *Model) SetProperty(name string, child *Model) {
	if m.Properties == nil {
		m.Properties = make(map[string]*Model)
	}
	m.Properties[name] = child
}

// SetPatternProperty stores child under pattern, allocating the map on first use.
func (m *Model) SetPatternProperty(pattern string, child *Model) {
	if m.PatternProperties == nil {
		m.PatternProperties = make(map[string]*Model)
	}
	m.PatternProperties[pattern] = child
}

// AppendItem adds the next positional item model.
func (m *Model) AppendItem(child *Model) { m.Items = append(m.Items, child) }

// Count returns the number of distinct models reachable from m, m included.
func (m *Model) Count() int {
	seen := make(map[*Model]struct{})
	var walk func(*Model)
	walk = func(x *Model) {
		if x == nil {
			return
		}
		if _, ok := seen[x]; ok {
			return
		}
		seen[x] = struct{}{}
		for _, c := range x.Properties {
			walk(c)
		}
		for _, c := range x.PatternProperties {
			walk(c)
		}
		for _, c := range x.Items {
			walk(c)
		}
		walk(x.AdditionalProperties)
	}
	walk(m)
	return len(seen)
}
