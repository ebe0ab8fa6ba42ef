package model

import (
	"sort"
	"strconv"
)

// Snapshot is an acyclic rendering of a compiled graph. Each distinct model
// gets an id ("m0" for the root, then depth first in sorted key order) and
// children are referenced by id, so two isomorphic graphs produce equal
// snapshots.
type Snapshot struct {
	Root   string           `json:"root"`
	Models map[string]Entry `json:"models"`
}

// Entry is one model of a Snapshot.
type Entry struct {
	Keywords             Keywords          `json:"keywords"`
	Properties           map[string]string `json:"properties,omitempty"`
	PatternProperties    map[string]string `json:"patternProperties,omitempty"`
	Items                []string          `json:"items,omitempty"`
	AdditionalProperties string            `json:"additionalProperties,omitempty"`
}

// NewSnapshot renders the graph reachable from root.
func NewSnapshot(root *Model) Snapshot {
	snap := Snapshot{Models: make(map[string]Entry)}
	if root == nil {
		return snap
	}
	ids := make(map[*Model]string)
	var visit func(*Model) string
	visit = func(m *Model) string {
		if id, ok := ids[m]; ok {
			return id
		}
		id := "m" + strconv.Itoa(len(ids))
		ids[m] = id

		var e Entry
		e.Keywords = m.Keywords
		if len(m.Properties) > 0 {
			e.Properties = make(map[string]string, len(m.Properties))
			for _, k := range sortedKeys(m.Properties) {
				e.Properties[k] = visit(m.Properties[k])
			}
		}
		if len(m.PatternProperties) > 0 {
			e.PatternProperties = make(map[string]string, len(m.PatternProperties))
			for _, k := range sortedKeys(m.PatternProperties) {
				e.PatternProperties[k] = visit(m.PatternProperties[k])
			}
		}
		for _, it := range m.Items {
			e.Items = append(e.Items, visit(it))
		}
		if m.AdditionalProperties != nil {
			e.AdditionalProperties = visit(m.AdditionalProperties)
		}
		snap.Models[id] = e
		return id
	}
	snap.Root = visit(root)
	return snap
}

func sortedKeys(m map[string]*Model) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
