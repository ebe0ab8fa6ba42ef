package graph

import (
	"log/slog"
	"sort"

	"github.com/reoring/schemamodel/internal/jsonptr"
	"github.com/reoring/schemamodel/schema"
)

// Builder folds definitions into combination nodes held by a Registry.
type Builder struct {
	reg *Registry
	log *slog.Logger
}

// NewBuilder returns a builder registering into reg. A nil logger discards.
func NewBuilder(reg *Registry, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Builder{reg: reg, log: log}
}

// AddSchema combines s into existing (nil starts a new combination) and
// returns the resulting node. Combinations already registered are returned
// as is, which is what stops cyclic definitions from recursing forever.
func (b *Builder) AddSchema(existing *Node, s *schema.Schema) (*Node, error) {
	return b.add(existing, s, jsonptr.Root())
}

func (b *Builder) add(existing *Node, s *schema.Schema, at jsonptr.Pointer) (*Node, error) {
	if s == nil {
		return nil, &InputError{Path: at.String(), Reason: "missing schema definition"}
	}
	if existing != nil && existing.Contains(s) {
		return existing, nil
	}

	id := b.reg.ID(s)
	ids := unionIDs(existing, id)
	if key := keyOf(ids); b.reg.Contains(key) {
		b.log.Debug("schemamodel: node reused", "key", string(key), "path", at.String())
		return b.reg.Get(key)
	}
	var n *Node
	if existing != nil {
		n = existing.combine(s, id, ids)
	} else {
		n = newNode(s, ids)
	}
	if err := b.reg.Register(n); err != nil {
		return nil, err
	}
	b.log.Debug("schemamodel: node registered", "key", string(n.key), "schemas", n.String(), "path", at.String())

	if err := b.addChildren(n.Properties, s.Properties, at.Field("properties")); err != nil {
		return nil, err
	}
	if err := b.addChildren(n.PatternProperties, s.PatternProperties, at.Field("patternProperties")); err != nil {
		return nil, err
	}
	for i, item := range s.Items {
		if err := b.addItem(n, i, item, at.Field("items").Index(i)); err != nil {
			return nil, err
		}
	}
	if s.AdditionalProperties != nil {
		ap, err := b.add(n.AdditionalProperties, s.AdditionalProperties, at.Field("additionalProperties"))
		if err != nil {
			return nil, err
		}
		n.AdditionalProperties = ap
	}
	if s.Extends != nil {
		return b.add(n, s.Extends, at.Field("extends"))
	}
	return n, nil
}

func (b *Builder) addChildren(target map[string]*Node, source map[string]*schema.Schema, at jsonptr.Pointer) error {
	keys := make([]string, 0, len(source))
	for k := range source {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		child, err := b.add(target[k], source[k], at.Field(k))
		if err != nil {
			return err
		}
		target[k] = child
	}
	return nil
}

// addItem merges s into slot i, appending when i is past the current end.
func (b *Builder) addItem(n *Node, i int, s *schema.Schema, at jsonptr.Pointer) error {
	var existing *Node
	if i < len(n.Items) {
		existing = n.Items[i]
	}
	item, err := b.add(existing, s, at)
	if err != nil {
		return err
	}
	if i < len(n.Items) {
		n.Items[i] = item
	} else {
		n.Items = append(n.Items, item)
	}
	return nil
}
