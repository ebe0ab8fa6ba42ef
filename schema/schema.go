// Package schema holds schema definitions as the compiler consumes them and a
// loader that reads draft-3 style JSON/YAML schema documents into that form.
//
// Definitions are compared by pointer identity. A document location that is
// referenced from several places (through $ref or extends) yields a single
// *Schema, so recursive documents become cyclic pointer graphs.
package schema

// Schema is one schema definition.
type Schema struct {
	// ID is the optional "id" of the definition. It only serves diagnostics
	// and id based $ref lookup.
	ID string

	Properties        map[string]*Schema
	PatternProperties map[string]*Schema

	// Items holds positional item schemas. A single (non-array) items schema
	// is stored as a one-element slice with PositionalItems false.
	Items           []*Schema
	PositionalItems bool

	// AdditionalProperties is the schema applied to unnamed properties.
	AdditionalProperties *Schema
	// AllowAdditionalProperties is nil when the document is silent (allowed).
	AllowAdditionalProperties *bool

	// Extends is the base definition folded into this one.
	Extends *Schema

	Keywords Keywords
}

// Keywords are the per-definition validation keywords. The compiler never
// evaluates them; it only hands them to a merge policy.
type Keywords struct {
	Type     Type
	Disallow Type
	Required bool

	Pattern string
	Format  string

	MinLength *int
	MaxLength *int

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	DivisibleBy      *float64

	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	Enum []any
}

// AdditionalAllowed reports whether unnamed properties are permitted.
func (s *Schema) AdditionalAllowed() bool {
	return s.AllowAdditionalProperties == nil || *s.AllowAdditionalProperties
}

func (s *Schema) String() string {
	if s == nil {
		return "<nil>"
	}
	if s.ID != "" {
		return s.ID
	}
	return "<anonymous>"
}
