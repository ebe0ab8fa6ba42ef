package schema

import (
	"fmt"
	"strings"
)

// Type is a set of JSON value types. The zero value means unconstrained.
type Type uint8

const (
	TypeString Type = 1 << iota
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeObject
	TypeArray
	TypeNull

	TypeAny = TypeString | TypeNumber | TypeInteger | TypeBoolean | TypeObject | TypeArray | TypeNull
)

var typeNames = []struct {
	t    Type
	name string
}{
	{TypeString, "string"},
	{TypeNumber, "number"},
	{TypeInteger, "integer"},
	{TypeBoolean, "boolean"},
	{TypeObject, "object"},
	{TypeArray, "array"},
	{TypeNull, "null"},
}

// ParseType maps a single JSON Schema type name to its Type.
func ParseType(name string) (Type, error) {
	if name == "any" {
		return TypeAny, nil
	}
	for _, tn := range typeNames {
		if tn.name == name {
			return tn.t, nil
		}
	}
	return 0, fmt.Errorf("unknown type %q", name)
}

// Has reports whether every type in o is also in t.
func (t Type) Has(o Type) bool { return t&o == o }

// Names lists the member type names in declaration order.
func (t Type) Names() []string {
	var out []string
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			out = append(out, tn.name)
		}
	}
	return out
}

func (t Type) String() string {
	switch t {
	case 0:
		return "none"
	case TypeAny:
		return "any"
	}
	return strings.Join(t.Names(), "|")
}

// MarshalText renders the type set, e.g. "string|null".
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText reads the form produced by MarshalText.
func (t *Type) UnmarshalText(b []byte) error {
	s := string(b)
	switch s {
	case "none", "":
		*t = 0
		return nil
	}
	var out Type
	for _, name := range strings.Split(s, "|") {
		tt, err := ParseType(name)
		if err != nil {
			return err
		}
		out |= tt
	}
	*t = out
	return nil
}
