package schema

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/schemamodel/internal/jsonptr"
)

// Parse decodes a JSON schema document and resolves it into a definition graph.
func Parse(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &SyntaxError{Format: "json", Cause: err}
	}
	return FromValue(doc)
}

// FromValue resolves an already decoded document (map[string]any/[]any tree)
// into a definition graph rooted at the document root.
func FromValue(doc any) (*Schema, error) {
	r := &resolver{
		root:      doc,
		built:     make(map[string]*Schema),
		ids:       make(map[string]jsonptr.Pointer),
		following: make(map[string]bool),
	}
	r.indexIDs(doc, jsonptr.Root())
	return r.at(jsonptr.Root())
}

type resolver struct {
	root any
	// built maps a canonical pointer to the definition made for it. Entries
	// are added before the definition is populated so that references back
	// into an enclosing location resolve to the same *Schema.
	built map[string]*Schema
	ids   map[string]jsonptr.Pointer
	// following holds $ref locations currently being chased.
	following map[string]bool
}

// subschema keywords that may hold nested definitions carrying an "id"
var nestedKeys = []string{"properties", "patternProperties", "items", "additionalProperties", "extends", "definitions", "$defs"}

func (r *resolver) indexIDs(v any, at jsonptr.Pointer) {
	switch t := v.(type) {
	case map[string]any:
		if id, ok := t["id"].(string); ok && id != "" {
			if _, seen := r.ids[id]; !seen {
				r.ids[id] = at
			}
		}
		for _, k := range nestedKeys {
			child, ok := t[k]
			if !ok {
				continue
			}
			switch c := child.(type) {
			case map[string]any:
				if k == "properties" || k == "patternProperties" || k == "definitions" || k == "$defs" {
					for _, name := range sortedKeys(c) {
						r.indexIDs(c[name], at.Field(k).Field(name))
					}
					continue
				}
				r.indexIDs(c, at.Field(k))
			case []any:
				for i := range c {
					r.indexIDs(c[i], at.Field(k).Index(i))
				}
			}
		}
	}
}

func (r *resolver) at(p jsonptr.Pointer) (*Schema, error) {
	if s, ok := r.built[p.Key()]; ok {
		return s, nil
	}
	v, err := jsonptr.Lookup(r.root, p)
	if err != nil {
		return nil, &Error{Path: p.String(), Reason: "unresolvable location", Cause: err}
	}
	return r.build(v, p)
}

func (r *resolver) build(v any, p jsonptr.Pointer) (*Schema, error) {
	key := p.Key()
	if s, ok := r.built[key]; ok {
		return s, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errorf(p, "schema must be an object, got %s", describe(v))
	}
	if raw, ok := m["$ref"]; ok {
		ref, ok := raw.(string)
		if !ok {
			return nil, errorf(p.Field("$ref"), "$ref must be a string")
		}
		if r.following[key] {
			return nil, errorf(p, "circular $ref %q", ref)
		}
		target, err := r.resolveRef(ref, p)
		if err != nil {
			return nil, err
		}
		r.following[key] = true
		s, err := r.at(target)
		delete(r.following, key)
		if err != nil {
			return nil, err
		}
		r.built[key] = s
		return s, nil
	}

	s := &Schema{}
	r.built[key] = s
	if err := r.populate(s, m, p); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *resolver) resolveRef(ref string, from jsonptr.Pointer) (jsonptr.Pointer, error) {
	if strings.HasPrefix(ref, "#") {
		target, err := jsonptr.Parse(ref[1:])
		if err != nil {
			return jsonptr.Pointer{}, &Error{Path: from.Field("$ref").String(), Reason: fmt.Sprintf("malformed $ref %q", ref), Cause: err}
		}
		if _, err := jsonptr.Lookup(r.root, target); err != nil {
			return jsonptr.Pointer{}, &Error{Path: from.Field("$ref").String(), Reason: fmt.Sprintf("dangling $ref %q", ref), Cause: err}
		}
		return target, nil
	}
	if target, ok := r.ids[strings.TrimSuffix(ref, "#")]; ok {
		return target, nil
	}
	return jsonptr.Pointer{}, errorf(from.Field("$ref"), "unresolved $ref %q", ref)
}

func (r *resolver) populate(s *Schema, m map[string]any, p jsonptr.Pointer) error {
	if raw, ok := m["id"]; ok {
		id, ok := raw.(string)
		if !ok {
			return errorf(p.Field("id"), "id must be a string")
		}
		s.ID = id
	}

	var err error
	if s.Properties, err = r.schemaMap(m, "properties", p, false); err != nil {
		return err
	}
	if s.PatternProperties, err = r.schemaMap(m, "patternProperties", p, true); err != nil {
		return err
	}

	if raw, ok := m["items"]; ok {
		switch t := raw.(type) {
		case map[string]any:
			item, err := r.build(t, p.Field("items"))
			if err != nil {
				return err
			}
			s.Items = []*Schema{item}
		case []any:
			s.PositionalItems = true
			s.Items = make([]*Schema, 0, len(t))
			for i, v := range t {
				item, err := r.build(v, p.Field("items").Index(i))
				if err != nil {
					return err
				}
				s.Items = append(s.Items, item)
			}
		default:
			return errorf(p.Field("items"), "items must be a schema or an array of schemas, got %s", describe(raw))
		}
	}

	if raw, ok := m["additionalProperties"]; ok {
		switch t := raw.(type) {
		case bool:
			allow := t
			s.AllowAdditionalProperties = &allow
		case map[string]any:
			ap, err := r.build(t, p.Field("additionalProperties"))
			if err != nil {
				return err
			}
			s.AdditionalProperties = ap
		default:
			return errorf(p.Field("additionalProperties"), "additionalProperties must be a boolean or a schema, got %s", describe(raw))
		}
	}

	if raw, ok := m["extends"]; ok {
		at := p.Field("extends")
		if arr, ok := raw.([]any); ok {
			switch len(arr) {
			case 0:
				raw = nil
			case 1:
				raw, at = arr[0], at.Index(0)
			default:
				return errorf(at, "extends lists %d bases, only one is supported", len(arr))
			}
		}
		if raw != nil {
			base, err := r.build(raw, at)
			if err != nil {
				return err
			}
			s.Extends = base
		}
	}

	return readKeywords(&s.Keywords, m, p)
}

func (r *resolver) schemaMap(m map[string]any, name string, p jsonptr.Pointer, patterns bool) (map[string]*Schema, error) {
	raw, ok := m[name]
	if !ok {
		return nil, nil
	}
	src, ok := raw.(map[string]any)
	if !ok {
		return nil, errorf(p.Field(name), "%s must be an object, got %s", name, describe(raw))
	}
	out := make(map[string]*Schema, len(src))
	for _, k := range sortedKeys(src) {
		at := p.Field(name).Field(k)
		if patterns {
			if _, err := regexp.Compile(k); err != nil {
				return nil, &Error{Path: at.String(), Reason: "invalid pattern", Cause: err}
			}
		}
		child, err := r.build(src[k], at)
		if err != nil {
			return nil, err
		}
		out[k] = child
	}
	return out, nil
}

func readKeywords(kw *Keywords, m map[string]any, p jsonptr.Pointer) error {
	var err error
	if kw.Type, err = readType(m, "type", p); err != nil {
		return err
	}
	if kw.Disallow, err = readType(m, "disallow", p); err != nil {
		return err
	}
	if kw.Required, err = readBool(m, "required", p); err != nil {
		return err
	}
	if kw.UniqueItems, err = readBool(m, "uniqueItems", p); err != nil {
		return err
	}
	if kw.ExclusiveMinimum, err = readBool(m, "exclusiveMinimum", p); err != nil {
		return err
	}
	if kw.ExclusiveMaximum, err = readBool(m, "exclusiveMaximum", p); err != nil {
		return err
	}
	if kw.Format, err = readString(m, "format", p); err != nil {
		return err
	}
	if kw.Pattern, err = readString(m, "pattern", p); err != nil {
		return err
	}
	if kw.Pattern != "" {
		if _, err := regexp.Compile(kw.Pattern); err != nil {
			return &Error{Path: p.Field("pattern").String(), Reason: "invalid pattern", Cause: err}
		}
	}
	for _, c := range []struct {
		name string
		dst  **int
	}{
		{"minLength", &kw.MinLength},
		{"maxLength", &kw.MaxLength},
		{"minItems", &kw.MinItems},
		{"maxItems", &kw.MaxItems},
	} {
		if *c.dst, err = readCount(m, c.name, p); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		name string
		dst  **float64
	}{
		{"minimum", &kw.Minimum},
		{"maximum", &kw.Maximum},
		{"divisibleBy", &kw.DivisibleBy},
	} {
		if *c.dst, err = readNumber(m, c.name, p); err != nil {
			return err
		}
	}
	if kw.DivisibleBy != nil && *kw.DivisibleBy <= 0 {
		return errorf(p.Field("divisibleBy"), "divisibleBy must be greater than zero")
	}
	if raw, ok := m["enum"]; ok {
		vals, ok := raw.([]any)
		if !ok || len(vals) == 0 {
			return errorf(p.Field("enum"), "enum must be a non-empty array")
		}
		kw.Enum = vals
	}
	return nil
}

func readType(m map[string]any, name string, p jsonptr.Pointer) (Type, error) {
	raw, ok := m[name]
	if !ok {
		return 0, nil
	}
	switch t := raw.(type) {
	case string:
		tt, err := ParseType(t)
		if err != nil {
			return 0, &Error{Path: p.Field(name).String(), Reason: "invalid type", Cause: err}
		}
		return tt, nil
	case []any:
		var out Type
		for i, v := range t {
			s, ok := v.(string)
			if !ok {
				return 0, errorf(p.Field(name).Index(i), "schema unions in %s are not supported", name)
			}
			tt, err := ParseType(s)
			if err != nil {
				return 0, &Error{Path: p.Field(name).Index(i).String(), Reason: "invalid type", Cause: err}
			}
			out |= tt
		}
		return out, nil
	}
	return 0, errorf(p.Field(name), "%s must be a string or an array of strings", name)
}

func readBool(m map[string]any, name string, p jsonptr.Pointer) (bool, error) {
	raw, ok := m[name]
	if !ok {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, errorf(p.Field(name), "%s must be a boolean", name)
	}
	return b, nil
}

func readString(m map[string]any, name string, p jsonptr.Pointer) (string, error) {
	raw, ok := m[name]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", errorf(p.Field(name), "%s must be a string", name)
	}
	return s, nil
}

func readNumber(m map[string]any, name string, p jsonptr.Pointer) (*float64, error) {
	raw, ok := m[name]
	if !ok {
		return nil, nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return nil, errorf(p.Field(name), "%s must be a number", name)
	}
	return &f, nil
}

func readCount(m map[string]any, name string, p jsonptr.Pointer) (*int, error) {
	raw, ok := m[name]
	if !ok {
		return nil, nil
	}
	f, ok := toFloat(raw)
	if !ok || f < 0 || f != math.Trunc(f) {
		return nil, errorf(p.Field(name), "%s must be a non-negative integer", name)
	}
	// float64(math.MaxInt) rounds up to 2^63, which no longer fits an int
	if f >= float64(math.MaxInt) {
		return nil, errorf(p.Field(name), "%s is too large", name)
	}
	n := int(f)
	return &n, nil
}

// toFloat accepts the number shapes produced by the JSON and YAML decoders.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func errorf(p jsonptr.Pointer, format string, a ...any) *Error {
	return &Error{Path: p.String(), Reason: fmt.Sprintf(format, a...)}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
