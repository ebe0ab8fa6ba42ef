package model

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/schemamodel/schema"
)

// Keywords is the merged keyword set of a combination of definitions.
type Keywords struct {
	// Type is the set of allowed value types; schema.TypeAny when no
	// definition constrains it.
	Type     schema.Type `json:"type"`
	Disallow schema.Type `json:"disallow,omitempty"`
	Required bool        `json:"required,omitempty"`

	Patterns []string `json:"patterns,omitempty"`
	Formats  []string `json:"formats,omitempty"`

	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	Minimum     *Bound    `json:"minimum,omitempty"`
	Maximum     *Bound    `json:"maximum,omitempty"`
	DivisibleBy []float64 `json:"divisibleBy,omitempty"`

	MinItems        *int `json:"minItems,omitempty"`
	MaxItems        *int `json:"maxItems,omitempty"`
	UniqueItems     bool `json:"uniqueItems,omitempty"`
	PositionalItems bool `json:"positionalItems,omitempty"`

	AllowAdditionalProperties bool `json:"allowAdditionalProperties"`

	Enum []any `json:"enum,omitempty"`
}

// Bound is a numeric limit.
type Bound struct {
	Value     float64 `json:"value"`
	Exclusive bool    `json:"exclusive,omitempty"`
}

// MergeFunc derives the keyword set of a combination from its member
// definitions. Implementations must depend only on the set of definitions,
// not on their order.
type MergeFunc func(schemas []*schema.Schema) Keywords

// Merge is the default MergeFunc. Every member constraint applies at once, so
// bounds tighten, allowed types intersect and flags accumulate. Enum values
// are the distinct union of all members' enums.
func Merge(schemas []*schema.Schema) Keywords {
	kw := Keywords{Type: schema.TypeAny, AllowAdditionalProperties: true}
	var patterns, formats []string
	var enum []any
	for _, s := range schemas {
		if s == nil {
			continue
		}
		in := s.Keywords
		if in.Type != 0 {
			kw.Type &= in.Type
		}
		kw.Disallow |= in.Disallow
		kw.Required = kw.Required || in.Required
		kw.UniqueItems = kw.UniqueItems || in.UniqueItems
		kw.PositionalItems = kw.PositionalItems || s.PositionalItems
		kw.AllowAdditionalProperties = kw.AllowAdditionalProperties && s.AdditionalAllowed()

		if in.Pattern != "" {
			patterns = append(patterns, in.Pattern)
		}
		if in.Format != "" {
			formats = append(formats, in.Format)
		}
		kw.MinLength = maxInt(kw.MinLength, in.MinLength)
		kw.MaxLength = minInt(kw.MaxLength, in.MaxLength)
		kw.MinItems = maxInt(kw.MinItems, in.MinItems)
		kw.MaxItems = minInt(kw.MaxItems, in.MaxItems)

		if in.Minimum != nil {
			kw.Minimum = lowerBound(kw.Minimum, Bound{Value: *in.Minimum, Exclusive: in.ExclusiveMinimum})
		}
		if in.Maximum != nil {
			kw.Maximum = upperBound(kw.Maximum, Bound{Value: *in.Maximum, Exclusive: in.ExclusiveMaximum})
		}
		if in.DivisibleBy != nil {
			kw.DivisibleBy = append(kw.DivisibleBy, *in.DivisibleBy)
		}
		enum = append(enum, in.Enum...)
	}
	kw.Patterns = uniqueStrings(patterns)
	kw.Formats = uniqueStrings(formats)
	kw.DivisibleBy = uniqueFloats(kw.DivisibleBy)
	kw.Enum = uniqueValues(enum)
	return kw
}

func maxInt(cur, in *int) *int {
	if in == nil {
		return cur
	}
	if cur == nil || *in > *cur {
		v := *in
		return &v
	}
	return cur
}

func minInt(cur, in *int) *int {
	if in == nil {
		return cur
	}
	if cur == nil || *in < *cur {
		v := *in
		return &v
	}
	return cur
}

// lowerBound keeps the tighter minimum; exclusive wins on equal values.
func lowerBound(cur *Bound, in Bound) *Bound {
	if cur == nil || in.Value > cur.Value || (in.Value == cur.Value && in.Exclusive) {
		return &in
	}
	return cur
}

// upperBound keeps the tighter maximum; exclusive wins on equal values.
func upperBound(cur *Bound, in Bound) *Bound {
	if cur == nil || in.Value < cur.Value || (in.Value == cur.Value && in.Exclusive) {
		return &in
	}
	return cur
}

func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

func uniqueFloats(in []float64) []float64 {
	if len(in) == 0 {
		return nil
	}
	sort.Float64s(in)
	out := in[:1]
	for _, f := range in[1:] {
		if f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}

// uniqueValues dedups enum values by canonical JSON encoding and orders them
// by that encoding. Numbers compare by exact decimal value, so 1 and 1.0
// collapse while integers beyond float64 precision stay distinct. The first
// value of each group, by type and then text, is kept as written.
func uniqueValues(in []any) []any {
	if len(in) == 0 {
		return nil
	}
	type entry struct {
		key []byte
		tie string
		val any
	}
	entries := make([]entry, 0, len(in))
	for _, v := range in {
		entries = append(entries, entry{
			key: canonicalJSON(normalizeValue(v)),
			tie: fmt.Sprintf("%T:%v", v, v),
			val: v,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := bytes.Compare(entries[i].key, entries[j].key); c != 0 {
			return c < 0
		}
		return entries[i].tie < entries[j].tie
	})
	out := make([]any, 0, len(entries))
	var last []byte
	for i, e := range entries {
		if i > 0 && bytes.Equal(e.key, last) {
			continue
		}
		last = e.key
		out = append(out, e.val)
	}
	return out
}

// canonicalJSON encodes an already normalised value; object keys come out sorted.
func canonicalJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// unencodable values still need a stable, distinct key
		return []byte("!" + err.Error())
	}
	return b
}

// normalizeValue rewrites every number as a json.Number in canonical decimal
// form and recurses into objects and arrays.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeValue(t[i])
		}
		return out
	case int:
		return decimal(strconv.Itoa(t), v)
	case int64:
		return decimal(strconv.FormatInt(t, 10), v)
	case uint64:
		return decimal(strconv.FormatUint(t, 10), v)
	case float32:
		return normalizeValue(float64(t))
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return v
		}
		return decimal(strconv.FormatFloat(t, 'g', -1, 64), v)
	case json.Number:
		return decimal(t.String(), v)
	}
	return v
}

func decimal(s string, orig any) any {
	if c, ok := canonicalDecimal(s); ok {
		return json.Number(c)
	}
	return orig
}

// canonicalDecimal rewrites a JSON number literal as "<digits>e<exp>" with no
// leading or trailing zeros in digits, or "0" for any zero.
func canonicalDecimal(s string) (string, bool) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return "", false
		}
		exp, s = e, s[:i]
	}
	whole, frac, _ := strings.Cut(s, ".")
	digits := whole + frac
	if digits == "" {
		return "", false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	exp -= len(frac)
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0", true
	}
	trimmed := strings.TrimRight(digits, "0")
	exp += len(digits) - len(trimmed)
	if neg {
		trimmed = "-" + trimmed
	}
	return trimmed + "e" + strconv.Itoa(exp), true
}
