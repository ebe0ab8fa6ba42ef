// Package jsonptr builds and resolves RFC 6901 JSON Pointers.
//
// Key renders the RFC form ("" for the root, "/" for the member named "") and
// is the one to use for lookups and map keys. String is for display: it
// renders the root as "/" so that issue paths never come out empty, which
// makes it ambiguous with the member named "".
package jsonptr

import (
	"fmt"
	"strconv"
	"strings"
)

// Pointer is an immutable JSON Pointer. The zero value is the root.
type Pointer struct {
	parts []string // unescaped reference tokens
}

// Root returns the root pointer.
func Root() Pointer { return Pointer{} }

// Field appends an object member token.
func (p Pointer) Field(name string) Pointer {
	return Pointer{parts: append(append([]string{}, p.parts...), name)}
}

// Index appends an array index token.
func (p Pointer) Index(i int) Pointer {
	return Pointer{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Tokens returns a copy of the unescaped reference tokens.
func (p Pointer) Tokens() []string { return append([]string(nil), p.parts...) }

// IsRoot reports whether p addresses the document root.
func (p Pointer) IsRoot() bool { return len(p.parts) == 0 }

func (p Pointer) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return p.Key()
}

// Key returns the RFC 6901 representation; unambiguous, "" for the root.
func (p Pointer) Key() string {
	b := &strings.Builder{}
	for _, part := range p.parts {
		b.WriteByte('/')
		b.WriteString(escape(part))
	}
	return b.String()
}

// Parse reads an RFC 6901 pointer string. "" denotes the root and "/" the
// member named "".
func Parse(s string) (Pointer, error) {
	if s == "" {
		return Root(), nil
	}
	if !strings.HasPrefix(s, "/") {
		return Pointer{}, fmt.Errorf("jsonptr: %q does not start with '/'", s)
	}
	raw := strings.Split(s[1:], "/")
	parts := make([]string, 0, len(raw))
	for _, r := range raw {
		u, err := unescape(r)
		if err != nil {
			return Pointer{}, err
		}
		parts = append(parts, u)
	}
	return Pointer{parts: parts}, nil
}

// Lookup resolves p against a decoded JSON value made of map[string]any and []any.
func Lookup(doc any, p Pointer) (any, error) {
	cur := doc
	for i, tok := range p.parts {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[tok]
			if !ok {
				return nil, fmt.Errorf("jsonptr: %s: member %q not found", Pointer{parts: p.parts[:i+1]}, tok)
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, fmt.Errorf("jsonptr: %s: index %q out of range", Pointer{parts: p.parts[:i+1]}, tok)
			}
			cur = t[idx]
		default:
			return nil, fmt.Errorf("jsonptr: %s: cannot descend into %T", Pointer{parts: p.parts[:i]}, cur)
		}
	}
	return cur, nil
}

// escape '~' -> '~0', '/' -> '~1'
func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, "~") {
		return s, nil
	}
	b := &strings.Builder{}
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("jsonptr: dangling '~' in %q", s)
		}
		switch s[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", fmt.Errorf("jsonptr: invalid escape '~%c' in %q", s[i+1], s)
		}
		i++
	}
	return b.String(), nil
}
