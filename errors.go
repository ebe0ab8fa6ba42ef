package schemamodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/schemamodel/i18n"
	"github.com/reoring/schemamodel/internal/graph"
	"github.com/reoring/schemamodel/schema"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidInput      = "invalid_input"
	CodeParseError        = "parse_error"
	CodeInternalInvariant = "internal_invariant"
)

var (
	// ErrInvalidInput matches issues caused by the schema input
	// (invalid_input and parse_error). Fix the input; retrying cannot help.
	ErrInvalidInput = errors.New("schemamodel: invalid input")
	// ErrInternalInvariant matches issues that indicate a compiler bug.
	ErrInternalInvariant = errors.New("schemamodel: internal invariant violation")
)

// Issue represents a single compile failure.
type Issue struct {
	Path    string // JSON Pointer of the offending location (for example: /properties/a/items/0).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

func (it Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", it.Code, it.Path, it.Message)
}

func (it Issue) Unwrap() error { return it.Cause }

// Is matches the sentinel errors by code.
func (it Issue) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return it.Code == CodeInvalidInput || it.Code == CodeParseError
	case ErrInternalInvariant:
		return it.Code == CodeInternalInvariant
	}
	return false
}

// Issues is a collection of compile failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_input at /properties/a
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes each Issue to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	out := make([]error, len(iss))
	for i := range iss {
		out[i] = iss[i]
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IsInvalidInput reports whether err was caused by the schema input.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsInternal reports whether err signals a compiler bug.
func IsInternal(err error) bool { return errors.Is(err, ErrInternalInvariant) }

// issuesFrom classifies errors from the loader, builder and compiler.
func issuesFrom(err error) Issues {
	var (
		syn *schema.SyntaxError
		se  *schema.Error
		ie  *graph.InputError
		ve  *graph.InvariantError
	)
	switch {
	case errors.As(err, &syn):
		return Issues{newIssue("/", CodeParseError, syn.Cause.Error(), err)}
	case errors.As(err, &se):
		reason := se.Reason
		if se.Cause != nil {
			reason += " (" + se.Cause.Error() + ")"
		}
		return Issues{newIssue(se.Path, CodeInvalidInput, reason, err)}
	case errors.As(err, &ie):
		return Issues{newIssue(ie.Path, CodeInvalidInput, ie.Reason, err)}
	case errors.As(err, &ve):
		return Issues{newIssue("/", CodeInternalInvariant, ve.Error(), err)}
	}
	return Issues{newIssue("/", CodeInternalInvariant, err.Error(), err)}
}

func newIssue(path, code, reason string, cause error) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, map[string]string{"reason": reason}), Cause: cause}
}
