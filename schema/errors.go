package schema

import "fmt"

// Error reports a malformed schema document. Path is the JSON Pointer of the
// offending location within the document.
type Error struct {
	Path   string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema: %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

// SyntaxError wraps a JSON or YAML decoding failure.
type SyntaxError struct {
	Format string // "json" or "yaml"
	Cause  error
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("schema: invalid %s: %v", e.Format, e.Cause) }

func (e *SyntaxError) Unwrap() error { return e.Cause }
