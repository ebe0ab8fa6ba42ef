package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is reported by Registry.Get for an unregistered key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateIdentity is reported when a key is registered twice.
	ErrDuplicateIdentity = errors.New("duplicate identity")
)

// InputError reports a malformed definition graph, such as a nil entry where a
// definition is required. Path is the JSON Pointer of the traversal location.
type InputError struct {
	Path   string
	Reason string
}

func (e *InputError) Error() string { return fmt.Sprintf("invalid input at %s: %s", e.Path, e.Reason) }

// InvariantError reports registry or cache state that the builder and the
// compiler never produce on their own. It signals a bug, not bad input.
type InvariantError struct {
	Op  string
	Key Key
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }
