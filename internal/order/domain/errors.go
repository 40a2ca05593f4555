package domain

import (
	"errors"
	"fmt"
)

// NoIndex marks a ValidationError that is not tied to a single item.
const NoIndex = -1

// ErrOrderNotFound is returned by order stores for unknown identifiers.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError reports malformed or out-of-range input. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Field  string
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failure of the order store. The order is not
// considered created.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
