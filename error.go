package evx

import (
	"errors"
	"fmt"
)

var (
	// ErrRange reports a duration or timestamp outside its representable
	// range at construction time.
	ErrRange = errors.New("value out of range")

	// ErrOutOfRange reports a list index outside [0, Size()).
	ErrOutOfRange = errors.New("index out of range")

	// ErrKeyNotFound reports a map lookup for an absent key.
	ErrKeyNotFound = errors.New("no such key")

	// ErrNoSuchField reports a struct access to an unknown field name or
	// number.
	ErrNoSuchField = errors.New("no such field")

	// ErrBadMapKey reports an attempt to build a map type or entry with a
	// key kind outside bool, int, uint, and string.
	ErrBadMapKey = errors.New("invalid map key kind")

	// ErrNotSerializable reports a serialization request on a kind that
	// does not support it (a failed precondition, not a bug).
	ErrNotSerializable = errors.New("value is not serializable")

	// ErrNotImplemented reports an operation a backing supports only on
	// demand, such as a size query on a legacy container.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidUTF8 reports malformed string input.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// ErrMissing is the Go error corresponding to the Missing value.  ErrMissing
// flows through Go error returns while Missing flows through the dataflow as
// a first-class value.
var ErrMissing = errors.New("missing")

// Missing represents an error condition arising from a referenced entity not
// being present: a non-existent struct field, a map lookup for an absent
// key, a list index out of range.  Evaluators propagate Missing through
// expressions rather than aborting, so each operator can define its own
// semantics with respect to absence.
var Missing = NewErrorValue(ErrMissing)

type TypeOfError struct{}

// NewErrorValue wraps err as a first-class error value.  Error values are
// ordinary values: they flow through the same channels as ints and strings
// so that an evaluator can implement errors-are-values semantics.
func NewErrorValue(err error) Value {
	return Value{typ: TypeError, bytes: []byte(err.Error()), rep: err}
}

// NewErrorf formats and wraps an error value.
func NewErrorf(format string, args ...any) Value {
	return NewErrorValue(fmt.Errorf(format, args...))
}

func (t *TypeOfError) ID() int        { return IDError }
func (t *TypeOfError) Kind() Kind     { return ErrorKind }
func (t *TypeOfError) String() string { return "error" }
