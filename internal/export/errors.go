package export

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySelection    = errors.New("export: selection is empty")
	ErrMissingIdentity   = errors.New("export: identity incomplete")
	ErrUnsupportedSchema = errors.New("export: unsupported schema")
)

// ValidationError lists every precondition an export request failed.
type ValidationError struct {
	Missing        []Field
	EmptySelection bool
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		labels := make([]string, len(e.Missing))
		for i, f := range e.Missing {
			labels[i] = f.Label()
		}
		parts = append(parts, "missing "+strings.Join(labels, ", "))
	}
	if e.EmptySelection {
		parts = append(parts, "no centers selected")
	}
	return "export: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	var errs []error
	if len(e.Missing) > 0 {
		errs = append(errs, ErrMissingIdentity)
	}
	if e.EmptySelection {
		errs = append(errs, ErrEmptySelection)
	}
	return errs
}

// Has reports whether f is among the missing fields.
func (e *ValidationError) Has(f Field) bool {
	for _, m := range e.Missing {
		if m == f {
			return true
		}
	}
	return false
}

// SerializationError wraps a failure to build or encode an artifact.
type SerializationError struct {
	Op  string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("export: %s: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
