package jsonschema

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema covers structurally invalid fragments: negative bounds,
	// max below min, duplicate property names, too few combinator
	// branches, conflicting definition bodies, compile failures.
	ErrSchema = errors.New("schema error")

	// ErrValidation covers instances that fail conformance against a
	// compiled fragment.
	ErrValidation = errors.New("validation error")
)

// Schemaf builds a schema-kind error. The format may use %w for an
// underlying cause.
func Schemaf(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrSchema}, a...)...)
}

// Validationf builds a validation-kind error for checks performed
// outside the compiled validator, such as container constraints.
func Validationf(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, a...)...)
}

// RedefinedError reports a named definition claimed by two fragments
// with different bodies.
type RedefinedError struct {
	Name     string
	Original *Schema
	Conflict *Schema
}

func (e *RedefinedError) Error() string {
	return fmt.Sprintf("schema error: definition %q redefined: %s conflicts with %s",
		e.Name, renderSchema(e.Conflict), renderSchema(e.Original))
}

// Is makes errors.Is(err, ErrSchema) hold for redefinitions.
func (e *RedefinedError) Is(target error) bool { return target == ErrSchema }

// ValidationError reports an instance that failed conformance, with the
// JSON Pointer of the deepest failing location when known.
type ValidationError struct {
	Path  string
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("validation error: %v", e.Cause)
	}
	return fmt.Sprintf("validation error at %q: %v", e.Path, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrValidation) hold for instance failures.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// renderSchema is for error messages only.
func renderSchema(s *Schema) string {
	if s == nil {
		return "<nil>"
	}
	data, err := s.MarshalJSON()
	if err != nil {
		return "<unencodable>"
	}
	return string(data)
}
