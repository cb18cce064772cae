package jsonmodel

import (
	"errors"
	"fmt"
)

// Failure kinds shared across packages. Wrapped errors keep these as
// errors.Is targets, so callers can branch on the kind without matching
// message text.
var (
	// ErrProperty covers property declaration and resolution failures:
	// missing required values, unknown names, illegal naming, rebinds.
	ErrProperty = errors.New("property error")

	// ErrSerialization covers malformed input during parse and I/O
	// failures during load/save.
	ErrSerialization = errors.New("serialization error")
)

// Propertyf builds a property-kind error with a formatted message. The
// format may use %w to chain an underlying cause.
func Propertyf(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrProperty}, a...)...)
}

// Serializationf builds a serialization-kind error with a formatted
// message. The format may use %w to chain an underlying cause.
func Serializationf(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrSerialization}, a...)...)
}
