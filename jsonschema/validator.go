package jsonschema

import (
	"bytes"
	"errors"

	j "github.com/goccy/go-json"
	"github.com/google/uuid"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator pairs a fragment with its compiled form. Compilation
// happens once at construction; a Validator is immutable and safe to
// share read-only afterwards.
type Validator struct {
	schema   *Schema
	compiled *jschema.Schema
}

// NewValidator compiles s under JSON Schema draft 7, so definitions and
// "#/definitions/..." references resolve. Compilation failure means the
// fragment itself is invalid and is reported as a schema error. A nil
// fragment compiles as the trivial accept-everything schema.
func NewValidator(s *Schema) (*Validator, error) {
	if s == nil {
		s = True()
	} else {
		s = s.Clone()
	}
	doc, err := j.Marshal(s)
	if err != nil {
		return nil, Schemaf("marshal schema document: %w", err)
	}

	c := jschema.NewCompiler()
	c.Draft = jschema.Draft7
	c.AssertFormat = true
	// Unique in-memory URL per document, so any number of validators can
	// share one process without resource collisions.
	url := "mem:" + uuid.NewString() + ".json"
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, Schemaf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, Schemaf("compile schema: %w", err)
	}
	return &Validator{schema: s, compiled: compiled}, nil
}

// MustValidator is NewValidator panicking on error, for fragments known
// to be well-formed at declaration time.
func MustValidator(s *Schema) *Validator {
	v, err := NewValidator(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Schema returns a copy of the fragment this validator was built from.
func (v *Validator) Schema() *Schema { return v.schema.Clone() }

// Validate checks a raw JSON instance for conformance. The returned
// error carries the JSON Pointer of the deepest failing location.
func (v *Validator) Validate(instance any) error {
	err := v.compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jschema.ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Path: deepestLocation(ve), Cause: err}
	}
	return &ValidationError{Cause: err}
}

// IsValid is the predicate form of Validate.
func (v *Validator) IsValid(instance any) bool { return v.Validate(instance) == nil }

// deepestLocation follows the first cause chain to the most specific
// failing instance location.
func deepestLocation(ve *jschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve.InstanceLocation
}

// Check compiles s and reports whether it is a well-formed schema
// document.
func Check(s *Schema) error {
	_, err := NewValidator(s)
	return err
}

// Validate compiles s and checks instance against it in one shot. Hold
// a Validator instead when validating repeatedly.
func Validate(s *Schema, instance any) error {
	v, err := NewValidator(s)
	if err != nil {
		return err
	}
	return v.Validate(instance)
}

// IsValid is the predicate form of the package-level Validate: any
// failure, schema or instance, reports false.
func IsValid(s *Schema, instance any) bool { return Validate(s, instance) == nil }
