// Package property implements typed, named descriptors whose values are
// validated against derived JSON Schema fragments: raw schema-checked
// kinds, allOf/anyOf/oneOf combinators, and array/map containers.
package property

import (
	"strings"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

// AdditionalName is the one reserved name a property may be bound to:
// the internal sentinel governing undeclared keys of an aggregate.
// Every other name starting with an underscore is rejected.
const AdditionalName = "_additional"

// Property is one named slot descriptor. Implementations are immutable
// after Build except for the one-shot name binding.
type Property interface {
	// Name returns the bound name, or "" before binding.
	Name() string

	// Optional reports whether the slot may be absent.
	Optional() bool

	// HasDefault reports whether an optional default was declared.
	HasDefault() bool

	// Default returns an independent copy of the declared default, or
	// Absent when none was declared. Mutating the result never affects
	// later calls.
	Default() any

	// Validate checks a candidate value. Absent passes through an
	// optional property unchanged and fails a required one; any other
	// value goes through the kind-specific routine, which returns the
	// validated (possibly converted) value.
	Validate(v any) (any, error)

	// Schema returns the fragment describing this property. The result
	// is an independent copy; callers may mutate it freely.
	Schema() *jsonschema.Schema

	// Bind assigns the property's name. Binding the same name again is
	// a no-op; a second distinct name, an empty name, or a reserved
	// name other than AdditionalName fails.
	Bind(name string) error
}

// base carries the name/optional/default state shared by every kind.
type base struct {
	name       string
	optional   bool
	def        any
	hasDefault bool
}

func (b *base) Name() string     { return b.name }
func (b *base) Optional() bool   { return b.optional }
func (b *base) HasDefault() bool { return b.hasDefault }

func (b *base) Default() any {
	if !b.hasDefault {
		return jsonmodel.Absent
	}
	if v, ok := b.def.(jsonmodel.Value); ok {
		cp, err := v.JSONCopy(false)
		if err != nil {
			return jsonmodel.Absent
		}
		return cp
	}
	return jsonmodel.DeepCopyRaw(b.def)
}

func (b *base) Bind(name string) error {
	if name == "" {
		return jsonmodel.Propertyf("cannot bind a property to the empty name")
	}
	if strings.HasPrefix(name, "_") && name != AdditionalName {
		return jsonmodel.Propertyf("property name %q uses the reserved underscore prefix", name)
	}
	switch b.name {
	case "":
		b.name = name
		return nil
	case name:
		return nil
	default:
		return jsonmodel.Propertyf("property %q cannot be rebound to %q", b.name, name)
	}
}

// gate applies the shared Absent contract before kind-specific
// validation. handled is true when the gate already produced the
// outcome.
func (b *base) gate(v any) (handled bool, out any, err error) {
	if !jsonmodel.IsAbsent(v) {
		return false, nil, nil
	}
	if b.optional {
		return true, jsonmodel.Absent, nil
	}
	return true, nil, jsonmodel.Propertyf("required property %s cannot be absent", b.describe())
}

func (b *base) describe() string {
	if b.name == "" {
		return "(unnamed)"
	}
	return "\"" + b.name + "\""
}

// common accumulates the builder-side shared options.
type common struct {
	name       string
	named      bool
	optional   bool
	def        any
	hasDefault bool
}

// newBase applies the shared options, validating a declared default
// through the kind's own routine and storing a defensive copy of it.
func newBase(c common, validate func(any) (any, error)) (base, error) {
	b := base{optional: c.optional, def: jsonmodel.Absent}
	if c.named {
		if err := b.Bind(c.name); err != nil {
			return base{}, err
		}
	}
	if c.hasDefault {
		if !c.optional {
			return base{}, jsonmodel.Propertyf("required property %s cannot declare a default", b.describe())
		}
		// A default of Absent is the same as declaring none.
		if !jsonmodel.IsAbsent(c.def) {
			validated, err := validate(c.def)
			if err != nil {
				return base{}, jsonmodel.Propertyf("invalid default for property %s: %w", b.describe(), err)
			}
			cp, err := copyDefault(validated)
			if err != nil {
				return base{}, err
			}
			b.def = cp
			b.hasDefault = true
		}
	}
	return b, nil
}

func copyDefault(v any) (any, error) {
	if val, ok := v.(jsonmodel.Value); ok {
		return val.JSONCopy(false)
	}
	if !jsonmodel.IsRaw(v) {
		return nil, jsonmodel.Propertyf("default of type %T cannot be copied", v)
	}
	return jsonmodel.DeepCopyRaw(v), nil
}

// rawForCompare projects container values onto their raw form so
// structural equality works across representations.
func rawForCompare(v any) (any, bool) {
	if val, ok := v.(jsonmodel.Value); ok {
		raw, err := val.RawJSON(false)
		return raw, err == nil
	}
	return v, true
}

// equalValues reports structural equality between two stored values,
// serializing containers as needed.
func equalValues(a, b any) bool {
	ra, oka := rawForCompare(a)
	rb, okb := rawForCompare(b)
	return oka && okb && jsonmodel.EqualRaw(ra, rb)
}
