package property

import (
	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

// rawProperty validates raw JSON values against a fixed fragment using
// the compiled validator. All scalar property kinds build down to it.
type rawProperty struct {
	base
	schema    *jsonschema.Schema
	validator *jsonschema.Validator
}

func (p *rawProperty) Schema() *jsonschema.Schema { return p.schema.Clone() }

func (p *rawProperty) Validate(v any) (any, error) {
	if handled, out, err := p.gate(v); handled {
		return out, err
	}
	return p.validateValue(v)
}

func (p *rawProperty) validateValue(v any) (any, error) {
	if !jsonmodel.IsRaw(v) {
		return nil, jsonschema.Validationf("value of type %T is not raw JSON", v)
	}
	if err := p.validator.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

// newRawProperty compiles the fragment once and applies the shared
// options. The fragment is cloned, so later caller mutations are
// invisible.
func newRawProperty(s *jsonschema.Schema, c common) (Property, error) {
	own := s.Clone()
	validator, err := jsonschema.NewValidator(own)
	if err != nil {
		return nil, err
	}
	p := &rawProperty{schema: own, validator: validator}
	bs, err := newBase(c, p.validateValue)
	if err != nil {
		return nil, err
	}
	p.base = bs
	return p, nil
}

// RawBuilder builds a property from an explicit schema fragment.
type RawBuilder struct {
	common
	schema *jsonschema.Schema
}

// Raw starts a property governed by the given fragment as-is.
func Raw(s *jsonschema.Schema) *RawBuilder { return &RawBuilder{schema: s} }

// AnyJSON starts a property accepting any valid JSON value.
func AnyJSON() *RawBuilder { return Raw(jsonschema.IsJSON()) }

func (b *RawBuilder) Named(name string) *RawBuilder { b.name, b.named = name, true; return b }
func (b *RawBuilder) Optional() *RawBuilder         { b.optional = true; return b }
func (b *RawBuilder) Default(v any) *RawBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *RawBuilder) Build() (Property, error) {
	if b.schema == nil {
		return nil, jsonschema.Schemaf("raw property requires a schema fragment")
	}
	return newRawProperty(b.schema, b.common)
}

func (b *RawBuilder) MustBuild() Property { return mustProperty(b.Build()) }

// StringBuilder builds a string property.
type StringBuilder struct {
	common
	c jsonschema.StringConstraints
}

// String starts a string property.
func String() *StringBuilder { return &StringBuilder{} }

func (b *StringBuilder) MinLength(n int) *StringBuilder  { b.c.MinLength = jsonschema.Int(n); return b }
func (b *StringBuilder) MaxLength(n int) *StringBuilder  { b.c.MaxLength = jsonschema.Int(n); return b }
func (b *StringBuilder) Pattern(p string) *StringBuilder { b.c.Pattern = p; return b }
func (b *StringBuilder) Format(f string) *StringBuilder  { b.c.Format = f; return b }

func (b *StringBuilder) Named(name string) *StringBuilder { b.name, b.named = name, true; return b }
func (b *StringBuilder) Optional() *StringBuilder         { b.optional = true; return b }
func (b *StringBuilder) Default(v any) *StringBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *StringBuilder) Build() (Property, error) {
	s, err := jsonschema.String(b.c)
	if err != nil {
		return nil, err
	}
	return newRawProperty(s, b.common)
}

func (b *StringBuilder) MustBuild() Property { return mustProperty(b.Build()) }

// NumberBuilder builds a number or integer property.
type NumberBuilder struct {
	common
	c jsonschema.NumberConstraints
}

// Number starts a number property.
func Number() *NumberBuilder { return &NumberBuilder{} }

func (b *NumberBuilder) Minimum(v float64) *NumberBuilder { b.c.Minimum = jsonschema.Float(v); return b }
func (b *NumberBuilder) Maximum(v float64) *NumberBuilder { b.c.Maximum = jsonschema.Float(v); return b }
func (b *NumberBuilder) ExclusiveMinimum() *NumberBuilder { b.c.ExclusiveMinimum = true; return b }
func (b *NumberBuilder) ExclusiveMaximum() *NumberBuilder { b.c.ExclusiveMaximum = true; return b }
func (b *NumberBuilder) MultipleOf(v float64) *NumberBuilder {
	b.c.MultipleOf = jsonschema.Float(v)
	return b
}

// Integer restricts the property to whole numbers.
func (b *NumberBuilder) Integer() *NumberBuilder { b.c.Integer = true; return b }

func (b *NumberBuilder) Named(name string) *NumberBuilder { b.name, b.named = name, true; return b }
func (b *NumberBuilder) Optional() *NumberBuilder         { b.optional = true; return b }
func (b *NumberBuilder) Default(v any) *NumberBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *NumberBuilder) Build() (Property, error) {
	s, err := jsonschema.Number(b.c)
	if err != nil {
		return nil, err
	}
	return newRawProperty(s, b.common)
}

func (b *NumberBuilder) MustBuild() Property { return mustProperty(b.Build()) }

// BoolBuilder builds a boolean property.
type BoolBuilder struct {
	common
}

// Bool starts a boolean property.
func Bool() *BoolBuilder { return &BoolBuilder{} }

func (b *BoolBuilder) Named(name string) *BoolBuilder { b.name, b.named = name, true; return b }
func (b *BoolBuilder) Optional() *BoolBuilder         { b.optional = true; return b }
func (b *BoolBuilder) Default(v any) *BoolBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *BoolBuilder) Build() (Property, error) {
	return newRawProperty(jsonschema.Boolean(), b.common)
}

func (b *BoolBuilder) MustBuild() Property { return mustProperty(b.Build()) }

// EnumBuilder builds a property accepting a fixed value set.
type EnumBuilder struct {
	common
	values []any
}

// Enum starts a property accepting any of the given values.
func Enum(values ...any) *EnumBuilder { return &EnumBuilder{values: values} }

func (b *EnumBuilder) Named(name string) *EnumBuilder { b.name, b.named = name, true; return b }
func (b *EnumBuilder) Optional() *EnumBuilder         { b.optional = true; return b }
func (b *EnumBuilder) Default(v any) *EnumBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *EnumBuilder) Build() (Property, error) {
	s, err := jsonschema.Enum(b.values...)
	if err != nil {
		return nil, err
	}
	return newRawProperty(s, b.common)
}

func (b *EnumBuilder) MustBuild() Property { return mustProperty(b.Build()) }

// ConstBuilder builds a property accepting exactly one value.
type ConstBuilder struct {
	common
	value any
}

// Const starts a property accepting only the given value.
func Const(value any) *ConstBuilder { return &ConstBuilder{value: value} }

func (b *ConstBuilder) Named(name string) *ConstBuilder { b.name, b.named = name, true; return b }
func (b *ConstBuilder) Optional() *ConstBuilder         { b.optional = true; return b }
func (b *ConstBuilder) Default(v any) *ConstBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *ConstBuilder) Build() (Property, error) {
	return newRawProperty(jsonschema.Const(b.value), b.common)
}

func (b *ConstBuilder) MustBuild() Property { return mustProperty(b.Build()) }

func mustProperty[P any](p P, err error) P {
	if err != nil {
		panic(err)
	}
	return p
}
