package property

import (
	"fmt"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

// arraySpec carries the element property and the cardinality rules
// shared by an ArrayProperty and every Array built from it.
type arraySpec struct {
	elem      Property
	minItems  int
	maxItems  *int
	unique    bool
	schema    *jsonschema.Schema
	validator *jsonschema.Validator
}

// Array is a mutable sequence whose elements have all passed the
// element property. Mutations that would leave the sequence outside
// its cardinality bounds are rejected, so an Array is valid at every
// point of its life.
type Array struct {
	spec  *arraySpec
	items []any
}

func newArray(spec *arraySpec, values []any) (*Array, error) {
	a := &Array{spec: spec, items: make([]any, 0, len(values))}
	for _, v := range values {
		if err := a.Append(v); err != nil {
			return nil, err
		}
	}
	if len(a.items) < spec.minItems {
		return nil, jsonschema.Validationf("array requires at least %d elements, got %d", spec.minItems, len(a.items))
	}
	return a, nil
}

func (a *Array) Len() int { return len(a.items) }

// Values returns the stored elements in order. The slice is fresh but
// the elements are the stored ones.
func (a *Array) Values() []any { return append([]any(nil), a.items...) }

func (a *Array) Get(i int) (any, error) {
	if i < 0 || i >= len(a.items) {
		return nil, jsonmodel.Propertyf("index %d out of range for array of %d elements", i, len(a.items))
	}
	return a.items[i], nil
}

// Append validates v against the element property and adds it at the
// end. It fails when the array is already at its maximum size or, for
// unique arrays, when an equal element is already present.
func (a *Array) Append(v any) error {
	if a.spec.maxItems != nil && len(a.items) >= *a.spec.maxItems {
		return jsonschema.Validationf("array is at its maximum size %d", *a.spec.maxItems)
	}
	out, err := a.spec.elem.Validate(v)
	if err != nil {
		return fmt.Errorf("element %d: %w", len(a.items), err)
	}
	if a.spec.unique {
		if j := a.indexOf(out, -1); j >= 0 {
			return jsonschema.Validationf("element duplicates element %d", j)
		}
	}
	a.items = append(a.items, out)
	return nil
}

// Insert validates v and places it at index i, shifting later elements
// up. i may equal Len to append.
func (a *Array) Insert(i int, v any) error {
	if i < 0 || i > len(a.items) {
		return jsonmodel.Propertyf("index %d out of range for insert into array of %d elements", i, len(a.items))
	}
	if a.spec.maxItems != nil && len(a.items) >= *a.spec.maxItems {
		return jsonschema.Validationf("array is at its maximum size %d", *a.spec.maxItems)
	}
	out, err := a.spec.elem.Validate(v)
	if err != nil {
		return fmt.Errorf("element %d: %w", i, err)
	}
	if a.spec.unique {
		if j := a.indexOf(out, -1); j >= 0 {
			return jsonschema.Validationf("element duplicates element %d", j)
		}
	}
	a.items = append(a.items, nil)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = out
	return nil
}

// Set validates v and replaces the element at index i. For unique
// arrays the element being replaced is excluded from the duplicate
// check.
func (a *Array) Set(i int, v any) error {
	if i < 0 || i >= len(a.items) {
		return jsonmodel.Propertyf("index %d out of range for array of %d elements", i, len(a.items))
	}
	out, err := a.spec.elem.Validate(v)
	if err != nil {
		return fmt.Errorf("element %d: %w", i, err)
	}
	if a.spec.unique {
		if j := a.indexOf(out, i); j >= 0 {
			return jsonschema.Validationf("element duplicates element %d", j)
		}
	}
	a.items[i] = out
	return nil
}

// Pop removes and returns the last element. It fails on an empty array
// and when removal would drop the array below its minimum size.
func (a *Array) Pop() (any, error) {
	if len(a.items) == 0 {
		return nil, jsonmodel.Propertyf("cannot pop from an empty array")
	}
	if len(a.items) <= a.spec.minItems {
		return nil, jsonschema.Validationf("array is at its minimum size %d", a.spec.minItems)
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	return last, nil
}

// Delete removes the element at index i, shifting later elements down.
func (a *Array) Delete(i int) error {
	if i < 0 || i >= len(a.items) {
		return jsonmodel.Propertyf("index %d out of range for array of %d elements", i, len(a.items))
	}
	if len(a.items) <= a.spec.minItems {
		return jsonschema.Validationf("array is at its minimum size %d", a.spec.minItems)
	}
	a.items = append(a.items[:i], a.items[i+1:]...)
	return nil
}

// Clear removes every element. It fails when the array has a minimum
// size above zero.
func (a *Array) Clear() error {
	if a.spec.minItems > 0 {
		return jsonschema.Validationf("array requires at least %d elements", a.spec.minItems)
	}
	a.items = nil
	return nil
}

// indexOf reports the index of the first stored element equal to v,
// skipping the given index, or -1.
func (a *Array) indexOf(v any, skip int) int {
	for i, item := range a.items {
		if i == skip {
			continue
		}
		if equalValues(item, v) {
			return i
		}
	}
	return -1
}

// RawJSON projects the array onto plain decoded-JSON values. With
// validate set, nested containers are validated during projection and
// the projected array is checked against the array schema.
func (a *Array) RawJSON(validate bool) (any, error) {
	out := make([]any, len(a.items))
	for i, item := range a.items {
		raw, err := jsonmodel.ToRawJSON(item, validate)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = raw
	}
	if validate {
		if err := a.spec.validator.Validate(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// JSONCopy returns an independent Array holding deep copies of the
// elements.
func (a *Array) JSONCopy(validate bool) (any, error) {
	raw, err := a.RawJSON(validate)
	if err != nil {
		return nil, err
	}
	return newArray(a.spec, raw.([]any))
}

// Equal reports element-wise structural equality. The other array may
// come from a different property.
func (a *Array) Equal(other *Array) bool {
	if other == nil || len(a.items) != len(other.items) {
		return false
	}
	for i := range a.items {
		if !equalValues(a.items[i], other.items[i]) {
			return false
		}
	}
	return true
}

var _ jsonmodel.Value = (*Array)(nil)

// ArrayProperty validates sequences and materializes them as Array
// containers.
type ArrayProperty struct {
	base
	spec *arraySpec
}

func (p *ArrayProperty) Schema() *jsonschema.Schema { return p.spec.schema.Clone() }

func (p *ArrayProperty) Validate(v any) (any, error) {
	if handled, out, err := p.gate(v); handled {
		return out, err
	}
	return p.validateValue(v)
}

func (p *ArrayProperty) validateValue(v any) (any, error) {
	switch t := v.(type) {
	case *Array:
		if t.spec == p.spec {
			return t, nil
		}
		raw, err := t.RawJSON(false)
		if err != nil {
			return nil, err
		}
		return newArray(p.spec, raw.([]any))
	case []any:
		return newArray(p.spec, t)
	default:
		return nil, jsonschema.Validationf("value of type %T is not an array", v)
	}
}

// New constructs an Array from the given values, validating every
// element and the overall cardinality.
func (p *ArrayProperty) New(values ...any) (*Array, error) {
	return newArray(p.spec, values)
}

// FromJSON decodes JSON text and constructs an Array from it.
func (p *ArrayProperty) FromJSON(data []byte) (*Array, error) {
	decoded, err := jsonmodel.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	items, ok := decoded.([]any)
	if !ok {
		return nil, jsonschema.Validationf("decoded JSON is %T, not an array", decoded)
	}
	return newArray(p.spec, items)
}

// ArrayBuilder builds an ArrayProperty.
type ArrayBuilder struct {
	common
	elem   Property
	min    int
	max    *int
	unique bool
}

// ArrayOf starts an array property whose elements validate against
// elem. The element property must not be optional.
func ArrayOf(elem Property) *ArrayBuilder { return &ArrayBuilder{elem: elem} }

func (b *ArrayBuilder) MinItems(n int) *ArrayBuilder    { b.min = n; return b }
func (b *ArrayBuilder) MaxItems(n int) *ArrayBuilder    { b.max = &n; return b }
func (b *ArrayBuilder) Unique() *ArrayBuilder           { b.unique = true; return b }
func (b *ArrayBuilder) Named(name string) *ArrayBuilder { b.name, b.named = name, true; return b }
func (b *ArrayBuilder) Optional() *ArrayBuilder         { b.optional = true; return b }
func (b *ArrayBuilder) Default(v any) *ArrayBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *ArrayBuilder) Build() (*ArrayProperty, error) {
	if b.elem == nil {
		return nil, jsonmodel.Propertyf("array element property is nil")
	}
	if b.elem.Optional() {
		return nil, jsonmodel.Propertyf("array element property must not be optional")
	}
	s, err := jsonschema.Array(b.elem.Schema(), jsonschema.ArrayConstraints{
		MinItems: b.min,
		MaxItems: b.max,
		Unique:   b.unique,
	})
	if err != nil {
		return nil, err
	}
	val, err := jsonschema.NewValidator(s)
	if err != nil {
		return nil, err
	}
	p := &ArrayProperty{spec: &arraySpec{
		elem:      b.elem,
		minItems:  b.min,
		maxItems:  b.max,
		unique:    b.unique,
		schema:    s,
		validator: val,
	}}
	bs, err := newBase(b.common, p.validateValue)
	if err != nil {
		return nil, err
	}
	p.base = bs
	return p, nil
}

func (b *ArrayBuilder) MustBuild() *ArrayProperty { return mustProperty(b.Build()) }
