package property

import (
	"fmt"
	"sort"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

// mapSpec carries the value property shared by a MapProperty and every
// Map built from it.
type mapSpec struct {
	value     Property
	schema    *jsonschema.Schema
	validator *jsonschema.Validator
}

// Map is a mutable string-keyed collection whose values have all
// passed the value property.
type Map struct {
	spec    *mapSpec
	entries map[string]any
}

func newMap(spec *mapSpec, initial map[string]any) (*Map, error) {
	m := &Map{spec: spec, entries: make(map[string]any, len(initial))}
	keys := make([]string, 0, len(initial))
	for k := range initial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.Set(k, initial[k]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Map) Len() int { return len(m.entries) }

func (m *Map) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set validates v against the value property and stores it under key.
// Setting Absent removes the entry.
func (m *Map) Set(key string, v any) error {
	if jsonmodel.IsAbsent(v) {
		delete(m.entries, key)
		return nil
	}
	out, err := m.spec.value.Validate(v)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	m.entries[key] = out
	return nil
}

// Delete removes the entry under key if present.
func (m *Map) Delete(key string) { delete(m.entries, key) }

// RawJSON projects the map onto plain decoded-JSON values. With
// validate set, nested containers are validated during projection and
// the projected map is checked against the map schema.
func (m *Map) RawJSON(validate bool) (any, error) {
	out := make(map[string]any, len(m.entries))
	for k, v := range m.entries {
		raw, err := jsonmodel.ToRawJSON(v, validate)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = raw
	}
	if validate {
		if err := m.spec.validator.Validate(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// JSONCopy returns an independent Map holding deep copies of the
// values.
func (m *Map) JSONCopy(validate bool) (any, error) {
	raw, err := m.RawJSON(validate)
	if err != nil {
		return nil, err
	}
	return newMap(m.spec, raw.(map[string]any))
}

// Equal reports key-wise structural equality. The other map may come
// from a different property.
func (m *Map) Equal(other *Map) bool {
	if other == nil || len(m.entries) != len(other.entries) {
		return false
	}
	for k, v := range m.entries {
		ov, ok := other.entries[k]
		if !ok || !equalValues(v, ov) {
			return false
		}
	}
	return true
}

var _ jsonmodel.Value = (*Map)(nil)

// MapProperty validates string-keyed collections with uniformly typed
// values and materializes them as Map containers.
type MapProperty struct {
	base
	spec *mapSpec
}

func (p *MapProperty) Schema() *jsonschema.Schema { return p.spec.schema.Clone() }

func (p *MapProperty) Validate(v any) (any, error) {
	if handled, out, err := p.gate(v); handled {
		return out, err
	}
	return p.validateValue(v)
}

func (p *MapProperty) validateValue(v any) (any, error) {
	switch t := v.(type) {
	case *Map:
		if t.spec == p.spec {
			return t, nil
		}
		raw, err := t.RawJSON(false)
		if err != nil {
			return nil, err
		}
		return newMap(p.spec, raw.(map[string]any))
	case map[string]any:
		return newMap(p.spec, t)
	default:
		return nil, jsonschema.Validationf("value of type %T is not a map", v)
	}
}

// New constructs a Map from the given entries, validating every value.
func (p *MapProperty) New(initial map[string]any) (*Map, error) {
	return newMap(p.spec, initial)
}

// FromJSON decodes JSON text and constructs a Map from it.
func (p *MapProperty) FromJSON(data []byte) (*Map, error) {
	decoded, err := jsonmodel.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	entries, ok := decoded.(map[string]any)
	if !ok {
		return nil, jsonschema.Validationf("decoded JSON is %T, not an object", decoded)
	}
	return newMap(p.spec, entries)
}

// MapBuilder builds a MapProperty.
type MapBuilder struct {
	common
	value Property
}

// MapOf starts a map property whose values validate against value. The
// value property must not be optional.
func MapOf(value Property) *MapBuilder { return &MapBuilder{value: value} }

func (b *MapBuilder) Named(name string) *MapBuilder { b.name, b.named = name, true; return b }
func (b *MapBuilder) Optional() *MapBuilder         { b.optional = true; return b }
func (b *MapBuilder) Default(v any) *MapBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *MapBuilder) Build() (*MapProperty, error) {
	if b.value == nil {
		return nil, jsonmodel.Propertyf("map value property is nil")
	}
	if b.value.Optional() {
		return nil, jsonmodel.Propertyf("map value property must not be optional")
	}
	s, err := jsonschema.Object(nil, nil, b.value.Schema())
	if err != nil {
		return nil, err
	}
	val, err := jsonschema.NewValidator(s)
	if err != nil {
		return nil, err
	}
	p := &MapProperty{spec: &mapSpec{value: b.value, schema: s, validator: val}}
	bs, err := newBase(b.common, p.validateValue)
	if err != nil {
		return nil, err
	}
	p.base = bs
	return p, nil
}

func (b *MapBuilder) MustBuild() *MapProperty { return mustProperty(b.Build()) }
