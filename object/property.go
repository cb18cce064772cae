package object

import (
	"strings"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
	"github.com/reoring/jsonmodel/property"
)

// typeProperty adapts a Type into a property so object types can nest
// inside other types, arrays, and maps.
type typeProperty struct {
	typ        *Type
	name       string
	optional   bool
	def        map[string]any
	hasDefault bool
}

func (p *typeProperty) Name() string     { return p.name }
func (p *typeProperty) Optional() bool   { return p.optional }
func (p *typeProperty) HasDefault() bool { return p.hasDefault }

// Default returns a fresh instance built from the declared default, so
// mutating one read never leaks into the next.
func (p *typeProperty) Default() any {
	if !p.hasDefault {
		return jsonmodel.Absent
	}
	o, err := p.typ.New(jsonmodel.DeepCopyRaw(p.def).(map[string]any))
	if err != nil {
		return jsonmodel.Absent
	}
	return o
}

func (p *typeProperty) Bind(name string) error {
	if name == "" {
		return jsonmodel.Propertyf("cannot bind a property to the empty name")
	}
	if strings.HasPrefix(name, "_") && name != property.AdditionalName {
		return jsonmodel.Propertyf("property name %q uses the reserved underscore prefix", name)
	}
	switch p.name {
	case "":
		p.name = name
		return nil
	case name:
		return nil
	default:
		return jsonmodel.Propertyf("property %q cannot be rebound to %q", p.name, name)
	}
}

func (p *typeProperty) Schema() *jsonschema.Schema { return p.typ.Schema() }

func (p *typeProperty) Validate(v any) (any, error) {
	if jsonmodel.IsAbsent(v) {
		if p.optional {
			return jsonmodel.Absent, nil
		}
		return nil, jsonmodel.Propertyf("required property %s cannot be absent", p.describe())
	}
	return p.validateValue(v)
}

func (p *typeProperty) validateValue(v any) (any, error) {
	switch t := v.(type) {
	case *Object:
		if t.typ == p.typ {
			return t, nil
		}
		raw, err := t.RawJSON(false)
		if err != nil {
			return nil, err
		}
		return p.typ.New(raw.(map[string]any))
	case map[string]any:
		return p.typ.New(t)
	case string:
		return p.typ.FromJSON([]byte(t), false)
	default:
		return nil, jsonschema.Validationf("value of type %T is not an object", v)
	}
}

func (p *typeProperty) describe() string {
	if p.name == "" {
		return "(unnamed)"
	}
	return "\"" + p.name + "\""
}

// PropertyBuilder builds a property whose values are instances of a
// Type.
type PropertyBuilder struct {
	typ        *Type
	name       string
	named      bool
	optional   bool
	def        any
	hasDefault bool
}

// AsProperty starts a property backed by this type. Candidate values
// may be existing instances, raw maps, or JSON text; either way the
// validated value is an instance of the type.
func (t *Type) AsProperty() *PropertyBuilder { return &PropertyBuilder{typ: t} }

func (b *PropertyBuilder) Named(name string) *PropertyBuilder { b.name, b.named = name, true; return b }
func (b *PropertyBuilder) Optional() *PropertyBuilder         { b.optional = true; return b }
func (b *PropertyBuilder) Default(v any) *PropertyBuilder     { b.def, b.hasDefault = v, true; return b }

func (b *PropertyBuilder) Build() (property.Property, error) {
	p := &typeProperty{typ: b.typ, optional: b.optional}
	if b.named {
		if err := p.Bind(b.name); err != nil {
			return nil, err
		}
	}
	if b.hasDefault {
		if !b.optional {
			return nil, jsonmodel.Propertyf("required property %s cannot declare a default", p.describe())
		}
		validated, err := p.Validate(b.def)
		if err != nil {
			return nil, jsonmodel.Propertyf("invalid default for property %s: %w", p.describe(), err)
		}
		if !jsonmodel.IsAbsent(validated) {
			raw, err := validated.(*Object).RawJSON(false)
			if err != nil {
				return nil, err
			}
			p.def = raw.(map[string]any)
			p.hasDefault = true
		}
	}
	return p, nil
}

func (b *PropertyBuilder) MustBuild() property.Property {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

var _ property.Property = (*typeProperty)(nil)
