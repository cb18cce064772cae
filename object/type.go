// Package object assembles named properties into schema-backed object
// types and materializes always-valid instances of them.
package object

import (
	"io"
	"sort"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
	"github.com/reoring/jsonmodel/property"
)

// Type is an immutable object description: an ordered set of declared
// properties, a policy for undeclared keys, and the derived object
// schema with its compiled validator.
type Type struct {
	name       string
	required   []string
	optional   []string
	byName     map[string]property.Property
	additional property.Property
	schema     *jsonschema.Schema
	validator  *jsonschema.Validator
}

// Builder assembles a Type. Undeclared keys are allowed and validated
// as arbitrary JSON unless the policy is changed with
// AdditionalProperty, AdditionalSchema, or NoAdditional.
type Builder struct {
	name       string
	order      []string
	byName     map[string]property.Property
	additional property.Property
	strict     bool
	err        error
}

// NewType starts an object type with the given name.
func NewType(name string) *Builder {
	return &Builder{name: name, byName: make(map[string]property.Property)}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Add declares a property under name, binding the property to it.
// Declaring the same name twice fails, as does a property already
// bound to a different name.
func (b *Builder) Add(name string, p property.Property) *Builder {
	if b.err != nil {
		return b
	}
	if p == nil {
		return b.fail(jsonmodel.Propertyf("property %q of type %q is nil", name, b.name))
	}
	if name == property.AdditionalName {
		return b.fail(jsonmodel.Propertyf("type %q cannot declare the reserved property name %q", b.name, name))
	}
	if _, dup := b.byName[name]; dup {
		return b.fail(jsonmodel.Propertyf("type %q already declares property %q", b.name, name))
	}
	if err := p.Bind(name); err != nil {
		return b.fail(err)
	}
	b.byName[name] = p
	b.order = append(b.order, name)
	return b
}

// AdditionalProperty validates undeclared keys through p, which must
// be optional. An unnamed p is bound to property.AdditionalName.
func (b *Builder) AdditionalProperty(p property.Property) *Builder {
	if b.err != nil {
		return b
	}
	if p == nil {
		return b.fail(jsonmodel.Propertyf("additional property of type %q is nil", b.name))
	}
	if !p.Optional() {
		return b.fail(jsonmodel.Propertyf("additional property of type %q must be optional", b.name))
	}
	if p.Name() == "" {
		if err := p.Bind(property.AdditionalName); err != nil {
			return b.fail(err)
		}
	}
	b.additional = p
	b.strict = false
	return b
}

// AdditionalSchema validates undeclared keys against the fragment s.
func (b *Builder) AdditionalSchema(s *jsonschema.Schema) *Builder {
	if b.err != nil {
		return b
	}
	p, err := property.Raw(s).Named(property.AdditionalName).Optional().Build()
	if err != nil {
		return b.fail(err)
	}
	b.additional = p
	b.strict = false
	return b
}

// NoAdditional rejects undeclared keys entirely.
func (b *Builder) NoAdditional() *Builder {
	if b.err != nil {
		return b
	}
	b.additional = nil
	b.strict = true
	return b
}

// Build assembles the type, derives its object schema from the
// property fragments, and compiles the validator once. Definitions
// carried by the fragments are consolidated; two fragments redefining
// the same name differently fail with a jsonschema.RedefinedError.
func (b *Builder) Build() (*Type, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, jsonmodel.Propertyf("object type name is empty")
	}
	additional := b.additional
	if additional == nil && !b.strict {
		p, err := property.AnyJSON().Named(property.AdditionalName).Optional().Build()
		if err != nil {
			return nil, err
		}
		additional = p
	}

	t := &Type{
		name:       b.name,
		byName:     make(map[string]property.Property, len(b.byName)),
		additional: additional,
	}
	requiredFrags := make(map[string]*jsonschema.Schema)
	optionalFrags := make(map[string]*jsonschema.Schema)
	for _, name := range b.order {
		p := b.byName[name]
		t.byName[name] = p
		if p.Optional() {
			t.optional = append(t.optional, name)
			optionalFrags[name] = p.Schema()
		} else {
			t.required = append(t.required, name)
			requiredFrags[name] = p.Schema()
		}
	}
	var additionalFrag *jsonschema.Schema
	if additional != nil {
		additionalFrag = additional.Schema()
	}
	s, err := jsonschema.Object(requiredFrags, optionalFrags, additionalFrag)
	if err != nil {
		return nil, err
	}
	val, err := jsonschema.NewValidator(s)
	if err != nil {
		return nil, err
	}
	t.schema = s
	t.validator = val
	return t, nil
}

func (b *Builder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Type) Name() string { return t.name }

// Names returns the declared property names, required first, each
// group in declaration order.
func (t *Type) Names() []string {
	names := make([]string, 0, len(t.required)+len(t.optional))
	names = append(names, t.required...)
	return append(names, t.optional...)
}

// Property returns the declared property under name.
func (t *Type) Property(name string) (property.Property, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// Additional returns the property governing undeclared keys, or nil
// when the type disallows them.
func (t *Type) Additional() property.Property { return t.additional }

// Schema returns the object schema. The result is an independent copy.
func (t *Type) Schema() *jsonschema.Schema { return t.schema.Clone() }

// Validate checks a raw value against the object schema.
func (t *Type) Validate(v any) error { return t.validator.Validate(v) }

func (t *Type) IsValid(v any) bool { return t.Validate(v) == nil }

// New constructs an instance from initial values. Every required
// property must be present. Properties are applied in a fixed order so
// the first failure is deterministic: required then optional in
// declaration order, then the remaining keys sorted.
func (t *Type) New(initial map[string]any) (*Object, error) {
	o := &Object{typ: t, values: make(map[string]any, len(initial))}
	for _, name := range t.required {
		v, ok := initial[name]
		if !ok || jsonmodel.IsAbsent(v) {
			return nil, jsonmodel.Propertyf("type %q requires property %q", t.name, name)
		}
	}
	seen := make(map[string]bool, len(t.byName))
	for _, name := range t.required {
		if err := o.Set(name, initial[name]); err != nil {
			return nil, err
		}
		seen[name] = true
	}
	for _, name := range t.optional {
		if v, ok := initial[name]; ok {
			if err := o.Set(name, v); err != nil {
				return nil, err
			}
		}
		seen[name] = true
	}
	var extras []string
	for k := range initial {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		if err := o.Set(k, initial[k]); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// FromRaw constructs an instance from a decoded JSON object. With
// validate set the raw map is checked against the object schema first,
// which reports failures with schema-level paths.
func (t *Type) FromRaw(raw map[string]any, validate bool) (*Object, error) {
	if validate {
		if err := t.validator.Validate(raw); err != nil {
			return nil, err
		}
	}
	return t.New(raw)
}

// FromJSON decodes JSON text and constructs an instance from it.
func (t *Type) FromJSON(data []byte, validate bool) (*Object, error) {
	decoded, err := jsonmodel.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return t.fromDecoded(decoded, validate)
}

// FromReader decodes one JSON value from r and constructs an instance
// from it.
func (t *Type) FromReader(r io.Reader, validate bool) (*Object, error) {
	decoded, err := jsonmodel.ReadJSON(r)
	if err != nil {
		return nil, err
	}
	return t.fromDecoded(decoded, validate)
}

// FromFile reads the JSON document at path and constructs an instance
// from it.
func (t *Type) FromFile(path string, validate bool) (*Object, error) {
	decoded, err := jsonmodel.LoadJSON(path)
	if err != nil {
		return nil, err
	}
	return t.fromDecoded(decoded, validate)
}

// FromYAML decodes a YAML document and constructs an instance from it.
func (t *Type) FromYAML(data []byte, validate bool) (*Object, error) {
	decoded, err := jsonmodel.DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return t.fromDecoded(decoded, validate)
}

// FromYAMLFile reads the YAML document at path and constructs an
// instance from it.
func (t *Type) FromYAMLFile(path string, validate bool) (*Object, error) {
	decoded, err := jsonmodel.LoadYAML(path)
	if err != nil {
		return nil, err
	}
	return t.fromDecoded(decoded, validate)
}

func (t *Type) fromDecoded(decoded any, validate bool) (*Object, error) {
	raw, ok := decoded.(map[string]any)
	if !ok {
		return nil, jsonschema.Validationf("decoded value is %T, not an object", decoded)
	}
	return t.FromRaw(raw, validate)
}
