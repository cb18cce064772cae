package jsonschema

import (
	"sort"

	j "github.com/goccy/go-json"

	jsonmodel "github.com/reoring/jsonmodel"
)

// Pointer helpers for constraint structs.

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// True returns the trivial accept-everything schema.
func True() *Schema {
	b := true
	return &Schema{Bool: &b}
}

// False returns the trivial reject-everything schema.
func False() *Schema {
	b := false
	return &Schema{Bool: &b}
}

// Null returns the schema accepting only JSON null.
func Null() *Schema { return &Schema{Type: "null"} }

// Boolean returns the schema accepting only JSON booleans.
func Boolean() *Schema { return &Schema{Type: "boolean"} }

// StringConstraints parameterizes String. Nil pointer fields are
// unconstrained.
type StringConstraints struct {
	MinLength *int
	MaxLength *int
	Pattern   string
	Format    string
}

// String builds a string schema. Negative length bounds and a maximum
// below the minimum are rejected.
func String(c StringConstraints) (*Schema, error) {
	if c.MinLength != nil && *c.MinLength < 0 {
		return nil, Schemaf("string minLength %d is negative", *c.MinLength)
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		return nil, Schemaf("string maxLength %d is negative", *c.MaxLength)
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MaxLength < *c.MinLength {
		return nil, Schemaf("string maxLength %d is below minLength %d", *c.MaxLength, *c.MinLength)
	}
	return &Schema{
		Type:      "string",
		MinLength: cloneInt(c.MinLength),
		MaxLength: cloneInt(c.MaxLength),
		Pattern:   c.Pattern,
		Format:    c.Format,
	}, nil
}

// NumberConstraints parameterizes Number. The exclusive flags select
// the exclusive keyword for the corresponding bound and require that
// bound to be set.
type NumberConstraints struct {
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
	Integer          bool
}

// Number builds a number schema, or an integer schema when Integer is
// set. A maximum below the minimum and a non-positive multiple-of are
// rejected.
func Number(c NumberConstraints) (*Schema, error) {
	if c.ExclusiveMinimum && c.Minimum == nil {
		return nil, Schemaf("exclusive minimum requires a minimum value")
	}
	if c.ExclusiveMaximum && c.Maximum == nil {
		return nil, Schemaf("exclusive maximum requires a maximum value")
	}
	if c.Minimum != nil && c.Maximum != nil && *c.Maximum < *c.Minimum {
		return nil, Schemaf("number maximum %v is below minimum %v", *c.Maximum, *c.Minimum)
	}
	if c.MultipleOf != nil && *c.MultipleOf <= 0 {
		return nil, Schemaf("number multipleOf %v is not positive", *c.MultipleOf)
	}
	s := &Schema{Type: "number", MultipleOf: cloneFloat(c.MultipleOf)}
	if c.Integer {
		s.Type = "integer"
	}
	if c.ExclusiveMinimum {
		s.ExclusiveMinimum = cloneFloat(c.Minimum)
	} else {
		s.Minimum = cloneFloat(c.Minimum)
	}
	if c.ExclusiveMaximum {
		s.ExclusiveMaximum = cloneFloat(c.Maximum)
	} else {
		s.Maximum = cloneFloat(c.Maximum)
	}
	return s, nil
}

// Const builds the schema accepting exactly one value. The value is
// deep-copied.
func Const(v any) *Schema {
	c := jsonmodel.DeepCopyRaw(v)
	return &Schema{Const: &c}
}

// Enum builds the schema accepting any of the given values. Duplicates
// collapse to the first occurrence; an empty value set is rejected.
func Enum(values ...any) (*Schema, error) {
	if len(values) == 0 {
		return nil, Schemaf("enum requires at least one value")
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]any, 0, len(values))
	for _, v := range values {
		key, err := j.Marshal(v)
		if err != nil {
			return nil, Schemaf("enum value %v: %w", v, err)
		}
		if _, dup := seen[string(key)]; dup {
			continue
		}
		seen[string(key)] = struct{}{}
		out = append(out, jsonmodel.DeepCopyRaw(v))
	}
	return &Schema{Enum: out}, nil
}

// ArrayConstraints parameterizes Array. MaxItems nil means unbounded.
type ArrayConstraints struct {
	MinItems int
	MaxItems *int
	Unique   bool
}

// Array builds an array schema over elem. The element fragment is
// cloned and its definitions are folded into the array fragment, so the
// caller's fragment is never mutated. A nil elem means unconstrained
// elements.
func Array(elem *Schema, c ArrayConstraints) (*Schema, error) {
	if c.MinItems < 0 {
		return nil, Schemaf("array minItems %d is negative", c.MinItems)
	}
	if c.MaxItems != nil && *c.MaxItems < 0 {
		return nil, Schemaf("array maxItems %d is negative", *c.MaxItems)
	}
	if c.MaxItems != nil && *c.MaxItems < c.MinItems {
		return nil, Schemaf("array maxItems %d is below minItems %d", *c.MaxItems, c.MinItems)
	}
	s := &Schema{Type: "array", MaxItems: cloneInt(c.MaxItems), UniqueItems: c.Unique}
	if c.MinItems > 0 {
		s.MinItems = Int(c.MinItems)
	}
	if elem != nil && !elem.IsTrue() {
		e := elem.Clone()
		if defs := Extract(e, true); len(defs) > 0 {
			s.Definitions = defs
		}
		s.Items = e
	}
	return s, nil
}

// Object builds a standard object schema from required and optional
// property fragments plus an additional-properties policy:
//
//   - additional == nil: unknown keys are disallowed
//   - additional trivially true: the keyword is omitted (fully open)
//   - anything else: unknown keys validate against the fragment
//
// Every nested fragment is cloned before its definitions are extracted
// and consolidated into the result, so inputs are never mutated. A name
// present in both maps is rejected.
func Object(required, optional map[string]*Schema, additional *Schema) (*Schema, error) {
	reqNames := sortedKeys(required)
	optNames := sortedKeys(optional)
	for _, name := range reqNames {
		if _, dup := optional[name]; dup {
			return nil, Schemaf("property %q is both required and optional", name)
		}
	}

	s := &Schema{Type: "object"}
	props := make(map[string]*Schema, len(required)+len(optional))
	frags := make([]*Schema, 0, len(required)+len(optional)+1)
	add := func(name string, sub *Schema) error {
		if sub == nil {
			return Schemaf("property %q has a nil schema", name)
		}
		cl := sub.Clone()
		props[name] = cl
		frags = append(frags, cl)
		return nil
	}
	for _, name := range reqNames {
		if err := add(name, required[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range optNames {
		if err := add(name, optional[name]); err != nil {
			return nil, err
		}
	}

	switch {
	case additional == nil:
		s.AdditionalProperties = False()
	case additional.IsTrue():
		// Omitted keyword already means "anything goes".
	default:
		cl := additional.Clone()
		frags = append(frags, cl)
		s.AdditionalProperties = cl
	}

	defs, err := Consolidate(true, frags...)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		s.Properties = props
	}
	if len(reqNames) > 0 {
		s.Required = reqNames
	}
	if len(defs) > 0 {
		s.Definitions = defs
	}
	return s, nil
}

// AllOf builds the conjunction of at least two sub-schemas.
func AllOf(subs ...*Schema) (*Schema, error) { return ofSchema("allOf", subs) }

// AnyOf builds the disjunction of at least two sub-schemas.
func AnyOf(subs ...*Schema) (*Schema, error) { return ofSchema("anyOf", subs) }

// OneOf builds the exclusive disjunction of at least two sub-schemas.
func OneOf(subs ...*Schema) (*Schema, error) { return ofSchema("oneOf", subs) }

func ofSchema(keyword string, subs []*Schema) (*Schema, error) {
	if len(subs) < 2 {
		return nil, Schemaf("%s requires at least two sub-schemas, got %d", keyword, len(subs))
	}
	clones := make([]*Schema, len(subs))
	for i, sub := range subs {
		if sub == nil {
			return nil, Schemaf("%s sub-schema %d is nil", keyword, i)
		}
		clones[i] = sub.Clone()
	}
	defs, err := Consolidate(true, clones...)
	if err != nil {
		return nil, err
	}
	s := &Schema{}
	switch keyword {
	case "allOf":
		s.AllOf = clones
	case "anyOf":
		s.AnyOf = clones
	case "oneOf":
		s.OneOf = clones
	}
	if len(defs) > 0 {
		s.Definitions = defs
	}
	return s, nil
}

func sortedKeys(m map[string]*Schema) []string {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
