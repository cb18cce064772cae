package jsonschema

import (
	"bytes"

	j "github.com/goccy/go-json"

	jsonmodel "github.com/reoring/jsonmodel"
)

// Schema is one JSON Schema fragment. The zero value is the empty
// schema, which accepts every instance. A fragment whose Bool field is
// set is the trivial boolean form and marshals as bare true/false.
//
// Fragments are plain values: builders hand out independent copies, and
// Clone produces a deep copy sharing no mutable state.
type Schema struct {
	// Boolean form. When set, every other field is ignored.
	Bool *bool `json:"-"`

	// Core
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`

	// Constant / enumeration
	Const *any  `json:"const,omitempty"`
	Enum  []any `json:"enum,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// Combinators
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	// Named definitions and references
	Ref         string             `json:"$ref,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`
}

// schemaAlias breaks the MarshalJSON/UnmarshalJSON recursion.
type schemaAlias Schema

func (s *Schema) MarshalJSON() ([]byte, error) {
	if s.Bool != nil {
		if *s.Bool {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	}
	return j.Marshal((*schemaAlias)(s))
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		b := true
		*s = Schema{Bool: &b}
		return nil
	case "false":
		b := false
		*s = Schema{Bool: &b}
		return nil
	}
	var a schemaAlias
	if err := j.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Schema(a)
	return nil
}

// Parse decodes a JSON schema document.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := j.Unmarshal(data, s); err != nil {
		return nil, Schemaf("parse schema: %w", err)
	}
	return s, nil
}

// FromRaw converts a decoded JSON value into a schema document.
func FromRaw(raw any) (*Schema, error) {
	data, err := jsonmodel.EncodeJSON(raw)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// IsTrue reports whether s is the trivial accept-everything schema.
func (s *Schema) IsTrue() bool { return s != nil && s.Bool != nil && *s.Bool }

// IsFalse reports whether s is the trivial reject-everything schema.
func (s *Schema) IsFalse() bool { return s != nil && s.Bool != nil && !*s.Bool }

// Clone returns a deep copy of s. A nil receiver clones to nil.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Bool = cloneBool(s.Bool)
	out.Const = cloneConst(s.Const)
	out.Enum = cloneAnySlice(s.Enum)
	out.MinLength = cloneInt(s.MinLength)
	out.MaxLength = cloneInt(s.MaxLength)
	out.Minimum = cloneFloat(s.Minimum)
	out.Maximum = cloneFloat(s.Maximum)
	out.ExclusiveMinimum = cloneFloat(s.ExclusiveMinimum)
	out.ExclusiveMaximum = cloneFloat(s.ExclusiveMaximum)
	out.MultipleOf = cloneFloat(s.MultipleOf)
	out.Properties = cloneSchemaMap(s.Properties)
	out.Required = append([]string(nil), s.Required...)
	out.AdditionalProperties = s.AdditionalProperties.Clone()
	out.Items = s.Items.Clone()
	out.MinItems = cloneInt(s.MinItems)
	out.MaxItems = cloneInt(s.MaxItems)
	out.AllOf = cloneSchemaSlice(s.AllOf)
	out.AnyOf = cloneSchemaSlice(s.AnyOf)
	out.OneOf = cloneSchemaSlice(s.OneOf)
	out.Definitions = cloneSchemaMap(s.Definitions)
	return &out
}

// Equal reports structural equality of two fragments by comparing their
// canonical marshaled forms. Object member order never matters; numeric
// constraint values compare by their JSON rendering.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	a, err := s.MarshalJSON()
	if err != nil {
		return false
	}
	b, err := other.MarshalJSON()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneConst(p *any) *any {
	if p == nil {
		return nil
	}
	v := jsonmodel.DeepCopyRaw(*p)
	return &v
}

func cloneAnySlice(vs []any) []any {
	if vs == nil {
		return nil
	}
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = jsonmodel.DeepCopyRaw(v)
	}
	return out
}

func cloneSchemaMap(m map[string]*Schema) map[string]*Schema {
	if m == nil {
		return nil
	}
	out := make(map[string]*Schema, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

func cloneSchemaSlice(vs []*Schema) []*Schema {
	if vs == nil {
		return nil
	}
	out := make([]*Schema, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}
