package jsonschema

// IsJSONName is the definition name of the any-JSON fragment.
const IsJSONName = "is-json"

// RefString returns the JSON Pointer reference for a named definition.
func RefString(name string) string { return "#/definitions/" + name }

// Ref returns a fragment referencing a named definition.
func Ref(name string) *Schema { return &Schema{Ref: RefString(name)} }

// Extract returns the named definitions of s. With pop the definitions
// are removed from the fragment; without it the live map is returned
// for reading only. Boolean fragments and nil have no definitions.
func Extract(s *Schema, pop bool) map[string]*Schema {
	if s == nil || s.Bool != nil {
		return nil
	}
	defs := s.Definitions
	if pop {
		s.Definitions = nil
	}
	return defs
}

// Consolidate merges the definitions of all fragments into one map.
// The first body seen under a name wins; a later identical body is a
// no-op, a later differing body fails with a RedefinedError naming the
// definition and both bodies. With pop each fragment's definitions are
// removed as they are read.
func Consolidate(pop bool, frags ...*Schema) (map[string]*Schema, error) {
	out := make(map[string]*Schema)
	for _, f := range frags {
		defs := Extract(f, pop)
		for _, name := range sortedKeys(defs) {
			body := defs[name]
			prev, ok := out[name]
			if !ok {
				out[name] = body
				continue
			}
			if !prev.Equal(body) {
				return nil, &RedefinedError{Name: name, Original: prev, Conflict: body}
			}
		}
	}
	return out, nil
}

// IsJSON returns the fragment accepting any valid JSON value: a
// reference to a self-referential named definition covering null,
// booleans, numbers, strings, and arbitrarily nested objects and
// arrays. Each call returns an independent copy.
func IsJSON() *Schema {
	body := &Schema{
		AnyOf: []*Schema{
			Null(),
			Boolean(),
			{Type: "number"},
			{Type: "string"},
			{Type: "object", AdditionalProperties: Ref(IsJSONName)},
			{Type: "array", Items: Ref(IsJSONName)},
		},
	}
	ref := Ref(IsJSONName)
	ref.Definitions = map[string]*Schema{IsJSONName: body}
	return ref
}
