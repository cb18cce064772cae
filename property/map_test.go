package property_test

import (
	"errors"
	"strings"
	"testing"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
	"github.com/reoring/jsonmodel/property"
)

func TestMap_SetGetDelete(t *testing.T) {
	p := property.MapOf(property.Number().Minimum(0).MustBuild()).MustBuild()

	m, err := p.New(map[string]any{"b": 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := m.Set("a", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	err = m.Set("a", -1)
	if !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected value validation on set, got %v", err)
	}
	if !strings.Contains(err.Error(), `key "a"`) {
		t.Fatalf("expected the failing key in the message, got %q", err)
	}
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("a failed set must leave the entry untouched, got v=%v ok=%v", v, ok)
	}

	if err := m.Set("b", jsonmodel.Absent); err != nil {
		t.Fatalf("set absent: %v", err)
	}
	if m.Has("b") {
		t.Fatalf("setting absent must remove the entry")
	}
	m.Delete("a")
	if m.Len() != 0 {
		t.Fatalf("expected an empty map, got %d entries", m.Len())
	}
	if _, ok := m.Get("a"); ok {
		t.Fatalf("deleted key must not resolve")
	}
}

func TestMap_KeysSorted(t *testing.T) {
	p := property.MapOf(property.Number().MustBuild()).MustBuild()
	m, err := p.New(map[string]any{"c": 3, "a": 1, "b": 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	keys := m.Keys()
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

func TestMap_RawJSONAndCopy(t *testing.T) {
	p := property.MapOf(property.Number().MustBuild()).MustBuild()
	m, err := p.New(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	raw, err := m.RawJSON(true)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	entries := raw.(map[string]any)
	entries["a"] = 99
	if v, _ := m.Get("a"); v != 1 {
		t.Fatalf("mutating the projection must not touch the map, got %v", v)
	}

	cp, err := m.JSONCopy(false)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	o := cp.(*property.Map)
	if err := o.Set("b", 2); err != nil {
		t.Fatalf("set on copy: %v", err)
	}
	if m.Len() != 1 || o.Len() != 2 {
		t.Fatalf("copy must be independent, got %d and %d", m.Len(), o.Len())
	}
}

func TestMap_Equal(t *testing.T) {
	p := property.MapOf(property.Number().MustBuild()).MustBuild()
	a, err := p.New(map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := p.New(map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("equal maps must compare equal")
	}
	if err := b.Set("y", 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if a.Equal(b) || a.Equal(nil) {
		t.Fatalf("differing maps must not compare equal")
	}
}

func TestMapProperty_Validation(t *testing.T) {
	p := property.MapOf(property.Number().MustBuild()).MustBuild()

	v, err := p.Validate(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("validate map: %v", err)
	}
	m, ok := v.(*property.Map)
	if !ok {
		t.Fatalf("expected a container, got %T", v)
	}
	v, err = p.Validate(m)
	if err != nil {
		t.Fatalf("validate container: %v", err)
	}
	if v.(*property.Map) != m {
		t.Fatalf("a container of the same property must pass through unchanged")
	}
	if _, err := p.Validate([]any{1}); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected rejection of a non-object, got %v", err)
	}
}

func TestMapProperty_FromJSON(t *testing.T) {
	p := property.MapOf(property.Bool().MustBuild()).MustBuild()

	m, err := p.FromJSON([]byte(`{"on": true, "off": false}`))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if _, err := p.FromJSON([]byte(`[true]`)); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected rejection of a non-object document, got %v", err)
	}
}

func TestMapOf_Nested(t *testing.T) {
	inner := property.ArrayOf(property.Number().MustBuild()).MustBuild()
	p := property.MapOf(inner).MustBuild()

	m, err := p.New(map[string]any{"xs": []any{1, 2}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	v, ok := m.Get("xs")
	if !ok {
		t.Fatalf("expected the entry to resolve")
	}
	if _, ok := v.(*property.Array); !ok {
		t.Fatalf("expected a nested container, got %T", v)
	}

	raw, err := m.RawJSON(true)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	xs := raw.(map[string]any)["xs"].([]any)
	if len(xs) != 2 {
		t.Fatalf("expected the nested container projected, got %v", xs)
	}
}

func TestMapOf_BuildRejections(t *testing.T) {
	if _, err := property.MapOf(nil).Build(); !errors.Is(err, jsonmodel.ErrProperty) {
		t.Fatalf("expected rejection of a nil value property, got %v", err)
	}
	opt := property.Number().Optional().MustBuild()
	if _, err := property.MapOf(opt).Build(); !errors.Is(err, jsonmodel.ErrProperty) {
		t.Fatalf("expected rejection of an optional value property, got %v", err)
	}
}
