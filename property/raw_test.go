package property_test

import (
	"encoding/json"
	"errors"
	"testing"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
	"github.com/reoring/jsonmodel/property"
)

func TestString_Validation(t *testing.T) {
	p := property.String().MinLength(2).Pattern("^[a-z]+$").MustBuild()

	v, err := p.Validate("abc")
	if err != nil || v != "abc" {
		t.Fatalf("expected valid string back, got v=%v err=%v", v, err)
	}
	if _, err := p.Validate("a"); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for short string, got %v", err)
	}
	if _, err := p.Validate("ABC"); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for pattern mismatch, got %v", err)
	}
	if _, err := p.Validate(1); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for wrong type, got %v", err)
	}
}

func TestNumber_Validation(t *testing.T) {
	p := property.Number().Minimum(0).Maximum(10).ExclusiveMaximum().MustBuild()

	if _, err := p.Validate(json.Number("9.5")); err != nil {
		t.Fatalf("9.5 should validate: %v", err)
	}
	if _, err := p.Validate(json.Number("10")); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected exclusive maximum to reject 10, got %v", err)
	}
	if _, err := p.Validate(-1); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected minimum to reject -1, got %v", err)
	}

	integer := property.Number().Integer().MustBuild()
	if _, err := integer.Validate(json.Number("3")); err != nil {
		t.Fatalf("3 should be an integer: %v", err)
	}
	if _, err := integer.Validate(json.Number("3.5")); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected integer to reject 3.5, got %v", err)
	}
}

func TestBool_Validation(t *testing.T) {
	p := property.Bool().MustBuild()
	if v, err := p.Validate(true); err != nil || v != true {
		t.Fatalf("expected bool back, got v=%v err=%v", v, err)
	}
	if _, err := p.Validate("true"); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for string, got %v", err)
	}
}

func TestEnum_Validation(t *testing.T) {
	p := property.Enum("red", "green", "blue").MustBuild()
	if _, err := p.Validate("green"); err != nil {
		t.Fatalf("green should validate: %v", err)
	}
	if _, err := p.Validate("yellow"); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for value outside enum, got %v", err)
	}

	if _, err := property.Enum().Build(); !errors.Is(err, jsonschema.ErrSchema) {
		t.Fatalf("expected schema error for empty enum, got %v", err)
	}
}

func TestConst_Validation(t *testing.T) {
	p := property.Const(json.Number("42")).MustBuild()
	if _, err := p.Validate(json.Number("42")); err != nil {
		t.Fatalf("42 should validate: %v", err)
	}
	if _, err := p.Validate(json.Number("41")); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for other value, got %v", err)
	}
}

func TestAnyJSON_AcceptsEverything(t *testing.T) {
	p := property.AnyJSON().MustBuild()
	values := []any{nil, true, "s", json.Number("1.5"),
		[]any{1, map[string]any{"deep": []any{nil}}},
		map[string]any{"k": "v"}}
	for _, v := range values {
		if _, err := p.Validate(v); err != nil {
			t.Errorf("any-JSON rejected %#v: %v", v, err)
		}
	}
}

func TestRaw_RejectsNonRawValues(t *testing.T) {
	p := property.AnyJSON().MustBuild()
	if _, err := p.Validate(struct{}{}); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for non-raw value, got %v", err)
	}
	if _, err := p.Validate([]int{1, 2}); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for typed slice, got %v", err)
	}
}

func TestRaw_CustomFragment(t *testing.T) {
	frag, err := jsonschema.String(jsonschema.StringConstraints{Format: "ipv4"})
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	p, err := property.Raw(frag).Named("addr").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Name() != "addr" {
		t.Fatalf("Name() = %q", p.Name())
	}
	if p.Schema().Format != "ipv4" {
		t.Fatalf("schema lost the format")
	}

	if _, err := property.Raw(nil).Build(); !errors.Is(err, jsonschema.ErrSchema) {
		t.Fatalf("expected schema error for nil fragment, got %v", err)
	}

	// The fragment was cloned at build time.
	frag.Format = "email"
	if p.Schema().Format != "ipv4" {
		t.Fatalf("property aliases the caller's fragment")
	}
}

func TestValidate_ReturnsInputUnchanged(t *testing.T) {
	p := property.AnyJSON().MustBuild()
	src := map[string]any{"k": []any{1}}
	v, err := p.Validate(src)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !jsonmodel.EqualRaw(v, src) {
		t.Fatalf("validated output differs from input")
	}
}
