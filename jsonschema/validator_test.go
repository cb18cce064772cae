package jsonschema_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/reoring/jsonmodel/jsonschema"
)

func TestNewValidator_CompileError(t *testing.T) {
	s, err := jsonschema.String(jsonschema.StringConstraints{Pattern: "("})
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	if err := jsonschema.Check(s); !errors.Is(err, jsonschema.ErrSchema) {
		t.Fatalf("expected schema error for broken pattern, got %v", err)
	}
}

func TestValidator_Validate(t *testing.T) {
	s, err := jsonschema.String(jsonschema.StringConstraints{MinLength: jsonschema.Int(2)})
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	v, err := jsonschema.NewValidator(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if err := v.Validate("ok"); err != nil {
		t.Fatalf("expected valid instance, got %v", err)
	}
	err = v.Validate("x")
	if !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if errors.Is(err, jsonschema.ErrSchema) {
		t.Fatalf("instance failure must not be a schema error")
	}
	if !v.IsValid("ok") || v.IsValid(1) {
		t.Fatalf("IsValid disagrees with Validate")
	}
}

func TestValidator_FailurePath(t *testing.T) {
	s, err := jsonschema.Object(
		map[string]*jsonschema.Schema{"name": {Type: "string"}},
		nil,
		jsonschema.True(),
	)
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	v, err := jsonschema.NewValidator(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	err = v.Validate(map[string]any{"name": 1})
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if ve.Path != "/name" {
		t.Fatalf("deepest failing location = %q", ve.Path)
	}
}

func TestValidator_NumberRepresentations(t *testing.T) {
	s, err := jsonschema.Number(jsonschema.NumberConstraints{MultipleOf: jsonschema.Float(3)})
	if err != nil {
		t.Fatalf("number: %v", err)
	}
	v, err := jsonschema.NewValidator(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for _, instance := range []any{json.Number("15"), 15, float64(15)} {
		if err := v.Validate(instance); err != nil {
			t.Errorf("expected %T %v to validate, got %v", instance, instance, err)
		}
	}
	if err := v.Validate(json.Number("16")); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for 16, got %v", err)
	}
}

func TestValidator_NilSchema(t *testing.T) {
	v, err := jsonschema.NewValidator(nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, instance := range []any{nil, true, "s", 1, []any{1}, map[string]any{"k": "v"}} {
		if err := v.Validate(instance); err != nil {
			t.Errorf("trivial schema rejected %v: %v", instance, err)
		}
	}
}

func TestValidator_IsJSONResolvesRefs(t *testing.T) {
	v, err := jsonschema.NewValidator(jsonschema.IsJSON())
	if err != nil {
		t.Fatalf("compile any-JSON fragment: %v", err)
	}
	nested := map[string]any{
		"a": []any{1, "two", nil, map[string]any{"deep": true}},
		"b": map[string]any{"c": []any{[]any{json.Number("0.5")}}},
	}
	if err := v.Validate(nested); err != nil {
		t.Fatalf("any-JSON fragment rejected nested value: %v", err)
	}
}

func TestValidator_SchemaCopy(t *testing.T) {
	s, _ := jsonschema.String(jsonschema.StringConstraints{MinLength: jsonschema.Int(1)})
	v, err := jsonschema.NewValidator(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := v.Schema()
	got.Type = "number"
	if v.Schema().Type != "string" {
		t.Fatalf("Schema() exposes internal state")
	}
}

func TestValidate_OneShot(t *testing.T) {
	s, _ := jsonschema.Number(jsonschema.NumberConstraints{Minimum: jsonschema.Float(0)})
	if err := jsonschema.Validate(s, 5); err != nil {
		t.Fatalf("one-shot validate: %v", err)
	}
	if err := jsonschema.Validate(s, -1); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if jsonschema.IsValid(s, -1) || !jsonschema.IsValid(s, 0) {
		t.Fatalf("IsValid disagrees with Validate")
	}
}

func TestValidator_FormatAsserted(t *testing.T) {
	s, err := jsonschema.String(jsonschema.StringConstraints{Format: "ipv4"})
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	v, err := jsonschema.NewValidator(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := v.Validate("127.0.0.1"); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}
	if err := v.Validate("999.1.1.1"); !errors.Is(err, jsonschema.ErrValidation) {
		t.Fatalf("expected validation error for bad address, got %v", err)
	}
}
