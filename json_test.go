package jsonmodel_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsonmodel "github.com/reoring/jsonmodel"
)

func TestDecodeJSON_Numbers(t *testing.T) {
	v, err := jsonmodel.DecodeJSON([]byte(`{"n": 12345678901234567890, "f": 0.1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(map[string]any)
	n, ok := m["n"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", m["n"])
	}
	if n.String() != "12345678901234567890" {
		t.Fatalf("number text lost precision: %s", n)
	}
}

func TestDecodeJSON_TrailingData(t *testing.T) {
	_, err := jsonmodel.DecodeJSON([]byte(`{"a":1} {"b":2}`))
	if !errors.Is(err, jsonmodel.ErrSerialization) {
		t.Fatalf("expected serialization error for trailing data, got %v", err)
	}
	_, err = jsonmodel.DecodeJSON([]byte(`{"a":`))
	if !errors.Is(err, jsonmodel.ErrSerialization) {
		t.Fatalf("expected serialization error for truncated input, got %v", err)
	}
}

func TestEncodeJSON_RoundTrip(t *testing.T) {
	src := map[string]any{"a": json.Number("1.5"), "b": []any{"x", nil, true}}
	data, err := jsonmodel.EncodeJSON(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := jsonmodel.DecodeJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !jsonmodel.EqualRaw(src, back) {
		t.Fatalf("round trip changed the value: %s", data)
	}
}

func TestWriteReadJSON(t *testing.T) {
	var buf bytes.Buffer
	src := map[string]any{"k": "v"}
	if err := jsonmodel.WriteJSON(&buf, src); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatalf("expected trailing newline, got %q", buf.String())
	}
	back, err := jsonmodel.ReadJSON(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !jsonmodel.EqualRaw(src, back) {
		t.Fatalf("round trip changed the value")
	}
}

func TestLoadSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	src := map[string]any{"n": json.Number("42")}
	if err := jsonmodel.SaveJSON(path, src); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := jsonmodel.LoadJSON(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !jsonmodel.EqualRaw(src, back) {
		t.Fatalf("file round trip changed the value")
	}

	if _, err := jsonmodel.LoadJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, jsonmodel.ErrSerialization) {
		t.Fatalf("expected serialization error for missing file, got %v", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := []byte("name: demo\ncount: 3\ntags:\n  - a\n  - b\nnested:\n  ok: true\n")
	v, err := jsonmodel.DecodeYAML(doc)
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	want := map[string]any{
		"name":   "demo",
		"count":  3,
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"ok": true},
	}
	if !jsonmodel.EqualRaw(v, want) {
		t.Fatalf("decoded yaml = %#v", v)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte("k: v\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	v, err := jsonmodel.LoadYAML(path)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if !jsonmodel.EqualRaw(v, map[string]any{"k": "v"}) {
		t.Fatalf("loaded yaml = %#v", v)
	}
}
