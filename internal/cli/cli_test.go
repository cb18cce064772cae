package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsonmodel "github.com/reoring/jsonmodel"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected an exit-coded error, got %v", err)
	}
	return ee.code
}

func TestVersion_Output(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, jsonmodel.Version) {
		t.Fatalf("expected the version in the output, got %q", out)
	}
}

func TestCheck_ReportsOK(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\n")
	good := writeFile(t, dir, "good.json", `{"type": "string", "minLength": 1}`)
	asYAML := writeFile(t, dir, "good.yaml", "type: number\nminimum: 0\n")

	out, err := runCLI(t, "--config", cfg, "check", good, asYAML)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if strings.Count(out, "ok ") != 2 {
		t.Fatalf("expected both documents reported ok, got %q", out)
	}
}

func TestCheck_ReportsCompileFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\n")
	good := writeFile(t, dir, "good.json", `{"type": "string"}`)
	bad := writeFile(t, dir, "bad.json", `{"type": "string", "pattern": "("}`)

	out, err := runCLI(t, "--config", cfg, "check", good, bad)
	if code := exitCode(t, err); code != exitUserError {
		t.Fatalf("expected exit code %d, got %d", exitUserError, code)
	}
	if !strings.Contains(out, "ok "+good) || !strings.Contains(out, "error "+bad) {
		t.Fatalf("expected a per-document report, got %q", out)
	}
}

func TestCheck_ReportsUnreadable(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\n")
	missing := filepath.Join(dir, "missing.json")

	out, err := runCLI(t, "--config", cfg, "check", missing)
	if code := exitCode(t, err); code != exitSysError {
		t.Fatalf("expected exit code %d, got %d\n%s", exitSysError, code, out)
	}
}

func TestValidate_Documents(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\n")
	schema := writeFile(t, dir, "schema.json",
		`{"type": "object", "required": ["count"], "properties": {"count": {"type": "number"}}}`)
	good := writeFile(t, dir, "good.json", `{"count": 3}`)
	asYAML := writeFile(t, dir, "good.yaml", "count: 4\n")
	bad := writeFile(t, dir, "bad.json", `{"count": "three"}`)

	out, err := runCLI(t, "--config", cfg, "validate", "-s", schema, good, asYAML)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}

	out, err = runCLI(t, "--config", cfg, "validate", "-s", schema, good, bad)
	if code := exitCode(t, err); code != exitUserError {
		t.Fatalf("expected exit code %d, got %d", exitUserError, code)
	}
	if !strings.Contains(out, "error "+bad) {
		t.Fatalf("expected the failing document reported, got %q", out)
	}

	_, err = runCLI(t, "--config", cfg, "validate", "-s", schema, filepath.Join(dir, "missing.json"))
	if code := exitCode(t, err); code != exitSysError {
		t.Fatalf("expected exit code %d, got %d", exitSysError, code)
	}
}

func TestValidate_BadSchemaPath(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\n")
	doc := writeFile(t, dir, "doc.json", `{}`)

	_, err := runCLI(t, "--config", cfg, "validate", "-s", filepath.Join(dir, "missing.json"), doc)
	if code := exitCode(t, err); code != exitSysError {
		t.Fatalf("expected exit code %d, got %d", exitSysError, code)
	}
}

func TestValidate_Checks(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\n")
	schema := writeFile(t, dir, "schema.json", `{"type": "object"}`)
	doc := writeFile(t, dir, "doc.json", `{"count": 3, "name": "a"}`)

	out, err := runCLI(t, "--config", cfg, "validate", "-s", schema,
		"--check", `value.count == 3`,
		"--check", `value.name == "a"`,
		doc)
	if err != nil {
		t.Fatalf("checks must pass: %v\n%s", err, out)
	}

	out, err = runCLI(t, "--config", cfg, "validate", "-s", schema,
		"--check", `value.count > 5`, doc)
	if code := exitCode(t, err); code != exitUserError {
		t.Fatalf("expected exit code %d, got %d", exitUserError, code)
	}
	if !strings.Contains(out, "value.count > 5") {
		t.Fatalf("expected the failing predicate reported, got %q", out)
	}

	_, err = runCLI(t, "--config", cfg, "validate", "-s", schema,
		"--check", `value.count +`, doc)
	if code := exitCode(t, err); code != exitUserError {
		t.Fatalf("a broken predicate is a usage error, got %v", err)
	}
}

func TestValidate_ConfigChecks(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\nchecks:\n  - value.count >= 0\n")
	schema := writeFile(t, dir, "schema.json", `{"type": "object"}`)
	good := writeFile(t, dir, "good.json", `{"count": 1}`)
	bad := writeFile(t, dir, "bad.json", `{"count": -1}`)

	if out, err := runCLI(t, "--config", cfg, "validate", "-s", schema, good); err != nil {
		t.Fatalf("config check must pass: %v\n%s", err, out)
	}
	_, err := runCLI(t, "--config", cfg, "validate", "-s", schema, bad)
	if code := exitCode(t, err); code != exitUserError {
		t.Fatalf("expected exit code %d, got %d", exitUserError, code)
	}
}

func TestValidate_Strict(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\n")
	schema := writeFile(t, dir, "schema.json", `{"type": "object"}`)
	doc := writeFile(t, dir, "dup.json", `{"count": 1, "count": 2}`)

	if out, err := runCLI(t, "--config", cfg, "validate", "-s", schema, doc); err != nil {
		t.Fatalf("without --strict the last key wins: %v\n%s", err, out)
	}

	out, err := runCLI(t, "--config", cfg, "validate", "-s", schema, "--strict", doc)
	if code := exitCode(t, err); code != exitSysError {
		t.Fatalf("expected exit code %d, got %d\n%s", exitSysError, code, out)
	}
	if !strings.Contains(out, "duplicate key") || !strings.Contains(out, "/count") {
		t.Fatalf("expected the duplicate key reported, got %q", out)
	}
}

func TestLoadConfig_BadColorMode(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: sometimes\n")
	schema := writeFile(t, dir, "schema.json", `{"type": "object"}`)

	_, err := runCLI(t, "--config", cfg, "validate", "-s", schema, schema)
	if code := exitCode(t, err); code != exitUserError {
		t.Fatalf("expected exit code %d, got %d", exitUserError, code)
	}
	if !strings.Contains(err.Error(), "invalid color mode") {
		t.Fatalf("expected the color mode complaint, got %v", err)
	}
}
