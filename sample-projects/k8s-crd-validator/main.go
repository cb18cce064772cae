package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

const (
	crdFile = "widget-crd.yaml"
	crdKind = "Widget"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: %s validate <file|->\n", os.Args[0])
			os.Exit(1)
		}
		err = validateResource(os.Args[2])
	case "schema":
		err = showSchema()
	case "demo":
		err = runDemo()
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [args]

Commands:
  validate <file|->  validate a %s resource from a file or stdin
  schema             print the schema extracted from the CRD
  demo               validate the bundled sample resources
`, os.Args[0], crdKind)
}

// loadValidator extracts the served schema for the CRD's kind and
// compiles it. Kubernetes extension keywords (x-kubernetes-*) carry no
// JSON Schema meaning and are dropped during extraction.
func loadValidator() (*jsonschema.Validator, error) {
	doc, err := jsonmodel.LoadYAML(crdFile)
	if err != nil {
		return nil, err
	}
	raw, err := crdSchemaFor(doc, crdKind)
	if err != nil {
		return nil, err
	}
	s, err := jsonschema.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return jsonschema.NewValidator(s)
}

// crdSchemaFor walks a decoded CustomResourceDefinition to the
// openAPIV3Schema of its storage version, checking the document
// declares the expected kind.
func crdSchemaFor(doc any, kind string) (any, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("CRD document is %T, not a mapping", doc)
	}
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil, errors.New("CRD has no spec mapping")
	}
	names, _ := spec["names"].(map[string]any)
	if got, _ := names["kind"].(string); got != kind {
		return nil, fmt.Errorf("CRD declares kind %q, want %q", got, kind)
	}
	versions, ok := spec["versions"].([]any)
	if !ok || len(versions) == 0 {
		return nil, errors.New("CRD declares no versions")
	}
	chosen, _ := versions[0].(map[string]any)
	for _, v := range versions {
		ver, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if storage, _ := ver["storage"].(bool); storage {
			chosen = ver
			break
		}
	}
	schema, ok := chosen["schema"].(map[string]any)
	if !ok {
		return nil, errors.New("CRD version declares no schema")
	}
	open, ok := schema["openAPIV3Schema"]
	if !ok {
		return nil, errors.New("CRD version has no openAPIV3Schema")
	}
	return open, nil
}

func validateResource(path string) error {
	v, err := loadValidator()
	if err != nil {
		return err
	}

	var doc any
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		doc, err = jsonmodel.DecodeYAML(data)
		if err != nil {
			return err
		}
	} else {
		doc, err = jsonmodel.LoadYAML(path)
		if err != nil {
			return err
		}
	}

	if err := v.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) && ve.Path != "" {
			return fmt.Errorf("resource is invalid at %s: %w", ve.Path, err)
		}
		return fmt.Errorf("resource is invalid: %w", err)
	}

	name := resourceName(doc)
	if name == "" {
		name = path
	}
	fmt.Printf("%s is a valid %s\n", name, crdKind)
	return nil
}

func resourceName(doc any) string {
	root, _ := doc.(map[string]any)
	meta, _ := root["metadata"].(map[string]any)
	name, _ := meta["name"].(string)
	return name
}

func showSchema() error {
	v, err := loadValidator()
	if err != nil {
		return err
	}
	data, err := jsonmodel.EncodeJSONIndent(v.Schema(), "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runDemo() error {
	for _, path := range []string{"valid-widget.yaml", "invalid-widget.yaml"} {
		fmt.Println("validating", path)
		if err := validateResource(path); err != nil {
			fmt.Println(" ", err)
		}
	}
	return nil
}
