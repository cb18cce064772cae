package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/object"
	"github.com/reoring/jsonmodel/property"
	"github.com/reoring/jsonmodel/rules"
)

// configType declares the full configuration surface. Range and enum
// constraints live in the schema; cross-field policies are rules.
func configType() *object.Type {
	tls := object.NewType("TLS").
		Add("enabled", property.Bool().Optional().Default(false).MustBuild()).
		Add("certFile", property.String().Optional().Default("").MustBuild()).
		Add("keyFile", property.String().Optional().Default("").MustBuild()).
		NoAdditional().
		MustBuild()

	app := object.NewType("App").
		Add("name", property.String().MinLength(1).MustBuild()).
		Add("environment", property.Enum("development", "staging", "production").
			Optional().Default("development").MustBuild()).
		Add("host", property.String().Optional().Default("0.0.0.0").MustBuild()).
		Add("port", property.Number().Integer().Minimum(1).Maximum(65535).
			Optional().Default(8080).MustBuild()).
		Add("tls", tls.AsProperty().Optional().Default(map[string]any{}).MustBuild()).
		NoAdditional().
		MustBuild()

	database := object.NewType("Database").
		Add("host", property.String().MinLength(1).MustBuild()).
		Add("port", property.Number().Integer().Minimum(1).Maximum(65535).
			Optional().Default(5432).MustBuild()).
		Add("name", property.String().MinLength(1).MustBuild()).
		Add("username", property.String().MinLength(1).MustBuild()).
		Add("password", property.String().Optional().Default("").MustBuild()).
		Add("maxConns", property.Number().Integer().Minimum(1).Optional().Default(10).MustBuild()).
		Add("maxIdleConns", property.Number().Integer().Minimum(0).Optional().Default(5).MustBuild()).
		Add("sslMode", property.Enum("disable", "prefer", "require").
			Optional().Default("prefer").MustBuild()).
		NoAdditional().
		MustBuild()

	logging := object.NewType("Logging").
		Add("level", property.Enum("debug", "info", "warn", "error").
			Optional().Default("info").MustBuild()).
		Add("format", property.Enum("json", "text").Optional().Default("json").MustBuild()).
		Add("output", property.String().Optional().Default("stdout").MustBuild()).
		NoAdditional().
		MustBuild()

	features := object.NewType("Features").
		Add("analytics", property.Bool().Optional().Default(true).MustBuild()).
		Add("debugging", property.Bool().Optional().Default(false).MustBuild()).
		NoAdditional().
		MustBuild()

	return object.NewType("Config").
		Add("app", app.AsProperty().MustBuild()).
		Add("database", database.AsProperty().MustBuild()).
		Add("logging", logging.AsProperty().Optional().Default(map[string]any{}).MustBuild()).
		Add("features", features.AsProperty().Optional().Default(map[string]any{}).MustBuild()).
		NoAdditional().
		MustBuild()
}

type manager struct {
	typ    *object.Type
	checks []rules.Rule
}

func newManager() (*manager, error) {
	tlsFiles, err := rules.Expr("tls_files",
		`not value.app.tls.enabled or (value.app.tls.certFile != "" and value.app.tls.keyFile != "")`)
	if err != nil {
		return nil, err
	}
	dbPool, err := rules.Expr("db_pool",
		`value.database.maxConns >= value.database.maxIdleConns`)
	if err != nil {
		return nil, err
	}
	return &manager{
		typ:    configType(),
		checks: []rules.Rule{tlsFiles, dbPool},
	}, nil
}

// load reads base.yaml, overlays <env>.yaml when present, expands
// ${VAR} and ${VAR:-default} references, and validates the merged
// document.
func (m *manager) load(env string) (*object.Object, error) {
	base, err := readConfigFile("base.yaml")
	if err != nil {
		return nil, err
	}
	merged := base
	envFile := env + ".yaml"
	if _, err := os.Stat(envFile); err == nil {
		overlay, err := readConfigFile(envFile)
		if err != nil {
			return nil, err
		}
		merged = mergeRaw(base, overlay)
	}
	return m.typ.FromRaw(merged, true)
}

func readConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := jsonmodel.DecodeYAML(expandEnv(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: document is %T, not a mapping", path, decoded)
	}
	return doc, nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv substitutes ${VAR} with the environment value and
// ${VAR:-default} with the value or the default when unset.
func expandEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		ref := string(match[2 : len(match)-1])
		name, fallback, hasFallback := strings.Cut(ref, ":-")
		if v := os.Getenv(name); v != "" {
			return []byte(v)
		}
		if hasFallback {
			return []byte(fallback)
		}
		return nil
	})
}

// mergeRaw overlays override onto base. Mappings merge recursively;
// any other value replaces the base value outright.
func mergeRaw(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		bm, baseIsMap := out[k].(map[string]any)
		om, overrideIsMap := v.(map[string]any)
		if baseIsMap && overrideIsMap {
			out[k] = mergeRaw(bm, om)
			continue
		}
		out[k] = v
	}
	return out
}

// effective materializes the configuration with every default
// resolved, which the plain RawJSON projection deliberately skips.
func effective(o *object.Object) (map[string]any, error) {
	out := make(map[string]any)
	for _, name := range o.Names() {
		v, err := o.Get(name)
		if err != nil {
			return nil, err
		}
		if jsonmodel.IsAbsent(v) {
			continue
		}
		switch t := v.(type) {
		case *object.Object:
			nested, err := effective(t)
			if err != nil {
				return nil, err
			}
			out[name] = nested
		case jsonmodel.Value:
			raw, err := t.RawJSON(false)
			if err != nil {
				return nil, err
			}
			out[name] = raw
		default:
			out[name] = v
		}
	}
	return out, nil
}

func (m *manager) validate(env string) error {
	cfg, err := m.load(env)
	if err != nil {
		return err
	}
	doc, err := effective(cfg)
	if err != nil {
		return err
	}
	viols, err := rules.Apply(doc, m.checks...)
	if err != nil {
		return err
	}
	if len(viols) > 0 {
		for _, v := range viols {
			fmt.Fprintln(os.Stderr, "violation:", v)
		}
		return fmt.Errorf("%d check(s) failed", len(viols))
	}
	fmt.Printf("configuration for %q is valid\n", env)
	return nil
}

var secretPaths = [][]string{
	{"database", "password"},
	{"app", "tls", "keyFile"},
}

func maskSecrets(doc map[string]any) {
	for _, path := range secretPaths {
		cur := doc
		reached := true
		for _, seg := range path[:len(path)-1] {
			next, isMap := cur[seg].(map[string]any)
			if !isMap {
				reached = false
				break
			}
			cur = next
		}
		if !reached {
			continue
		}
		leaf := path[len(path)-1]
		if s, isString := cur[leaf].(string); isString && s != "" {
			cur[leaf] = "***"
		}
	}
}

func (m *manager) show(env string, mask bool) error {
	cfg, err := m.load(env)
	if err != nil {
		return err
	}
	doc, err := effective(cfg)
	if err != nil {
		return err
	}
	if mask {
		maskSecrets(doc)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Printf("# effective configuration for %q\n", env)
	fmt.Print(string(data))
	return nil
}

func (m *manager) schema() error {
	data, err := jsonmodel.EncodeJSONIndent(m.typ.Schema(), "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var templates = map[string]string{
	"base.yaml": `# shared settings for every environment
app:
  name: "my-service"
  port: 8080

database:
  host: "localhost"
  name: "myapp"
  username: "postgres"
  password: "${DB_PASSWORD:-}"
`,
	"development.yaml": `# development overrides
app:
  environment: "development"
  port: 3000

database:
  sslMode: "disable"

logging:
  level: "debug"

features:
  debugging: true
`,
	"production.yaml": `# production overrides
app:
  environment: "production"
  port: 443
  tls:
    enabled: true
    certFile: "${TLS_CERT_FILE}"
    keyFile: "${TLS_KEY_FILE}"

database:
  host: "${DB_HOST}"
  password: "${DB_PASSWORD}"
  maxConns: 50
  maxIdleConns: 10
  sslMode: "require"

logging:
  level: "warn"
`,
}

func writeTemplates() error {
	for name, content := range templates {
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			return err
		}
		fmt.Println("wrote", name)
	}
	return nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	m, err := newManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		err = m.validate(envFlag())
	case "show":
		err = m.show(envFlag(), !boolFlag("--no-mask"))
	case "schema":
		err = m.schema()
	case "template":
		err = writeTemplates()
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
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  validate [--env=<env>]          check the configuration for an environment
  show [--env=<env>] [--no-mask]  print the effective configuration as YAML
  schema                          print the configuration schema as JSON
  template                        write starter configuration files

Environment files:
  base.yaml     shared settings, required
  <env>.yaml    per-environment overrides, optional
`, os.Args[0])
}

func envFlag() string {
	for _, arg := range os.Args[2:] {
		if v, ok := strings.CutPrefix(arg, "--env="); ok {
			return v
		}
	}
	return "development"
}

func boolFlag(flag string) bool {
	for _, arg := range os.Args[2:] {
		if arg == flag {
			return true
		}
	}
	return false
}
