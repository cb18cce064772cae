package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/jsonmodel/jsonschema"
	"github.com/reoring/jsonmodel/rules"
)

func newValidateCmd() *cobra.Command {
	var schemaPath string
	var checks []string
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate -s SCHEMA FILE...",
		Short: "Validate instance documents against a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return sysErr(err)
			}
			if err := applyColorMode(cfg.Color); err != nil {
				return userErr(err)
			}

			s, err := loadSchema(schemaPath)
			if err != nil {
				return sysErr(fmt.Errorf("schema %s: %w", schemaPath, err))
			}
			validator, err := jsonschema.NewValidator(s)
			if err != nil {
				return userErr(fmt.Errorf("schema %s: %w", schemaPath, err))
			}

			// Config checks run before flag checks.
			checkRules, err := compileChecks(append(append([]string(nil), cfg.Checks...), checks...))
			if err != nil {
				return userErr(err)
			}

			failed, broken := 0, 0
			for _, path := range args {
				raw, err := decodeFile(path, strict)
				if err != nil {
					broken++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", errLabel("error"), path, err)
					continue
				}
				if err := validateDocument(validator, checkRules, raw); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", errLabel("error"), path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okLabel("ok"), path)
			}
			switch {
			case broken > 0:
				return sysErr(fmt.Errorf("%d of %d documents could not be read", broken, len(args)))
			case failed > 0:
				return userErr(fmt.Errorf("%d of %d documents failed", failed, len(args)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema document to validate against")
	cmd.Flags().StringArrayVar(&checks, "check", nil, "expr predicate run with value bound to the document (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject duplicate object keys in JSON documents")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// compileChecks turns predicate sources into rules named by their
// source text.
func compileChecks(srcs []string) ([]rules.Rule, error) {
	compiled := make([]rules.Rule, 0, len(srcs))
	for _, src := range srcs {
		r, err := rules.Expr(src, src)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, r)
	}
	return compiled, nil
}

// validateDocument runs schema validation and then every check rule
// against the decoded document.
func validateDocument(v *jsonschema.Validator, checkRules []rules.Rule, raw any) error {
	if err := v.Validate(raw); err != nil {
		return err
	}
	viols, err := rules.Apply(raw, checkRules...)
	if err != nil {
		return err
	}
	if len(viols) == 0 {
		return nil
	}
	msgs := make([]string, len(viols))
	for i, viol := range viols {
		msgs[i] = viol.String()
	}
	return fmt.Errorf("check failed: %s", strings.Join(msgs, "; "))
}
