// Package cli implements the jsonmodel command-line interface.
package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	jsonmodel "github.com/reoring/jsonmodel"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error { return &exitError{code: exitUserError, err: err} }
func sysErr(err error) error  { return &exitError{code: exitSysError, err: err} }

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configFile string
}

var flags rootFlags

var (
	okLabel  = color.New(color.FgGreen).SprintfFunc()
	errLabel = color.New(color.FgRed).SprintfFunc()
)

// NewRootCmd creates the top-level "jsonmodel" command with global
// flags and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jsonmodel",
		Short: "Schema and document validation tooling",
		Long: "Jsonmodel compiles JSON Schema documents and validates JSON or\n" +
			"YAML instance documents against them.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: .jsonmodel.yaml)")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		code := exitUserError
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		os.Exit(code)
	}
}

// decodeFile reads path and decodes it, as YAML when the extension
// says so and as JSON otherwise. strict rejects duplicate object keys
// in JSON documents; YAML rejects them on its own.
func decodeFile(path string, strict bool) (any, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return jsonmodel.LoadYAML(path)
	default:
		if strict {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, jsonmodel.Serializationf("load %s: %w", path, err)
			}
			return jsonmodel.DecodeJSONStrict(data)
		}
		return jsonmodel.LoadJSON(path)
	}
}
