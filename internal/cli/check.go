package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	jsonmodel "github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/jsonschema"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Compile schema documents and report problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return sysErr(err)
			}
			if err := applyColorMode(cfg.Color); err != nil {
				return userErr(err)
			}

			failed, broken := 0, 0
			for _, path := range args {
				s, err := loadSchema(path)
				if err == nil {
					err = jsonschema.Check(s)
				}
				if err != nil {
					if errors.Is(err, jsonmodel.ErrSerialization) {
						broken++
					} else {
						failed++
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", errLabel("error"), path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okLabel("ok"), path)
			}
			switch {
			case broken > 0:
				return sysErr(fmt.Errorf("%d of %d schema documents could not be read", broken, len(args)))
			case failed > 0:
				return userErr(fmt.Errorf("%d of %d schema documents failed", failed, len(args)))
			}
			return nil
		},
	}
}

// loadSchema reads path (JSON, or YAML by extension) and parses it as
// a schema document.
func loadSchema(path string) (*jsonschema.Schema, error) {
	raw, err := decodeFile(path, false)
	if err != nil {
		return nil, err
	}
	return jsonschema.FromRaw(raw)
}
