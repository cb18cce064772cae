package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	jsonmodel "github.com/reoring/jsonmodel"
)

const modulePath = "github.com/reoring/jsonmodel"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jsonmodel version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "jsonmodel v%s\nmodule: %s\n", jsonmodel.Version, modulePath)
			return nil
		},
	}
}
