package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lokbuch/pkg/lokbuch"
)

const modulePath = "github.com/mesh-intelligence/lokbuch"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lokbuch version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "lokbuch v%s\nmodule: %s\n", lokbuch.Version, modulePath)
			return nil
		},
	}
}
