package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lokbuch/internal/paths"
	"github.com/mesh-intelligence/lokbuch/internal/resman"
)

func newInitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize lokbuch storage",
		Long:  "Write config.yaml if it is missing and create the catalog database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := writeConfigIfMissing(s.configDir, configFile{
				Backend:  s.backend,
				DataDir:  s.dataDir,
				LogLevel: defaultLogLevel,
			})
			if err != nil {
				return sysError(err)
			}

			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", paths.ConfigFile(s.configDir))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Lokbuch initialized in %s (%d loks)\n", s.dataDir, m.Count())
				return nil
			})
		},
	}
}
