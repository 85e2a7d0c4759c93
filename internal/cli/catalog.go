package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lokbuch/internal/archive"
	"github.com/mesh-intelligence/lokbuch/internal/resman"
)

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all loks in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				return s.printPreviews(cmd.OutOrStdout(), m.AllPreviews())
			})
		},
	}
}

func newSearchCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "List loks whose address, name or short name contains query",
		Long:  "List loks whose address, name or short name contains query. Matching ignores case.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				m.SearchAndStore(strings.ToLower(args[0]))
				return s.printPreviews(cmd.OutOrStdout(), m.SearchResults())
			})
		},
	}
}

func newCountCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of loks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int{"count": m.Count()})
				}
				fmt.Fprintln(cmd.OutOrStdout(), m.Count())
				return nil
			})
		},
	}
}

func newExportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the catalog to a JSON Lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				n, err := archive.Export(ctx, m, args[0])
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d loks to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add every lok from a JSON Lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withManager(cmd, func(ctx context.Context, m *resman.Manager) error {
				n, err := archive.Import(ctx, m, args[0])
				if err != nil {
					return sysError(fmt.Errorf("imported %d loks before failing: %w", n, err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d loks from %s\n", n, args[0])
				return nil
			})
		},
	}
}
