// Package cli implements the lokbuch command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lokbuch/internal/app"
	"github.com/mesh-intelligence/lokbuch/internal/paths"
	"github.com/mesh-intelligence/lokbuch/internal/resman"
	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// session is the state one command invocation shares between the root
// command and its subcommands.
type session struct {
	flags     rootFlags
	configDir string
	dataDir   string
	backend   string
	app       *app.App
}

// NewRootCmd creates the top-level "lokbuch" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	s := &session{app: app.New()}

	root := &cobra.Command{
		Use:   "lokbuch",
		Short: "A catalog for a model-train collection",
		Long:  "Lokbuch keeps track of locomotives: address, name, decoder short name,\nproducer, railway administration and a picture.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		PersistentPreRunE: s.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&s.flags.dataDir, "data-dir", "", "data directory (default: .lokbuch-db)")
	pf.BoolVar(&s.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(s),
		newAddCmd(s),
		newShowCmd(s),
		newListCmd(s),
		newSearchCmd(s),
		newUpdateCmd(s),
		newDeleteCmd(s),
		newCountCmd(s),
		newExportCmd(s),
		newImportCmd(s),
	)

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// setup resolves directories, reads config.yaml and installs the logger.
func (s *session) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(s.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}

	level := s.flags.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	if err := setupLogger(cmd.ErrOrStderr(), level); err != nil {
		return userError(err)
	}

	dataDir, err := paths.ResolveDataDir(s.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	s.configDir = configDir
	s.dataDir = dataDir
	s.backend = v.GetString(cfgKeyBackend)
	return nil
}

func (s *session) config() types.Config {
	return types.Config{Backend: s.backend, DataDir: s.dataDir}
}

// withManager opens the catalog, runs fn and closes the catalog again.
func (s *session) withManager(cmd *cobra.Command, fn func(ctx context.Context, m *resman.Manager) error) error {
	ctx := cmd.Context()
	if err := s.app.Open(ctx, s.config()); err != nil {
		if errors.Is(err, types.ErrBackendEmpty) || errors.Is(err, types.ErrBackendUnknown) {
			return userError(fmt.Errorf("backend %q: %w", s.backend, err))
		}
		return sysError(fmt.Errorf("open catalog: %w", err))
	}
	defer s.app.Close()

	m, err := s.app.Manager()
	if err != nil {
		return sysError(err)
	}
	return fn(ctx, m)
}
