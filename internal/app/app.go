// Package app owns the lifetime of the catalog's Resource Manager. An App
// starts closed; callers must Open it with a Config before the Manager is
// reachable, and Close it on the way out.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mesh-intelligence/lokbuch/internal/bolt"
	"github.com/mesh-intelligence/lokbuch/internal/resman"
	"github.com/mesh-intelligence/lokbuch/internal/sqlite"
	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// openers maps each backend name to the Store constructor for it.
var openers = map[string]types.Opener{
	types.BackendSQLite: sqlite.Opener,
	types.BackendBolt:   bolt.Opener,
}

// App holds the open Manager, if any, and the Config it was opened with.
type App struct {
	mu      sync.Mutex
	cfg     types.Config
	manager *resman.Manager
}

// New returns an App in the closed state.
func New() *App {
	return &App{}
}

// Open validates cfg, creates the data directory and builds the Manager over
// the configured backend. Opening an App twice returns types.ErrAlreadyOpen.
func (a *App) Open(ctx context.Context, cfg types.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.manager != nil {
		return types.ErrAlreadyOpen
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	target := cfg.Target()
	slog.Debug("App.Open - building manager", "backend", cfg.Backend, "target", target)

	m, err := resman.Build(ctx, openers[cfg.Backend], target)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.manager = m
	return nil
}

// Manager returns the open Manager or types.ErrNotOpen.
func (a *App) Manager() (*resman.Manager, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.manager == nil {
		return nil, types.ErrNotOpen
	}
	return a.manager, nil
}

// Config returns the Config the App was opened with. It is the zero Config
// while closed.
func (a *App) Config() types.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Close closes the Manager and returns the App to the closed state. Closing
// a closed App is a no-op.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.manager == nil {
		return nil
	}
	err := a.manager.Close()
	a.manager = nil
	a.cfg = types.Config{}
	if err != nil {
		return fmt.Errorf("close manager: %w", err)
	}
	return nil
}
