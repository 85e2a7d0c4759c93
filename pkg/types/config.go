package types

import (
	"errors"
	"path/filepath"
)

// Config holds backend selection and the data directory for opening a
// catalog.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config validation and lifecycle errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrNotOpen        = errors.New("catalog is not open")
	ErrAlreadyOpen    = errors.New("catalog is already open")
)

// knownBackends maps each accepted backend to its database file name.
var knownBackends = map[string]string{
	BackendSQLite: "lokbuch.db",
	BackendBolt:   "lokbuch.bolt",
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if _, ok := knownBackends[c.Backend]; !ok {
		return ErrBackendUnknown
	}
	return nil
}

// Target returns the store connection target for this config, for example
// "sqlite:///home/me/.lokbuch-db/lokbuch.db". An empty DataDir means the
// current directory.
func (c Config) Target() string {
	dataDir := c.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return c.Backend + "://" + filepath.Join(dataDir, knownBackends[c.Backend])
}
