// Package sqlite exposes the SQLite catalog Store to programs outside this
// module while the implementation stays internal.
package sqlite

import (
	"context"

	"github.com/mesh-intelligence/lokbuch/internal/sqlite"
	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// Open opens or creates the catalog database at target, a "sqlite://path"
// URL or a bare file path, and applies pending migrations.
//
// Example:
//
//	store, err := sqlite.Open(ctx, "sqlite://.lokbuch-db/lokbuch.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(ctx context.Context, target string) (types.Store, error) {
	return sqlite.Opener(ctx, target)
}
