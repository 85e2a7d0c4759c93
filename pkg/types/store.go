package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store is the persistence capability the resource manager consumes. The
// Store is authoritative; every cache above it is a mirror.
type Store interface {
	// Insert persists lok and returns its newly assigned id. Ids are never
	// reused, even after a Remove.
	Insert(ctx context.Context, lok Lok) (int64, error)

	// Get returns the Lok stored under id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Lok, error)

	// Update overwrites every field of the row at id. Updating an absent id
	// is a no-op.
	Update(ctx context.Context, id int64, lok Lok) error

	// Remove deletes the row at id. Removing an absent id is a no-op.
	Remove(ctx context.Context, id int64) error

	// ListPreviews returns the preview projection of every row, unordered.
	ListPreviews(ctx context.Context) ([]PreviewLok, error)

	// Close releases the underlying storage handle.
	Close() error
}

// Opener builds a Store for a connection target. Opening is idempotent:
// storage is created if absent and migrated before the Store is returned.
type Opener func(ctx context.Context, target string) (Store, error)

// Store errors.
var (
	ErrNotFound      = errors.New("lok not found")
	ErrInvalidTarget = errors.New("invalid connection target")
)

// TargetPath strips the "<scheme>://" prefix from a connection target and
// returns the file path. A bare path is returned unchanged. A target with
// another scheme, or with no path, yields ErrInvalidTarget.
func TargetPath(target, scheme string) (string, error) {
	path := target
	if i := strings.Index(target, "://"); i >= 0 {
		if target[:i] != scheme {
			return "", fmt.Errorf("%w: %q is not a %s target", ErrInvalidTarget, target, scheme)
		}
		path = target[i+len("://"):]
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidTarget)
	}
	return path, nil
}
