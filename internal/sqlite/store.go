// Package sqlite implements the lokbuch Store on a single SQLite file.
// The schema is owned by embedded goose migrations that run on Open;
// queries are assembled with squirrel.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// Scheme is the connection target prefix accepted by Open.
const Scheme = "sqlite"

const lokTable = "loks"

// lokColumns lists the row columns in scan order, excluding id.
var lokColumns = []string{"name", "address", "short_name", "producer", "administration", "has_decoder", "image_path"}

// Compile-time interface check.
var _ types.Store = (*Store)(nil)

// Store is the SQLite-backed types.Store.
type Store struct {
	db   *sql.DB
	path string
}

// Opener adapts Open to types.Opener.
var Opener types.Opener = func(ctx context.Context, target string) (types.Store, error) {
	s, err := Open(ctx, target)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens the database named by target ("sqlite://path" or a bare
// path), creating the file and its parent directory when absent, and runs
// the migrations. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, target string) (*Store, error) {
	path, err := types.TargetPath(target, Scheme)
	if err != nil {
		return nil, err
	}

	slog.Debug("Store.Open - open sqlite store", "path", path)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// ":memory:" databases are per-connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Insert adds a row for lok and returns the id SQLite assigned to it.
func (s *Store) Insert(ctx context.Context, lok types.Lok) (int64, error) {
	row := lok.Row()
	query, args, err := sq.Insert(lokTable).
		Columns(lokColumns...).
		Values(row.Name, row.Address, row.ShortName, row.Producer, row.Administration, row.DecoderPresent, row.ImagePath).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting lok: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}

	slog.Debug("Store.Insert - inserted lok", "id", id, "name", row.Name)
	return id, nil
}

// Get returns the Lok with the given id, or types.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (types.Lok, error) {
	query, args, err := sq.Select(lokColumns...).
		From(lokTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return types.Lok{}, fmt.Errorf("building select: %w", err)
	}

	var row types.LokRow
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&row.Name, &row.Address, &row.ShortName, &row.Producer, &row.Administration, &row.DecoderPresent, &row.ImagePath,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Lok{}, types.ErrNotFound
		}
		return types.Lok{}, fmt.Errorf("getting lok %d: %w", id, err)
	}
	return types.LokFromRow(row), nil
}

// Update overwrites all columns of the row at id. A missing row is left
// alone.
func (s *Store) Update(ctx context.Context, id int64, lok types.Lok) error {
	row := lok.Row()
	query, args, err := sq.Update(lokTable).
		SetMap(map[string]any{
			"name":           row.Name,
			"address":        row.Address,
			"short_name":     row.ShortName,
			"producer":       row.Producer,
			"administration": row.Administration,
			"has_decoder":    row.DecoderPresent,
			"image_path":     row.ImagePath,
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating lok %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		slog.Debug("Store.Update - updated lok", "id", id, "rows", n)
	}
	return nil
}

// Remove deletes the row at id. Deleting a missing row is not an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	query, args, err := sq.Delete(lokTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting lok %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		slog.Debug("Store.Remove - deleted lok", "id", id, "rows", n)
	}
	return nil
}

// ListPreviews projects every row to a preview. The result is unordered.
func (s *Store) ListPreviews(ctx context.Context) ([]types.PreviewLok, error) {
	query, args, err := sq.Select("id", "address", "name", "short_name").From(lokTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building preview select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing previews: %w", err)
	}
	defer rows.Close()

	var previews []types.PreviewLok
	for rows.Next() {
		var row types.PreviewRow
		if err := rows.Scan(&row.ID, &row.Address, &row.Name, &row.ShortName); err != nil {
			return nil, fmt.Errorf("scanning preview: %w", err)
		}
		previews = append(previews, types.PreviewFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating previews: %w", err)
	}
	return previews, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
