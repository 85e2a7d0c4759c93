// Package bolt implements the lokbuch Store on an embedded bbolt file.
// Rows live in a single bucket keyed by the big-endian id; ids come from the
// bucket sequence and are never reused.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// Scheme is the connection target prefix accepted by Open.
const Scheme = "bolt"

var lokBucket = []byte("loks")

// Bolt-specific errors.
var (
	ErrBucketNotFound = errors.New("loks bucket not found")
)

// Compile-time interface check.
var _ types.Store = (*Store)(nil)

// row is the JSON value stored per key. It uses the storage absence
// convention: -1 for no address and "" for missing strings.
type row struct {
	Name           string `json:"name"`
	Address        int    `json:"address"`
	ShortName      string `json:"short_name"`
	Producer       string `json:"producer"`
	Administration string `json:"administration"`
	HasDecoder     bool   `json:"has_decoder"`
	ImagePath      string `json:"image_path"`
}

func rowFromLok(lok types.Lok) row {
	r := lok.Row()
	return row{
		Name:           r.Name,
		Address:        r.Address,
		ShortName:      r.ShortName,
		Producer:       r.Producer,
		Administration: r.Administration,
		HasDecoder:     r.DecoderPresent,
		ImagePath:      r.ImagePath,
	}
}

func (r row) lok() types.Lok {
	return types.LokFromRow(types.LokRow{
		Name:           r.Name,
		Address:        r.Address,
		ShortName:      r.ShortName,
		Producer:       r.Producer,
		Administration: r.Administration,
		DecoderPresent: r.HasDecoder,
		ImagePath:      r.ImagePath,
	})
}

// Store is the bbolt-backed types.Store.
type Store struct {
	db *bbolt.DB
}

// Opener adapts Open to types.Opener.
var Opener types.Opener = func(ctx context.Context, target string) (types.Store, error) {
	s, err := Open(ctx, target)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens (or creates) the bbolt file named by target ("bolt://path" or
// a bare path) and makes sure the loks bucket exists.
func Open(ctx context.Context, target string) (*Store, error) {
	path, err := types.TargetPath(target, Scheme)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("Store.Open - open bolt store", "path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(lokBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating loks bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Insert stores lok under the next bucket sequence number.
func (s *Store) Insert(ctx context.Context, lok types.Lok) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	value, err := json.Marshal(rowFromLok(lok))
	if err != nil {
		return 0, fmt.Errorf("encoding lok: %w", err)
	}

	var id int64
	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(lokBucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		id = int64(seq)
		return bucket.Put(key(id), value)
	})
	if err != nil {
		return 0, fmt.Errorf("inserting lok: %w", err)
	}

	slog.Debug("Store.Insert - inserted lok", "id", id, "name", lok.Name)
	return id, nil
}

// Get returns the Lok stored under id, or types.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (types.Lok, error) {
	if err := ctx.Err(); err != nil {
		return types.Lok{}, err
	}

	var r row
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(lokBucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		val := bucket.Get(key(id))
		if val == nil {
			return types.ErrNotFound
		}
		return json.Unmarshal(val, &r)
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.Lok{}, err
		}
		return types.Lok{}, fmt.Errorf("getting lok %d: %w", id, err)
	}
	return r.lok(), nil
}

// Update replaces the value at id. A missing id is left alone.
func (s *Store) Update(ctx context.Context, id int64, lok types.Lok) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(rowFromLok(lok))
	if err != nil {
		return fmt.Errorf("encoding lok: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(lokBucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		k := key(id)
		if bucket.Get(k) == nil {
			slog.Debug("Store.Update - lok not found, nothing to update", "id", id)
			return nil
		}
		return bucket.Put(k, value)
	})
	if err != nil {
		return fmt.Errorf("updating lok %d: %w", id, err)
	}
	return nil
}

// Remove deletes the value at id. Deleting a missing id is not an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(lokBucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		return bucket.Delete(key(id))
	})
	if err != nil {
		return fmt.Errorf("deleting lok %d: %w", id, err)
	}
	slog.Debug("Store.Remove - deleted lok", "id", id)
	return nil
}

// ListPreviews projects every stored Lok to a preview, in key order.
func (s *Store) ListPreviews(ctx context.Context) ([]types.PreviewLok, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var previews []types.PreviewLok
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(lokBucket)
		if bucket == nil {
			return ErrBucketNotFound
		}
		return bucket.ForEach(func(k, v []byte) error {
			var r row
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding lok %x: %w", k, err)
			}
			previews = append(previews, types.PreviewFromRow(types.PreviewRow{
				ID:        int64(binary.BigEndian.Uint64(k)),
				Address:   r.Address,
				Name:      r.Name,
				ShortName: r.ShortName,
			}))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing previews: %w", err)
	}
	return previews, nil
}

// Close releases the bbolt file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
