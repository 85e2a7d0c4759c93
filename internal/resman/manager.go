// Package resman is the single point of lookup and mutation for catalog
// entries. A Manager sits between the user surface and a types.Store and
// keeps three in-memory structures:
//
//   - cache: id → full Lok, filled on insert, on update and lazily on the
//     first successful read; never negative.
//   - previews: every preview in the Store, loaded once at Build and then
//     maintained incrementally, always in catalog order.
//   - search results: a snapshot of the last SearchAndStore query. It is not
//     refreshed by mutations; callers search again when freshness matters.
//
// A *Manager is shared by pointer. All holders see the same caches; the
// mutex only guards memory, callers are still expected to issue one
// operation at a time.
package resman

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// Manager orchestrates a Store, the full-record cache, the sorted preview
// cache and the search buffer.
type Manager struct {
	mu            sync.RWMutex
	store         types.Store
	cache         map[int64]types.Lok
	previews      []types.PreviewLok
	searchResults []types.PreviewLok
}

// Build opens the Store for target with open and loads all previews into
// the preview cache. A failure to open or list is returned as is; it is
// fatal to startup and not retried.
func Build(ctx context.Context, open types.Opener, target string) (*Manager, error) {
	store, err := open(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}
	m, err := New(ctx, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return m, nil
}

// New wraps an already open Store and loads its previews.
func New(ctx context.Context, store types.Store) (*Manager, error) {
	previews, err := store.ListPreviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("load previews: %w", err)
	}
	slices.SortStableFunc(previews, types.ComparePreviews)

	slog.Debug("Manager.New - loaded previews", "count", len(previews))

	return &Manager{
		store:    store,
		cache:    make(map[int64]types.Lok),
		previews: previews,
	}, nil
}

// Add inserts lok into the Store, caches it under the assigned id, adds its
// preview and re-sorts the preview cache. The search results are left
// untouched.
func (m *Manager) Add(ctx context.Context, lok types.Lok) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.store.Insert(ctx, lok)
	if err != nil {
		return 0, fmt.Errorf("add lok: %w", err)
	}

	m.cache[id] = lok.Clone()
	m.previews = append(m.previews, lok.Preview(id))
	m.sortPreviews()

	slog.Debug("Manager.Add - added lok", "id", id, "previews", len(m.previews))
	return id, nil
}

// Get returns a copy of the Lok for id. A cache hit does not touch the
// Store. A miss reads through and caches the result. ok is false when the Store has no
// such id; err is only set when the Store itself failed.
func (m *Manager) Get(ctx context.Context, id int64) (lok types.Lok, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cached, hit := m.cache[id]; hit {
		slog.Debug("Manager.Get - cache hit", "id", id)
		return cached.Clone(), true, nil
	}

	slog.Debug("Manager.Get - cache miss", "id", id)
	lok, err = m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.Lok{}, false, nil
		}
		return types.Lok{}, false, fmt.Errorf("get lok %d: %w", id, err)
	}

	m.cache[id] = lok.Clone()
	return lok, true, nil
}

// Remove drops id from the cache and the preview cache and deletes it from
// the Store. The Store delete runs concurrently with the cache bookkeeping
// and is awaited last. Removing an unknown id is not an error.
func (m *Manager) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.cache, id)

	var g errgroup.Group
	g.Go(func() error { return m.store.Remove(ctx, id) })

	if i := m.findPreviewIndex(id); i >= 0 {
		m.previews = slices.Delete(m.previews, i, i+1)
		m.sortPreviews()
		slog.Debug("Manager.Remove - removed preview", "id", id, "index", i)
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("remove lok %d: %w", id, err)
	}
	return nil
}

// Update replaces the Lok at id. The cache entry is overwritten whether or
// not it existed. If id has a preview, it is replaced by one derived from
// lok and the preview cache is re-sorted. The Store update runs
// concurrently with the cache bookkeeping and is awaited last.
func (m *Manager) Update(ctx context.Context, id int64, lok types.Lok) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache[id] = lok.Clone()

	var g errgroup.Group
	g.Go(func() error { return m.store.Update(ctx, id, lok) })

	if i := m.findPreviewIndex(id); i >= 0 {
		m.previews = slices.Delete(m.previews, i, i+1)
		m.previews = append(m.previews, lok.Preview(id))
		m.sortPreviews()
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("update lok %d: %w", id, err)
	}
	return nil
}

// AllPreviews returns a copy of the preview cache in catalog order.
func (m *Manager) AllPreviews() []types.PreviewLok {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clonePreviews(m.previews)
}

// Count returns the number of cached previews, which equals the number of
// rows in the Store.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.previews)
}

// SearchAndStore replaces the search results with every preview whose
// search text contains query. The match is a plain substring test against
// the lower-cased search text, so callers fold the query's case first.
func (m *Manager) SearchAndStore(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]types.PreviewLok, 0, len(m.previews))
	for _, p := range m.previews {
		if p.Matches(query) {
			results = append(results, p)
		}
	}
	m.searchResults = results

	slog.Debug("Manager.SearchAndStore - stored results", "query", query, "matches", len(results))
}

// SearchResults returns a copy of the last search's results.
func (m *Manager) SearchResults() []types.PreviewLok {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clonePreviews(m.searchResults)
}

// Close closes the underlying Store. The Manager must not be used
// afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Close()
}

// findPreviewIndex scans the preview cache for id and returns its position,
// or -1. The scan is linear; catalogs stay in the low thousands.
func (m *Manager) findPreviewIndex(id int64) int {
	return slices.IndexFunc(m.previews, func(p types.PreviewLok) bool {
		return p.ID == id
	})
}

func clonePreviews(previews []types.PreviewLok) []types.PreviewLok {
	if previews == nil {
		return nil
	}
	out := make([]types.PreviewLok, len(previews))
	for i, p := range previews {
		out[i] = p.Clone()
	}
	return out
}

func (m *Manager) sortPreviews() {
	slices.SortStableFunc(m.previews, types.ComparePreviews)
}
