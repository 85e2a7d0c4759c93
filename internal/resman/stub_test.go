package resman

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// stubStore is an in-memory types.Store that counts calls and can be told
// to fail.
type stubStore struct {
	mu     sync.Mutex
	rows   map[int64]types.Lok
	nextID int64

	inserts, gets, updates, removes, lists int
	closed                                 bool

	failInsert, failGet, failUpdate, failRemove, failList error
}

var _ types.Store = (*stubStore)(nil)

func newStubStore() *stubStore {
	return &stubStore{rows: make(map[int64]types.Lok)}
}

func (s *stubStore) opener() types.Opener {
	return func(ctx context.Context, target string) (types.Store, error) {
		return s, nil
	}
}

func (s *stubStore) Insert(ctx context.Context, lok types.Lok) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.failInsert != nil {
		return 0, s.failInsert
	}
	s.nextID++
	s.rows[s.nextID] = lok
	return s.nextID, nil
}

func (s *stubStore) Get(ctx context.Context, id int64) (types.Lok, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.failGet != nil {
		return types.Lok{}, s.failGet
	}
	lok, ok := s.rows[id]
	if !ok {
		return types.Lok{}, types.ErrNotFound
	}
	return lok, nil
}

func (s *stubStore) Update(ctx context.Context, id int64, lok types.Lok) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.failUpdate != nil {
		return s.failUpdate
	}
	if _, ok := s.rows[id]; ok {
		s.rows[id] = lok
	}
	return nil
}

func (s *stubStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes++
	if s.failRemove != nil {
		return s.failRemove
	}
	delete(s.rows, id)
	return nil
}

func (s *stubStore) ListPreviews(ctx context.Context) ([]types.PreviewLok, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.failList != nil {
		return nil, s.failList
	}
	previews := make([]types.PreviewLok, 0, len(s.rows))
	for id, lok := range s.rows {
		previews = append(previews, lok.Preview(id))
	}
	return previews, nil
}

func (s *stubStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubStore) ids() map[int64]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[int64]bool, len(s.rows))
	for id := range s.rows {
		ids[id] = true
	}
	return ids
}
