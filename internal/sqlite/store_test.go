package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lokbuch/pkg/types"
)

// setupStore opens a fresh Store in a temp directory and closes it when the
// test ends.
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "lokbuch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testLok1() types.Lok {
	return types.LokInput{
		Name: "TEST", Address: "114141", ShortName: "14TE",
		Producer: "Roco", Administration: "ÖBB", DecoderPresent: true,
	}.Lok()
}

func testLok2() types.Lok {
	return types.LokInput{
		Name: "RRRR", Address: "100002", ShortName: "ABCD",
		Producer: "KKLE", Administration: "DB", ImagePath: "somewhere",
		DecoderPresent: true,
	}.Lok()
}

func TestOpen(t *testing.T) {
	t.Run("creates database and parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "lokbuch.db")
		s, err := Open(context.Background(), "sqlite://"+path)
		require.NoError(t, err)
		defer s.Close()

		assert.FileExists(t, path)
		assert.Equal(t, path, s.Path())
	})

	t.Run("bare path is accepted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lokbuch.db")
		s, err := Open(context.Background(), path)
		require.NoError(t, err)
		defer s.Close()
	})

	t.Run("in-memory database", func(t *testing.T) {
		s, err := Open(context.Background(), "sqlite://:memory:")
		require.NoError(t, err)
		defer s.Close()

		id, err := s.Insert(context.Background(), testLok1())
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("wrong scheme is rejected", func(t *testing.T) {
		_, err := Open(context.Background(), "bolt://x.bolt")
		assert.ErrorIs(t, err, types.ErrInvalidTarget)
	})

	t.Run("reopening keeps existing rows", func(t *testing.T) {
		ctx := context.Background()
		target := "sqlite://" + filepath.Join(t.TempDir(), "lokbuch.db")

		s, err := Open(ctx, target)
		require.NoError(t, err)
		_, err = s.Insert(ctx, testLok1())
		require.NoError(t, err)
		require.NoError(t, s.Close())

		s, err = Open(ctx, target)
		require.NoError(t, err)
		defer s.Close()

		previews, err := s.ListPreviews(ctx)
		require.NoError(t, err)
		assert.Len(t, previews, 1)
	})
}

func TestStore_Insert(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, testLok1())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = s.Insert(ctx, testLok2())
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestStore_IDsAreNotReused(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, testLok1())
	require.NoError(t, err)
	id2, err := s.Insert(ctx, testLok2())
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, id2))

	id3, err := s.Insert(ctx, testLok2())
	require.NoError(t, err)
	assert.Greater(t, id3, id2)
}

func TestStore_Get(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, types.ErrNotFound)

	id, err := s.Insert(ctx, testLok1())
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testLok1(), got)
}

func TestStore_AbsentFieldsRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	lok := types.Lok{Name: "ohne Decoder"}
	id, err := s.Insert(ctx, lok)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Address, "absent address must not come back as -1 or 0")
	assert.Nil(t, got.ShortName)
	assert.Nil(t, got.Producer)
	assert.Nil(t, got.Administration)
	assert.Nil(t, got.ImagePath)
	assert.Equal(t, lok, got)

	var raw int
	require.NoError(t, s.db.QueryRow("SELECT address FROM loks WHERE id = ?", id).Scan(&raw))
	assert.Equal(t, types.AbsentAddress, raw)
}

func TestStore_Update(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, testLok1())
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, id, testLok2()))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testLok2(), got)

	// Updating a missing id changes nothing.
	require.NoError(t, s.Update(ctx, 99, testLok1()))
	previews, err := s.ListPreviews(ctx)
	require.NoError(t, err)
	assert.Len(t, previews, 1)
}

func TestStore_Remove(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, testLok1())
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Removing again is a no-op.
	assert.NoError(t, s.Remove(ctx, id))
}

func TestStore_ListPreviews(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	previews, err := s.ListPreviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, previews)

	id1, err := s.Insert(ctx, testLok1())
	require.NoError(t, err)
	id2, err := s.Insert(ctx, types.Lok{Name: "Köf"})
	require.NoError(t, err)

	previews, err = s.ListPreviews(ctx)
	require.NoError(t, err)
	require.Len(t, previews, 2)

	byID := map[int64]types.PreviewLok{}
	for _, p := range previews {
		byID[p.ID] = p
	}
	assert.Equal(t, testLok1().Preview(id1), byID[id1])
	assert.Equal(t, "Köf", byID[id2].NamePretty())
	assert.Nil(t, byID[id2].Address)
	assert.Nil(t, byID[id2].ShortName)
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	s, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "lokbuch.db"))
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
