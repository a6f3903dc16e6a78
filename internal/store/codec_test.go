package store

import (
	"context"
	"errors"
	"testing"

	poserrors "github.com/abgdnv/bakerypos/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blob struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// failingStore simulates a backend whose reads and writes fail.
type failingStore struct {
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }

func Test_MemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// absent key
	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// round trip
	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)

	// overwrite
	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":2}`)))
	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), got)
}

func Test_MemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	original := []byte("hello")
	require.NoError(t, s.Set(ctx, "k", original))

	// mutating the caller's slice must not leak into the store
	original[0] = 'X'
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	// nor may mutating a returned slice change later reads
	got[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), again)
}

func Test_LoadJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("loaded", func(t *testing.T) {
		// given
		s := NewMemoryStore()
		require.NoError(t, SaveJSON(ctx, s, "k", blob{Name: "pan", Count: 3}))
		// when
		got, state, err := LoadJSON[blob](ctx, s, "k")
		// then
		require.NoError(t, err)
		assert.Equal(t, Loaded, state)
		assert.Equal(t, blob{Name: "pan", Count: 3}, got)
	})

	t.Run("absent key on first run", func(t *testing.T) {
		s := NewMemoryStore()

		got, state, err := LoadJSON[blob](ctx, s, "k")

		require.NoError(t, err)
		assert.Equal(t, Absent, state)
		assert.Zero(t, got)
	})

	t.Run("corrupt blob", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", []byte("{nope")))

		got, state, err := LoadJSON[blob](ctx, s, "k")

		require.NoError(t, err)
		assert.Equal(t, Corrupt, state)
		assert.Zero(t, got)
	})

	t.Run("wrong shape is corrupt", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", []byte(`"just a string"`)))

		_, state, err := LoadJSON[blob](ctx, s, "k")

		require.NoError(t, err)
		assert.Equal(t, Corrupt, state)
	})

	t.Run("transport failure reports absent with error", func(t *testing.T) {
		s := failingStore{err: errors.New("connection refused")}

		_, state, err := LoadJSON[blob](ctx, s, "k")

		assert.Equal(t, Absent, state)
		assert.ErrorIs(t, err, poserrors.ErrStorage)
	})
}

func Test_SaveJSON_WriteFailure(t *testing.T) {
	s := failingStore{err: errors.New("disk full")}

	err := SaveJSON(context.Background(), s, "k", blob{Name: "pan"})

	assert.ErrorIs(t, err, poserrors.ErrStorage)
}
