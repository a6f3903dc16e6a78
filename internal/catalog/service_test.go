package catalog

import (
	"context"
	"log/slog"
	"os"
	"testing"

	poserrors "github.com/abgdnv/bakerypos/internal/errors"
	"github.com/abgdnv/bakerypos/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	kv := store.NewMemoryStore()
	s := NewService(kv, testLogger())
	require.NoError(t, s.Load(context.Background(), false))
	return s, kv
}

func input(name, price, category string) ProductInput {
	return ProductInput{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
	}
}

func Test_Catalog_Add(t *testing.T) {
	testCases := []struct {
		name        string
		input       ProductInput
		expectError error
	}{
		{
			name:  "Success - valid product",
			input: input("Pan Dulce", "15.00", "Panes"),
		},
		{
			name:        "Error - empty name",
			input:       input("", "15.00", "Panes"),
			expectError: poserrors.ErrInvalidProduct,
		},
		{
			name:        "Error - empty category",
			input:       input("Pan Dulce", "15.00", ""),
			expectError: poserrors.ErrInvalidProduct,
		},
		{
			name:        "Error - zero price",
			input:       input("Pan Dulce", "0", "Panes"),
			expectError: poserrors.ErrInvalidProduct,
		},
		{
			name:        "Error - negative price",
			input:       input("Pan Dulce", "-1.50", "Panes"),
			expectError: poserrors.ErrInvalidProduct,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s, _ := newTestService(t)
			// when
			created, err := s.Add(context.Background(), tc.input)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				assert.Empty(t, s.Products())
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, created.ID)
			assert.Equal(t, tc.input.Name, created.Name)
			assert.Len(t, s.Products(), 1)
		})
	}
}

func Test_Catalog_Add_PreservesInsertionOrder(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Add(context.Background(), input("Pan Dulce", "15.00", "Panes"))
	require.NoError(t, err)
	_, err = s.Add(context.Background(), input("Croissant", "25.00", "Panes"))
	require.NoError(t, err)
	_, err = s.Add(context.Background(), input("Leche Entera", "22.00", "Lácteos"))
	require.NoError(t, err)

	products := s.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "Pan Dulce", products[0].Name)
	assert.Equal(t, "Croissant", products[1].Name)
	assert.Equal(t, "Leche Entera", products[2].Name)
}

func Test_Catalog_Update(t *testing.T) {
	// given
	s, _ := newTestService(t)
	created, err := s.Add(context.Background(), input("Pan Dulce", "15.00", "Panes"))
	require.NoError(t, err)

	// when
	updated, err := s.Update(context.Background(), created.ID, input("Pan Integral", "18.00", "Panes"))

	// then: id preserved, fields replaced in place
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Pan Integral", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("18.00")))

	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, created.ID, products[0].ID)
}

func Test_Catalog_Update_NotFound(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Update(context.Background(), uuid.New(), input("Pan Dulce", "15.00", "Panes"))

	assert.ErrorIs(t, err, poserrors.ErrProductNotFound)
}

func Test_Catalog_Update_InvalidInputLeavesProductUntouched(t *testing.T) {
	s, _ := newTestService(t)
	created, err := s.Add(context.Background(), input("Pan Dulce", "15.00", "Panes"))
	require.NoError(t, err)

	_, err = s.Update(context.Background(), created.ID, input("", "18.00", "Panes"))

	assert.ErrorIs(t, err, poserrors.ErrInvalidProduct)
	products := s.Products()
	assert.Equal(t, "Pan Dulce", products[0].Name)
}

func Test_Catalog_Remove_IsIdempotent(t *testing.T) {
	// given
	s, _ := newTestService(t)
	created, err := s.Add(context.Background(), input("Pan Dulce", "15.00", "Panes"))
	require.NoError(t, err)

	// when: removing twice and removing an unknown id
	s.Remove(context.Background(), created.ID)
	s.Remove(context.Background(), created.ID)
	s.Remove(context.Background(), uuid.New())

	// then
	assert.Empty(t, s.Products())
}

func Test_Catalog_RoundTrip(t *testing.T) {
	// given: a catalog persisted through the store
	kv := store.NewMemoryStore()
	first := NewService(kv, testLogger())
	require.NoError(t, first.Load(context.Background(), false))
	_, err := first.Add(context.Background(), input("Pan Dulce", "15.00", "Panes"))
	require.NoError(t, err)
	_, err = first.Add(context.Background(), input("Croissant", "25.00", "Panes"))
	require.NoError(t, err)

	// when: a fresh service loads from the same store
	second := NewService(kv, testLogger())
	require.NoError(t, second.Load(context.Background(), false))

	// then: identical products, ids included
	want := first.Products()
	got := second.Products()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.True(t, want[i].Price.Equal(got[i].Price))
		assert.Equal(t, want[i].Category, got[i].Category)
	}
}

func Test_Catalog_Load_SeedsOnFirstRun(t *testing.T) {
	kv := store.NewMemoryStore()
	s := NewService(kv, testLogger())

	require.NoError(t, s.Load(context.Background(), true))

	products := s.Products()
	require.Len(t, products, 5)
	assert.Equal(t, "Pan Dulce", products[0].Name)

	// and: the seed was persisted
	raw, err := kv.Get(context.Background(), store.KeyCatalog)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func Test_Catalog_Load_CorruptBlobFallsBackToSeed(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), store.KeyCatalog, []byte("{not json")))
	s := NewService(kv, testLogger())

	require.NoError(t, s.Load(context.Background(), true))

	assert.Len(t, s.Products(), 5)
}

func Test_Catalog_Load_NoSeedStaysEmpty(t *testing.T) {
	kv := store.NewMemoryStore()
	s := NewService(kv, testLogger())

	require.NoError(t, s.Load(context.Background(), false))

	assert.Empty(t, s.Products())
}
