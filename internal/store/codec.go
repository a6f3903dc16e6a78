package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	poserrors "github.com/abgdnv/bakerypos/internal/errors"
)

// LoadState tags the outcome of a typed read, letting the caller decide
// whether absent or corrupt data is fatal or just means "use defaults".
type LoadState int

const (
	// Loaded means the key existed and decoded cleanly.
	Loaded LoadState = iota
	// Absent means the key has never been written (first run).
	Absent
	// Corrupt means the key existed but did not decode into the target type.
	Corrupt
)

// LoadJSON reads key and decodes it into T. A read transport failure is
// reported as Absent with a non-nil error so the caller can log it and fall
// back to defaults.
func LoadJSON[T any](ctx context.Context, s Store, key string) (T, LoadState, error) {
	var out T

	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return out, Absent, nil
		}
		return out, Absent, fmt.Errorf("read %q: %w: %w", key, poserrors.ErrStorage, err)
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, Corrupt, nil
	}
	return out, Loaded, nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %q: %w: %w", key, poserrors.ErrStorage, err)
	}
	return nil
}
