// Package history keeps the most recently looked-up stock codes.
//
// The list lives under a single storage key and is rewritten in full after
// every mutation. Insert, Remove and Clear return the list as persisted,
// so callers render only what was actually written.
//
// When the backend implements storage.Updater the read-modify-write is
// delegated to it. Otherwise two processes mutating history at the same
// time can lose an update: the last full-list write wins.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/pkg/stockcode"
)

// Key is the storage key the list is kept under.
const Key = "history"

// Store reads and mutates the persisted history list.
type Store struct {
	backend storage.Backend
}

// NewStore returns a Store over backend.
func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the current list, most recent first. An absent key yields
// an empty list.
func (s *Store) Load(ctx context.Context) ([]stockcode.Code, error) {
	raw, ok, err := s.backend.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok {
		return []stockcode.Code{}, nil
	}
	return decode(raw)
}

// Insert moves code to the front of the list and persists it.
func (s *Store) Insert(ctx context.Context, code stockcode.Code) ([]stockcode.Code, error) {
	return s.mutate(ctx, "insert", func(list []stockcode.Code) []stockcode.Code {
		return Prepend(list, code)
	})
}

// Remove drops code from the list and persists it. Removing an absent
// code leaves the list unchanged.
func (s *Store) Remove(ctx context.Context, code stockcode.Code) ([]stockcode.Code, error) {
	return s.mutate(ctx, "remove", func(list []stockcode.Code) []stockcode.Code {
		return Without(list, code)
	})
}

// Clear persists an empty list. The old record is never read, so a
// corrupt value is overwritten too.
func (s *Store) Clear(ctx context.Context) ([]stockcode.Code, error) {
	if err := s.backend.Set(ctx, Key, []byte("[]")); err != nil {
		return nil, fmt.Errorf("clear history: %w", err)
	}
	return []stockcode.Code{}, nil
}

func (s *Store) mutate(ctx context.Context, op string, fn func([]stockcode.Code) []stockcode.Code) ([]stockcode.Code, error) {
	var result []stockcode.Code
	apply := func(old []byte, ok bool) ([]byte, error) {
		list := []stockcode.Code{}
		if ok {
			decoded, err := decode(old)
			if err != nil {
				return nil, err
			}
			list = decoded
		}
		result = fn(list)
		return json.Marshal(result)
	}

	if u, ok := s.backend.(storage.Updater); ok {
		if err := u.Update(ctx, Key, apply); err != nil {
			return nil, fmt.Errorf("%s history: %w", op, err)
		}
		return result, nil
	}

	old, ok, err := s.backend.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("%s history: %w", op, err)
	}
	next, err := apply(old, ok)
	if err != nil {
		return nil, fmt.Errorf("%s history: %w", op, err)
	}
	if err := s.backend.Set(ctx, Key, next); err != nil {
		return nil, fmt.Errorf("%s history: %w", op, err)
	}
	return result, nil
}

func decode(raw []byte) ([]stockcode.Code, error) {
	var entries []string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode history: %w", storage.ErrUnavailable, err)
	}
	return sanitize(entries), nil
}
