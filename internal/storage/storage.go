// Package storage provides the key-value stores history is persisted in.
//
// A Backend keeps JSON values under string keys, the same model as
// extension-local storage. An absent key is reported through ok == false,
// never as an error. Every backend failure wraps ErrUnavailable; an error
// returned by an UpdateFunc is passed through unchanged.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnavailable reports that the backend could not be read or written.
var ErrUnavailable = errors.New("storage unavailable")

// Backend is a key-value store of JSON values.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// UpdateFunc computes the new value from the current one.
type UpdateFunc func(old []byte, ok bool) ([]byte, error)

// Updater is implemented by backends that can run a read-modify-write
// without another writer interleaving.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Kinds lists the accepted backend kinds.
var Kinds = []Kind{KindFile, KindSQLite, KindMemory}

const (
	fileName   = "storage.json"
	sqliteName = "storage.db"
)

// Path returns the file a backend of kind keeps its data in under dir.
// It is empty for KindMemory.
func Path(kind Kind, dir string) string {
	switch kind {
	case KindSQLite:
		return filepath.Join(dir, sqliteName)
	case KindMemory:
		return ""
	default:
		return filepath.Join(dir, fileName)
	}
}

// Open returns the backend of kind rooted at dir.
func Open(kind Kind, dir string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(Path(KindFile, dir)), nil
	case KindSQLite:
		return OpenSQLite(Path(KindSQLite, dir))
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
