// Package store persists small JSON records under string keys, the way the
// browser app used localStorage. Three backends are provided: Memory for
// tests, File for a single JSON document on disk, and SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("key not found")

// Store is a key-value record store. Values are opaque bytes, usually JSON.
type Store interface {
	// Load returns the value stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the value under key.
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates the backend named by backend. path is ignored for memory.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(path)
	case BackendSQLite:
		return NewSQLite(path)
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}
