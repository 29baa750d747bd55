package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// File keeps every record in one JSON object on disk and serves reads from
// an in-memory copy.
type File struct {
	mu       sync.RWMutex
	filePath string
	items    map[string]json.RawMessage
}

// NewFile loads the store from filePath, or starts empty if the file does not
// exist. Returns an error only on unexpected I/O or decode failures.
func NewFile(filePath string) (*File, error) {
	f := &File{filePath: filePath}
	items, err := f.read()
	if err != nil {
		return nil, err
	}
	f.items = items
	return f, nil
}

func (f *File) read() (map[string]json.RawMessage, error) {
	items := make(map[string]json.RawMessage)
	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return items, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.filePath, err)
	}
	return items, nil
}

func (f *File) Load(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save writes the whole document atomically, then updates the in-memory copy.
// value must be valid JSON.
func (f *File) Save(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]json.RawMessage, len(f.items)+1)
	for k, v := range f.items {
		next[k] = v
	}
	next[key] = append(json.RawMessage(nil), value...)
	if err := f.writeAtomic(next); err != nil {
		return err
	}
	f.items = next
	return nil
}

func (f *File) Close() error { return nil }

// writeAtomic writes to a temp file then renames it over filePath.
// Caller must hold f.mu.
func (f *File) writeAtomic(items map[string]json.RawMessage) error {
	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := f.filePath + ".tmp"
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.filePath)
}

// Reload replaces the in-memory copy with the file's current contents. The
// file is read under the write lock so a snapshot never predates a finished
// Save.
func (f *File) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return err
	}
	f.items = items
	return nil
}

// Watch reloads the store whenever the file is changed by another process,
// until ctx is cancelled. A document that fails to decode is logged and the
// previous contents are kept.
func (f *File) Watch(ctx context.Context, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; the file itself is replaced on every save.
	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(f.filePath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := f.Reload(); err != nil {
				logger.Warn("store reload failed", zap.String("path", f.filePath), zap.Error(err))
				continue
			}
			logger.Debug("store reloaded", zap.String("path", f.filePath))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("store watcher error", zap.Error(err))
		}
	}
}
