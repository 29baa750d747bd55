package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"toolstation/store"
)

// Ledger records usage counters and the recent-tools list for each client.
// Updates are read-modify-write against the Store, serialized within this
// process; concurrent writers in other processes are last-write-wins.
type Ledger struct {
	mu     sync.Mutex
	store  store.Store
	logger *zap.Logger
}

func New(s store.Store, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: s, logger: logger}
}

// key scopes name to client. The empty client uses the bare name.
func key(client, name string) string {
	if client == "" {
		return name
	}
	return client + "/" + name
}

// Usage returns the client's counters, zero-valued if none are stored.
func (l *Ledger) Usage(ctx context.Context, client string) (Usage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return load[Usage](ctx, l, key(client, UsageKey))
}

// RecordUsage counts one tool invocation plus the given deltas. Negative
// deltas are treated as zero and counters saturate at math.MaxInt64, so no
// counter ever decreases.
func (l *Ledger) RecordUsage(ctx context.Context, client string, deltaChars, deltaStorage int64) (Usage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(client, UsageKey)
	u, err := load[Usage](ctx, l, k)
	if err != nil {
		return Usage{}, err
	}
	u.ToolsUsed = addClamped(u.ToolsUsed, 1)
	u.CharsProcessed = addClamped(u.CharsProcessed, deltaChars)
	u.StorageSaved = addClamped(u.StorageSaved, deltaStorage)
	if err := l.save(ctx, k, u); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// addClamped adds a non-negative delta to n, saturating at math.MaxInt64.
func addClamped(n, delta int64) int64 {
	delta = max(delta, 0)
	if n > math.MaxInt64-delta {
		return math.MaxInt64
	}
	return n + delta
}

// Recent returns the client's recent tool ids, most recent first.
func (l *Ledger) Recent(ctx context.Context, client string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	recent, err := load[[]string](ctx, l, key(client, RecentKey))
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []string{}
	}
	return recent, nil
}

// RecordRecentTool moves id to the front of the recent list (deduplicating
// and capping at MaxRecent) and returns the new list.
func (l *Ledger) RecordRecentTool(ctx context.Context, client, id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyToolID
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(client, RecentKey)
	existing, err := load[[]string](ctx, l, k)
	if err != nil {
		return nil, err
	}

	// Build new MRU list: prepend id, drop its older occurrence, cap.
	newList := make([]string, 0, MaxRecent)
	newList = append(newList, id)
	for _, eid := range existing {
		if len(newList) == MaxRecent {
			break
		}
		if eid == id {
			continue
		}
		newList = append(newList, eid)
	}

	if err := l.save(ctx, k, newList); err != nil {
		return nil, err
	}
	return newList, nil
}

// load decodes the record under k. A missing record yields the zero value;
// an undecodable one is logged and treated as missing. Fields absent from
// the stored JSON keep their zero values. Caller must hold l.mu.
func load[T any](ctx context.Context, l *Ledger, k string) (T, error) {
	var v T
	data, err := l.store.Load(ctx, k)
	if errors.Is(err, store.ErrNotFound) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("load %s: %w", k, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		l.logger.Warn("discarding unreadable ledger record", zap.String("key", k), zap.Error(err))
		var zero T
		return zero, nil
	}
	return v, nil
}

func (l *Ledger) save(ctx context.Context, k string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := l.store.Save(ctx, k, data); err != nil {
		return fmt.Errorf("save %s: %w", k, err)
	}
	return nil
}
