package ledger_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstation/ledger"
	"toolstation/store"
)

func newTestLedger(t *testing.T) (*ledger.Ledger, store.Store) {
	t.Helper()
	s := store.NewMemory()
	return ledger.New(s, nil), s
}

func TestUsageDefaultsToZero(t *testing.T) {
	l, _ := newTestLedger(t)
	u, err := l.Usage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, ledger.Usage{}, u)
}

func TestRecordUsageAccumulates(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordUsage(ctx, "", 12, 0)
	require.NoError(t, err)
	_, err = l.RecordUsage(ctx, "", 3, 500)
	require.NoError(t, err)
	u, err := l.RecordUsage(ctx, "", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, ledger.Usage{ToolsUsed: 3, CharsProcessed: 15, StorageSaved: 500}, u)

	got, err := l.Usage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestRecordUsageNeverDecreases(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	before, err := l.RecordUsage(ctx, "", 10, 10)
	require.NoError(t, err)
	after, err := l.RecordUsage(ctx, "", -50, -50)
	require.NoError(t, err)

	assert.Equal(t, before.ToolsUsed+1, after.ToolsUsed)
	assert.Equal(t, before.CharsProcessed, after.CharsProcessed)
	assert.Equal(t, before.StorageSaved, after.StorageSaved)
}

func TestRecordUsageSaturates(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()
	near := fmt.Sprintf(`{"toolsUsed":%d,"charsProcessed":%d,"storageSaved":%d}`,
		int64(math.MaxInt64), int64(math.MaxInt64-5), int64(math.MaxInt64-1))
	require.NoError(t, s.Save(ctx, ledger.UsageKey, []byte(near)))

	u, err := l.RecordUsage(ctx, "", 10, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, ledger.Usage{
		ToolsUsed:      math.MaxInt64,
		CharsProcessed: math.MaxInt64,
		StorageSaved:   math.MaxInt64,
	}, u)
}

func TestUsageMissingFieldsDefault(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, ledger.UsageKey, []byte(`{"toolsUsed":4}`)))

	u, err := l.RecordUsage(ctx, "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, ledger.Usage{ToolsUsed: 5, CharsProcessed: 2}, u)
}

func TestCorruptRecordTreatedAsEmpty(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, ledger.UsageKey, []byte(`{"toolsUsed":"many"}`)))
	require.NoError(t, s.Save(ctx, ledger.RecentKey, []byte(`{"not":"a list"}`)))

	u, err := l.Usage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.Usage{}, u)

	recent, err := l.Recent(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, recent)

	u, err = l.RecordUsage(ctx, "", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, ledger.Usage{ToolsUsed: 1, CharsProcessed: 1}, u)
}

func TestRecentEmpty(t *testing.T) {
	l, _ := newTestLedger(t)
	recent, err := l.Recent(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

func TestRecordRecentTool(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	var recent []string
	var err error
	for _, id := range []string{"a", "b", "a", "c", "d", "e", "f", "g", "h", "i"} {
		recent, err = l.RecordRecentTool(ctx, "", id)
		require.NoError(t, err)
	}

	// "a" was last used before "c", so it falls off once the list is full.
	assert.Equal(t, []string{"i", "h", "g", "f", "e", "d", "c", "b"}, recent)
	assert.Len(t, recent, ledger.MaxRecent)

	got, err := l.Recent(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, recent, got)
}

func TestRecordRecentToolMovesToFront(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	for _, id := range []string{"x", "y", "z"} {
		_, err := l.RecordRecentTool(ctx, "", id)
		require.NoError(t, err)
	}
	recent, err := l.RecordRecentTool(ctx, "", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "z", "y"}, recent)
}

func TestRecordRecentToolEmptyID(t *testing.T) {
	l, _ := newTestLedger(t)
	_, err := l.RecordRecentTool(context.Background(), "", "")
	assert.ErrorIs(t, err, ledger.ErrEmptyToolID)
}

func TestClientsAreIsolated(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordUsage(ctx, "alice", 5, 0)
	require.NoError(t, err)
	_, err = l.RecordRecentTool(ctx, "alice", "base64")
	require.NoError(t, err)

	u, err := l.Usage(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, u.ToolsUsed)

	recent, err := l.Recent(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, recent)

	recent, err = l.Recent(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"base64"}, recent)
}

func TestLedgerOnFileStore(t *testing.T) {
	path := t.TempDir() + "/ledger.json"
	s, err := store.NewFile(path)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ledger.New(s, nil).RecordUsage(ctx, "", 7, 0)
	require.NoError(t, err)

	reopened, err := store.NewFile(path)
	require.NoError(t, err)
	u, err := ledger.New(reopened, nil).Usage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.Usage{ToolsUsed: 1, CharsProcessed: 7}, u)
}
