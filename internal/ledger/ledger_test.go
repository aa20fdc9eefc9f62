package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trading_data.json")
	store, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func priceOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewTrade(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	trade, err := NewTrade(TradeInput{
		Pair:       "BTCUSDT",
		Direction:  models.DirectionLong,
		Entry:      decimal.RequireFromString("100"),
		StopLoss:   priceOf("98"),
		TakeProfit: priceOf("106"),
		Notes:      "  breakout retest ",
	}, now)
	require.NoError(t, err)

	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, "btcusdt", trade.Pair)
	assert.Equal(t, models.OutcomePending, trade.Outcome)
	assert.True(t, trade.RiskReward.Equal(decimal.RequireFromString("3")))
	assert.Equal(t, "breakout retest", trade.Notes)
	assert.Equal(t, now, trade.Timestamp)
}

func TestNewTradeValidation(t *testing.T) {
	now := time.Now()
	valid := TradeInput{
		Pair:       "btcusdt",
		Direction:  models.DirectionLong,
		Entry:      decimal.RequireFromString("100"),
		StopLoss:   priceOf("98"),
		TakeProfit: priceOf("106"),
	}

	tests := []struct {
		name   string
		mutate func(in *TradeInput)
	}{
		{"empty pair", func(in *TradeInput) { in.Pair = "  " }},
		{"bad direction", func(in *TradeInput) { in.Direction = "sideways" }},
		{"zero entry", func(in *TradeInput) { in.Entry = decimal.Zero }},
		{"negative entry", func(in *TradeInput) { in.Entry = decimal.RequireFromString("-5") }},
		{"negative stop", func(in *TradeInput) { in.StopLoss = priceOf("-1") }},
		{"negative target", func(in *TradeInput) { in.TakeProfit = priceOf("-1") }},
		{"bad outcome", func(in *TradeInput) { in.Outcome = "maybe" }},
		{"no price legs", func(in *TradeInput) { in.StopLoss, in.TakeProfit = nil, nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := NewTrade(in, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidTradeInput))
		})
	}
}

func TestRecordAndReadTrades(t *testing.T) {
	store := newTestStore(t)

	// Reads never create a ledger.
	assert.Empty(t, store.Trades("alice"))

	trade := testTrade("t1", "btcusdt", "3")
	require.NoError(t, store.RecordTrade("alice", trade))

	trades := store.Trades("alice")
	require.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)
	assert.Empty(t, store.Trades("bob"))
}

func TestRecordTradePreservesOrder(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordTrade("alice", testTrade(fmt.Sprintf("t%d", i), "btcusdt", "1")))
	}

	trades := store.Trades("alice")
	require.Len(t, trades, 5)
	for i, tr := range trades {
		assert.Equal(t, fmt.Sprintf("t%d", i), tr.ID)
	}
}

func TestRecordTradeSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trading_data.json")

	store, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.RecordTrade("alice", testTrade("t1", "btcusdt", "3")))

	reopened, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	trades := reopened.Trades("alice")
	require.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)
}

func TestOpenCorruptDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trading_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, store.Trades("alice"))
}

func TestReloadSurfacesCorruption(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordTrade("alice", testTrade("t1", "btcusdt", "3")))

	// Corrupt the document behind the running store: a mid-run load failure
	// is an error, unlike the cold-start path.
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	err := store.Reload()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPersistence))

	// In-memory state is untouched.
	assert.Len(t, store.Trades("alice"), 1)
}

func TestRecordTradeRollsBackOnPersistFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "trading_data.json")
	store, err := Open(path, zerolog.Nop())
	require.NoError(t, err)

	// Removing the parent directory makes the atomic write fail.
	require.NoError(t, os.RemoveAll(filepath.Dir(path)))

	err = store.RecordTrade("alice", testTrade("t1", "btcusdt", "3"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPersistence))

	// The failed append never becomes visible, not even as an empty ledger.
	snapshot := store.Snapshot()
	_, exists := snapshot["alice"]
	assert.False(t, exists)
}

func TestResetUser(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordTrade("alice", testTrade("t1", "btcusdt", "3")))
	require.NoError(t, store.RecordTrade("bob", testTrade("t2", "eurusd", "2")))

	require.NoError(t, store.ResetUser("alice"))
	assert.Empty(t, store.Trades("alice"))
	assert.Len(t, store.Trades("bob"), 1)

	// Resetting an unknown user is a no-op, not an error.
	require.NoError(t, store.ResetUser("nobody"))
}

func TestResetAll(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordTrade("alice", testTrade("t1", "btcusdt", "3")))
	require.NoError(t, store.RecordTrade("bob", testTrade("t2", "eurusd", "2")))

	require.NoError(t, store.ResetAll())
	assert.Empty(t, store.Snapshot())

	// Idempotent.
	require.NoError(t, store.ResetAll())
}

func TestSnapshotIsIsolated(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordTrade("alice", testTrade("t1", "btcusdt", "3")))

	snapshot := store.Snapshot()
	snapshot["alice"][0].Pair = "mutated"
	*snapshot["alice"][0].StopLoss = decimal.Zero

	trades := store.Trades("alice")
	assert.Equal(t, "btcusdt", trades[0].Pair)
	assert.True(t, trades[0].StopLoss.Equal(decimal.RequireFromString("98")))
}

func TestConcurrentRecording(t *testing.T) {
	store := newTestStore(t)

	const writers = 8
	const perWriter = 5

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			user := fmt.Sprintf("user%d", w%2)
			for i := 0; i < perWriter; i++ {
				id := fmt.Sprintf("w%d-t%d", w, i)
				if err := store.RecordTrade(user, testTrade(id, "btcusdt", "1")); err != nil {
					t.Error(err)
				}
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, trades := range store.Snapshot() {
		total += len(trades)
	}
	assert.Equal(t, writers*perWriter, total)

	// Disk agrees with memory.
	reopened, err := Open(store.Path(), zerolog.Nop())
	require.NoError(t, err)
	total = 0
	for _, trades := range reopened.Snapshot() {
		total += len(trades)
	}
	assert.Equal(t, writers*perWriter, total)
}
