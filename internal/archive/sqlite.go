// Package archive exports ledger snapshots into a SQLite file for ad-hoc
// querying and offline backup. The archive is write-only with respect to the
// ledger: stored risk:reward values are copied verbatim, never re-derived.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trade-journal/internal/models"
)

const schema = `
	-- Trades table: one row per journal entry per user.
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		pair TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry TEXT NOT NULL,
		stop_loss TEXT,
		take_profit TEXT,
		result TEXT NOT NULL,
		rr TEXT NOT NULL,
		notes TEXT,
		timestamp DATETIME NOT NULL,
		archived_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
`

// Writer owns a SQLite archive file.
type Writer struct {
	db *sql.DB
}

// NewWriter opens (or creates) the archive at dbPath and ensures the schema.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}
	return &Writer{db: db}, nil
}

// Close releases the underlying database handle.
func (w *Writer) Close() error {
	return w.db.Close()
}

// Snapshot writes every user's trades into the archive in one transaction.
// Re-archiving the same snapshot is idempotent (ids are primary keys).
// Returns the number of rows written or updated.
func (w *Writer) Snapshot(ctx context.Context, snapshot map[string][]models.Trade) (int, error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (id, user_id, seq, pair, direction, entry, stop_loss, take_profit, result, rr, notes, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET notes = excluded.notes`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	// Deterministic write order keeps archives diffable.
	userIDs := make([]string, 0, len(snapshot))
	for uid := range snapshot {
		userIDs = append(userIDs, uid)
	}
	sort.Strings(userIDs)

	count := 0
	for _, uid := range userIDs {
		for seq, t := range snapshot[uid] {
			var sl, tp interface{}
			if t.StopLoss != nil {
				sl = t.StopLoss.String()
			}
			if t.TakeProfit != nil {
				tp = t.TakeProfit.String()
			}
			if _, err := stmt.ExecContext(ctx,
				t.ID, uid, seq, t.Pair, string(t.Direction),
				t.Entry.String(), sl, tp,
				string(t.Outcome), t.RiskReward.String(),
				t.Notes, t.Timestamp.UTC().Format(time.RFC3339),
			); err != nil {
				return 0, fmt.Errorf("archiving trade %s: %w", t.ID, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// Count returns the number of archived trades, optionally scoped to a user.
func (w *Writer) Count(ctx context.Context, userID string) (int, error) {
	var n int
	var err error
	if userID == "" {
		err = w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades`).Scan(&n)
	} else {
		err = w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades WHERE user_id = ?`, userID).Scan(&n)
	}
	return n, err
}
