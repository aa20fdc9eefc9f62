// Package ledger owns the durable per-user trade history. All mutations are
// serialized behind a store-wide lock and acknowledged only after the
// document hits disk; reads observe consistent snapshots.
package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"trade-journal/internal/errors"
	"trade-journal/internal/metrics"
	"trade-journal/internal/models"
	"trade-journal/pkg/id"
)

// Store maps user ids to their ordered trade sequences. A ledger is created
// on a user's first write, never on read.
type Store struct {
	mu    sync.RWMutex
	users map[string][]models.Trade
	doc   *documentFile
	log   zerolog.Logger
}

// Open loads the document at path into a new Store. At cold start a missing
// or corrupt document degrades to an empty store with a logged warning; any
// later load failure is surfaced as a PersistenceError (see Reload).
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.NewPersistenceError("load", path, err)
	}

	doc := &documentFile{path: path}
	users, err := doc.load()
	if err != nil {
		logger.Warn().Err(err).Str("path", path).
			Msg("Ledger document unreadable at startup, starting empty")
		users = map[string][]models.Trade{}
	}

	total := 0
	for _, trades := range users {
		total += len(trades)
	}
	logger.Debug().Int("users", len(users)).Int("trades", total).
		Str("path", path).Msg("Ledger loaded")

	return &Store{
		users: users,
		doc:   doc,
		log:   logger,
	}, nil
}

// Path returns the document path backing this store.
func (s *Store) Path() string {
	return s.doc.path
}

// TradeInput carries the caller-supplied fields of a new trade.
type TradeInput struct {
	Pair       string
	Direction  models.Direction
	Entry      decimal.Decimal
	StopLoss   *decimal.Decimal
	TakeProfit *decimal.Decimal
	Outcome    models.Outcome
	Notes      string
}

// NewTrade validates the input and builds the immutable trade record,
// deriving and freezing the risk:reward ratio at creation time.
func NewTrade(in TradeInput, now time.Time) (models.Trade, error) {
	pair := strings.ToLower(strings.TrimSpace(in.Pair))
	if pair == "" {
		return models.Trade{}, errors.NewValidationError("pair", in.Pair, "instrument is required")
	}
	if in.Direction != models.DirectionLong && in.Direction != models.DirectionShort {
		return models.Trade{}, errors.NewValidationError("direction", in.Direction, "must be long or short")
	}
	if !in.Entry.IsPositive() {
		return models.Trade{}, errors.NewValidationError("entry", in.Entry, "must be a positive price")
	}
	if in.StopLoss != nil && !in.StopLoss.IsPositive() {
		return models.Trade{}, errors.NewValidationError("stop_loss", in.StopLoss, "must be a positive price")
	}
	if in.TakeProfit != nil && !in.TakeProfit.IsPositive() {
		return models.Trade{}, errors.NewValidationError("take_profit", in.TakeProfit, "must be a positive price")
	}

	outcome := in.Outcome
	if outcome == "" {
		outcome = models.OutcomePending
	}
	switch outcome {
	case models.OutcomePending, models.OutcomeHitTarget, models.OutcomeHitStop:
	default:
		return models.Trade{}, errors.NewValidationError("result", in.Outcome, "must be pending, tp or sl")
	}

	rr, err := metrics.ComputeRR(in.Entry, in.StopLoss, in.TakeProfit)
	if err != nil {
		return models.Trade{}, err
	}

	t := models.Trade{
		ID:         id.New(),
		Pair:       pair,
		Direction:  in.Direction,
		Entry:      in.Entry,
		Outcome:    outcome,
		RiskReward: rr,
		Notes:      strings.TrimSpace(in.Notes),
		Timestamp:  now.UTC(),
	}
	if in.StopLoss != nil {
		v := *in.StopLoss
		t.StopLoss = &v
	}
	if in.TakeProfit != nil {
		v := *in.TakeProfit
		t.TakeProfit = &v
	}
	return t, nil
}

// RecordTrade appends the trade to the user's ledger (creating it on first
// write) and persists the whole store. On a persistence failure the append is
// rolled back, so memory and disk never diverge from the caller's view.
func (s *Store) RecordTrade(userID string, trade models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.users[userID]
	s.users[userID] = append(append([]models.Trade{}, prev...), trade)

	if err := s.doc.persist(s.users); err != nil {
		if existed {
			s.users[userID] = prev
		} else {
			delete(s.users, userID)
		}
		s.log.Error().Err(err).Str("user", userID).Msg("Trade append rolled back")
		return err
	}

	s.log.Info().
		Str("user", userID).
		Str("trade", trade.ID).
		Str("pair", trade.Pair).
		Str("rr", trade.RiskReward.String()).
		Msg("Trade recorded")
	return nil
}

// Trades returns the user's trades in insertion order. Unknown users get an
// empty slice; this never fails and never creates a ledger.
func (s *Store) Trades(userID string) []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneTrades(s.users[userID])
}

// Snapshot returns a consistent copy of the entire store, taken under the
// read lock so no in-flight mutation is partially visible.
func (s *Store) Snapshot() map[string][]models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]models.Trade, len(s.users))
	for uid, trades := range s.users {
		out[uid] = models.CloneTrades(trades)
	}
	return out
}

// ResetUser replaces the user's sequence with an empty one and persists.
// Idempotent: resetting an unknown user still succeeds.
func (s *Store) ResetUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.users[userID]
	s.users[userID] = []models.Trade{}

	if err := s.doc.persist(s.users); err != nil {
		if existed {
			s.users[userID] = prev
		} else {
			delete(s.users, userID)
		}
		return err
	}

	s.log.Info().Str("user", userID).Int("cleared", len(prev)).Msg("User ledger reset")
	return nil
}

// ResetAll clears the entire store and persists. Idempotent.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.users
	s.users = map[string][]models.Trade{}

	if err := s.doc.persist(s.users); err != nil {
		s.users = prev
		return err
	}

	s.log.Warn().Int("users", len(prev)).Msg("All ledgers reset")
	return nil
}

// Reload re-reads the document from disk, replacing in-memory state. Unlike
// the cold-start path, a corrupt or unreadable document here is surfaced as a
// PersistenceError and the current state is kept.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.doc.load()
	if err != nil {
		return err
	}
	s.users = users
	return nil
}
