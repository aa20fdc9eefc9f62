// Package models provides domain models for the trade journal.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction represents the side of a trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// ParseDirection maps common buy/sell spellings onto a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return DirectionLong, true
	case "short", "sell":
		return DirectionShort, true
	}
	return "", false
}

// Outcome represents the recorded result of a trade.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeHitTarget Outcome = "tp"
	OutcomeHitStop   Outcome = "sl"
)

// ParseOutcome maps an outcome tag onto an Outcome. The empty string is
// pending: a trade recorded before its result is known.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending", "open":
		return OutcomePending, true
	case "tp", "target", "win":
		return OutcomeHitTarget, true
	case "sl", "stop", "loss":
		return OutcomeHitStop, true
	}
	return "", false
}

// Result classifies an outcome for aggregation purposes.
type Result int

const (
	ResultNeutral Result = iota
	ResultWin
	ResultLoss
)

// Trade is a single journal entry. Trades are immutable once recorded:
// corrections are new trades, and the stored risk:reward ratio is never
// recomputed so historical stats stay stable.
type Trade struct {
	ID         string           `json:"id"`
	Pair       string           `json:"pair"`
	Direction  Direction        `json:"direction"`
	Entry      decimal.Decimal  `json:"entry"`
	StopLoss   *decimal.Decimal `json:"sl,omitempty"`
	TakeProfit *decimal.Decimal `json:"tp,omitempty"`
	Outcome    Outcome          `json:"result"`
	RiskReward decimal.Decimal  `json:"rr"`
	Notes      string           `json:"notes,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Clone returns a copy of the trade with its own pointer fields, so callers
// holding snapshots cannot alias ledger state.
func (t Trade) Clone() Trade {
	c := t
	if t.StopLoss != nil {
		v := *t.StopLoss
		c.StopLoss = &v
	}
	if t.TakeProfit != nil {
		v := *t.TakeProfit
		c.TakeProfit = &v
	}
	return c
}

// CloneTrades deep-copies a trade slice.
func CloneTrades(trades []Trade) []Trade {
	out := make([]Trade, len(trades))
	for i, t := range trades {
		out[i] = t.Clone()
	}
	return out
}
