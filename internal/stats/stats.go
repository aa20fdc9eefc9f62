// Package stats computes read-only aggregates over trade sequences: summary
// counters, time-window filters, best/worst picks, streaks and calendar
// buckets. Nothing here mutates the ledger.
package stats

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal/internal/metrics"
	"trade-journal/internal/models"
)

// Window scopes an aggregation to a relative time range.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// ParseWindow maps user-facing window names onto a Window.
func ParseWindow(s string) (Window, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily", "today":
		return WindowDay, true
	case "week", "weekly":
		return WindowWeek, true
	case "month", "monthly":
		return WindowMonth, true
	case "", "all", "lifetime":
		return WindowAll, true
	}
	return "", false
}

// Summary aggregates a trade sequence.
type Summary struct {
	Total   int             `json:"total"`
	Wins    int             `json:"wins"`
	Losses  int             `json:"losses"`
	Neutral int             `json:"neutral"`
	TotalRR decimal.Decimal `json:"total_rr"`
	AvgRR   decimal.Decimal `json:"avg_rr"`
	WinRate float64         `json:"win_rate"`
}

// Summarize computes the summary counters for a trade sequence. Neutral
// trades (pending outcomes) are counted but excluded from the win-rate
// denominator so open positions don't dilute the rate.
func Summarize(trades []models.Trade) Summary {
	s := Summary{
		TotalRR: decimal.Zero,
		AvgRR:   decimal.Zero,
	}

	for _, t := range trades {
		s.Total++
		s.TotalRR = s.TotalRR.Add(t.RiskReward)
		switch metrics.ClassifyOutcome(t.Outcome) {
		case models.ResultWin:
			s.Wins++
		case models.ResultLoss:
			s.Losses++
		default:
			s.Neutral++
		}
	}

	if s.Total > 0 {
		s.AvgRR = s.TotalRR.Div(decimal.NewFromInt(int64(s.Total))).Round(2)
	}
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided) * 100
	}
	return s
}

// FilterByWindow returns the trades whose timestamps fall inside the window
// ending at now, preserving order. Day and week are rolling ranges; month is
// the current UTC calendar month, not a rolling 30 days.
func FilterByWindow(trades []models.Trade, w Window, now time.Time) []models.Trade {
	if w == WindowAll {
		return trades
	}

	now = now.UTC()
	var cutoff time.Time
	switch w {
	case WindowDay:
		cutoff = now.Add(-24 * time.Hour)
	case WindowWeek:
		cutoff = now.AddDate(0, 0, -7)
	case WindowMonth:
		cutoff = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return trades
	}

	var out []models.Trade
	for _, t := range trades {
		ts := t.Timestamp.UTC()
		if !ts.Before(cutoff) && !ts.After(now) {
			out = append(out, t)
		}
	}
	return out
}

// BestTrade returns the trade with the highest stored risk:reward ratio, or
// nil for an empty sequence. Ties keep the first trade in insertion order.
func BestTrade(trades []models.Trade) *models.Trade {
	var best *models.Trade
	for i := range trades {
		if best == nil || trades[i].RiskReward.GreaterThan(best.RiskReward) {
			best = &trades[i]
		}
	}
	if best == nil {
		return nil
	}
	c := best.Clone()
	return &c
}

// WorstTrade returns the trade with the lowest stored risk:reward ratio, or
// nil for an empty sequence. Ties keep the first trade in insertion order.
func WorstTrade(trades []models.Trade) *models.Trade {
	var worst *models.Trade
	for i := range trades {
		if worst == nil || trades[i].RiskReward.LessThan(worst.RiskReward) {
			worst = &trades[i]
		}
	}
	if worst == nil {
		return nil
	}
	c := worst.Clone()
	return &c
}

// CurrentStreak counts consecutive winning trades ending at the most recent
// one. The first non-win (loss or neutral) stops the scan; an empty sequence
// or a non-winning latest trade yields 0.
func CurrentStreak(trades []models.Trade) int {
	streak := 0
	for i := len(trades) - 1; i >= 0; i-- {
		if metrics.ClassifyOutcome(trades[i].Outcome) != models.ResultWin {
			break
		}
		streak++
	}
	return streak
}

// DayBucket is one calendar date's aggregate.
type DayBucket struct {
	Date    string          `json:"date"` // YYYY-MM-DD, UTC
	Count   int             `json:"count"`
	TotalRR decimal.Decimal `json:"total_rr"`
}

// Calendar buckets trades by the UTC calendar date of their timestamps.
// Buckets appear in first-seen order of distinct dates.
func Calendar(trades []models.Trade) []DayBucket {
	index := make(map[string]int)
	var buckets []DayBucket

	for _, t := range trades {
		key := t.Timestamp.UTC().Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, DayBucket{Date: key, TotalRR: decimal.Zero})
		}
		buckets[i].Count++
		buckets[i].TotalRR = buckets[i].TotalRR.Add(t.RiskReward)
	}
	return buckets
}
