package stats

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/models"
)

func mkTrade(id string, rr string, outcome models.Outcome, ts time.Time) models.Trade {
	return models.Trade{
		ID:         id,
		Pair:       "btcusdt",
		Direction:  models.DirectionLong,
		Entry:      decimal.NewFromInt(100),
		Outcome:    outcome,
		RiskReward: decimal.RequireFromString(rr),
		Timestamp:  ts,
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		mkTrade("a", "3", models.OutcomeHitTarget, now),
		mkTrade("b", "2", models.OutcomeHitStop, now),
		mkTrade("c", "5", models.OutcomeHitTarget, now),
		mkTrade("d", "1", models.OutcomePending, now),
	}

	s := Summarize(trades)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Neutral)
	// 2 wins out of 3 decided; the open trade does not dilute the rate.
	assert.InDelta(t, 66.666, s.WinRate, 0.01)
	assert.True(t, s.TotalRR.Equal(decimal.RequireFromString("11")))
	assert.True(t, s.AvgRR.Equal(decimal.RequireFromString("2.75")))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.WinRate)
	assert.True(t, s.AvgRR.IsZero())
}

func TestSummarizeAllNeutral(t *testing.T) {
	now := time.Now()
	s := Summarize([]models.Trade{
		mkTrade("a", "2", models.OutcomePending, now),
		mkTrade("b", "3", models.OutcomePending, now),
	})
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 0.0, s.WinRate)
}

// Counters must partition the sequence regardless of outcome mix.
func TestSummarizeCountersPartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	outcomes := []models.Outcome{models.OutcomePending, models.OutcomeHitTarget, models.OutcomeHitStop}

	properties.Property("wins+losses+neutral equals total", prop.ForAll(
		func(picks []int8) bool {
			now := time.Now()
			trades := make([]models.Trade, len(picks))
			for i, p := range picks {
				trades[i] = mkTrade("t", "1", outcomes[int(p)%3], now)
			}
			s := Summarize(trades)
			return s.Total == len(trades) && s.Wins+s.Losses+s.Neutral == s.Total
		},
		gen.SliceOf(gen.Int8Range(0, 2)),
	))

	properties.TestingRun(t)
}

func TestParseWindow(t *testing.T) {
	for input, want := range map[string]Window{
		"day":      WindowDay,
		"Daily":    WindowDay,
		"week":     WindowWeek,
		"month":    WindowMonth,
		"":         WindowAll,
		"all":      WindowAll,
		"lifetime": WindowAll,
	} {
		got, ok := ParseWindow(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, ok := ParseWindow("fortnight")
	assert.False(t, ok)
}

func TestFilterByWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		mkTrade("hour-ago", "1", models.OutcomePending, now.Add(-time.Hour)),
		mkTrade("two-days", "1", models.OutcomePending, now.AddDate(0, 0, -2)),
		mkTrade("six-days", "1", models.OutcomePending, now.AddDate(0, 0, -6)),
		mkTrade("month-start", "1", models.OutcomePending, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		mkTrade("prev-month", "1", models.OutcomePending, time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)),
	}

	ids := func(ts []models.Trade) []string {
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = t.ID
		}
		return out
	}

	assert.Equal(t, []string{"hour-ago"}, ids(FilterByWindow(trades, WindowDay, now)))
	assert.Equal(t, []string{"hour-ago", "two-days", "six-days"}, ids(FilterByWindow(trades, WindowWeek, now)))
	// Month is the calendar month: midnight on the 1st is in, the last
	// second of the previous month is out.
	assert.Equal(t, []string{"hour-ago", "two-days", "six-days", "month-start"}, ids(FilterByWindow(trades, WindowMonth, now)))
	assert.Len(t, FilterByWindow(trades, WindowAll, now), len(trades))
}

func TestFilterByWindowExcludesFuture(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		mkTrade("future", "1", models.OutcomePending, now.Add(time.Hour)),
	}
	assert.Empty(t, FilterByWindow(trades, WindowDay, now))
}

func TestBestWorstTrade(t *testing.T) {
	now := time.Now()
	trades := []models.Trade{
		mkTrade("a", "2", models.OutcomeHitTarget, now),
		mkTrade("b", "5", models.OutcomeHitStop, now),
		mkTrade("c", "5", models.OutcomeHitTarget, now),
		mkTrade("d", "0.5", models.OutcomePending, now),
	}

	best := BestTrade(trades)
	require.NotNil(t, best)
	// First of the tied maxima wins.
	assert.Equal(t, "b", best.ID)

	worst := WorstTrade(trades)
	require.NotNil(t, worst)
	assert.Equal(t, "d", worst.ID)
}

func TestBestWorstTradeEmpty(t *testing.T) {
	assert.Nil(t, BestTrade(nil))
	assert.Nil(t, WorstTrade(nil))
}

func TestCurrentStreak(t *testing.T) {
	now := time.Now()
	win := func(id string) models.Trade { return mkTrade(id, "2", models.OutcomeHitTarget, now) }
	loss := func(id string) models.Trade { return mkTrade(id, "2", models.OutcomeHitStop, now) }
	open := func(id string) models.Trade { return mkTrade(id, "2", models.OutcomePending, now) }

	assert.Equal(t, 0, CurrentStreak(nil))
	assert.Equal(t, 3, CurrentStreak([]models.Trade{loss("a"), win("b"), win("c"), win("d")}))
	assert.Equal(t, 0, CurrentStreak([]models.Trade{win("a"), win("b"), loss("c")}))
	// A pending trade interrupts the streak just like a loss.
	assert.Equal(t, 1, CurrentStreak([]models.Trade{win("a"), open("b"), win("c")}))
}

func TestCalendar(t *testing.T) {
	d1 := time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		mkTrade("a", "2", models.OutcomeHitTarget, d2),
		mkTrade("b", "1", models.OutcomeHitStop, d1),
		mkTrade("c", "3", models.OutcomeHitTarget, d2.Add(5*time.Hour)),
	}

	buckets := Calendar(trades)
	require.Len(t, buckets, 2)
	// Buckets come out in first-seen order, not sorted by date.
	assert.Equal(t, "2024-06-15", buckets[0].Date)
	assert.Equal(t, 2, buckets[0].Count)
	assert.True(t, buckets[0].TotalRR.Equal(decimal.RequireFromString("5")))
	assert.Equal(t, "2024-06-14", buckets[1].Date)
	assert.Equal(t, 1, buckets[1].Count)
}
