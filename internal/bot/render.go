package bot

import (
	"fmt"
	"strings"

	"trade-journal/internal/models"
	"trade-journal/internal/stats"
)

// The render helpers own all user-facing phrasing; the core packages only
// return structured data.

func renderTradeAdded(t models.Trade) string {
	return fmt.Sprintf("Trade added: %s %s @ %s (R:R %s)",
		strings.ToUpper(t.Pair), t.Direction, t.Entry.String(), t.RiskReward.String())
}

func renderSummary(label string, s stats.Summary) string {
	if s.Total == 0 {
		return fmt.Sprintf("No trades for %s.", label)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s stats*\n", label)
	fmt.Fprintf(&sb, "Trades: %d\n", s.Total)
	fmt.Fprintf(&sb, "Wins/Losses/Open: %d/%d/%d\n", s.Wins, s.Losses, s.Neutral)
	fmt.Fprintf(&sb, "Win rate: %.1f%%\n", s.WinRate)
	fmt.Fprintf(&sb, "Avg R:R: %s", s.AvgRR.String())
	return sb.String()
}

func renderTrade(label string, t *models.Trade) string {
	if t == nil {
		return "No trades yet."
	}
	sl, tp := skipToken, skipToken
	if t.StopLoss != nil {
		sl = t.StopLoss.String()
	}
	if t.TakeProfit != nil {
		tp = t.TakeProfit.String()
	}
	return fmt.Sprintf("*%s*\n%s %s\nEntry: %s  SL: %s  TP: %s\nR:R: %s  Result: %s",
		label, strings.ToUpper(t.Pair), t.Direction, t.Entry.String(), sl, tp,
		t.RiskReward.String(), t.Outcome)
}

func renderStreak(n int) string {
	if n == 0 {
		return "No active winning streak."
	}
	return fmt.Sprintf("Current winning streak: %d", n)
}

func renderLeaderboard(standings []stats.Standing, nameFor func(string) string) string {
	if len(standings) == 0 {
		return "Leaderboard is empty."
	}
	var sb strings.Builder
	sb.WriteString("*Leaderboard (avg R:R)*\n")
	for i, s := range standings {
		fmt.Fprintf(&sb, "%d. %s — %s (%d trades)\n", i+1, nameFor(s.UserID), s.AvgRR.String(), s.Trades)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderCalendar(buckets []stats.DayBucket) string {
	if len(buckets) == 0 {
		return "No trades on the calendar yet."
	}
	var sb strings.Builder
	sb.WriteString("*Trading calendar*\n")
	for _, b := range buckets {
		fmt.Fprintf(&sb, "%s — %d trades, total R:R %s\n", b.Date, b.Count, b.TotalRR.String())
	}
	return strings.TrimRight(sb.String(), "\n")
}

const helpText = `*Trade journal commands*
/trade <pair> <long|short> <entry> <sl|-> <tp|-> [tp|sl] [notes] — record a trade
/stats [day|week|month|all] — your stats for a window
/best — your best trade by R:R
/worst — your worst trade by R:R
/streak — current winning streak
/leaderboard — top traders by avg R:R
/calendar — per-day trade buckets
/reset — clear your own journal
/resetall — admin: request a global reset
/confirmreset — admin: confirm the global reset
/cancelreset — admin: cancel a pending global reset
/ping — check the bot is alive`
