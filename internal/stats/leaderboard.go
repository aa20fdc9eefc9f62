package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"trade-journal/internal/models"
)

// Standing is one leaderboard row: a user ranked by lifetime average
// risk:reward over their full history.
type Standing struct {
	UserID string          `json:"user_id"`
	AvgRR  decimal.Decimal `json:"avg_rr"`
	Trades int             `json:"trades"`
}

// Leaderboard ranks users by lifetime average RR, descending. Users with no
// trades are skipped. Ties are broken by user id ascending so repeated calls
// over unchanged data produce identical output. The result is truncated to
// limit rows (limit <= 0 means no truncation).
func Leaderboard(snapshot map[string][]models.Trade, limit int) []Standing {
	standings := make([]Standing, 0, len(snapshot))
	for uid, trades := range snapshot {
		if len(trades) == 0 {
			continue
		}
		total := decimal.Zero
		for _, t := range trades {
			total = total.Add(t.RiskReward)
		}
		standings = append(standings, Standing{
			UserID: uid,
			AvgRR:  total.Div(decimal.NewFromInt(int64(len(trades)))).Round(2),
			Trades: len(trades),
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if !standings[i].AvgRR.Equal(standings[j].AvgRR) {
			return standings[i].AvgRR.GreaterThan(standings[j].AvgRR)
		}
		return standings[i].UserID < standings[j].UserID
	})

	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}
	return standings
}
