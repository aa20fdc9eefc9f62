// Package metrics provides the pure risk:reward calculations the ledger
// stores at trade-creation time.
package metrics

import (
	"github.com/shopspring/decimal"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// ComputeRR derives the risk:reward ratio from a trade's prices.
//
// risk is the distance from entry to stop, reward the distance from entry to
// target; absent legs contribute zero. A zero risk yields a ratio of 0 --
// this is the documented degenerate case, not an error. Only a trade with
// neither stop nor target is rejected, since it can carry no ratio at all.
// The ratio is rounded to 2 decimal places.
func ComputeRR(entry decimal.Decimal, stopLoss, takeProfit *decimal.Decimal) (decimal.Decimal, error) {
	if stopLoss == nil && takeProfit == nil {
		return decimal.Zero, errors.NewValidationError(
			"stop_loss/take_profit", nil, "at least one of stop-loss or take-profit is required")
	}

	risk := decimal.Zero
	if stopLoss != nil {
		risk = entry.Sub(*stopLoss).Abs()
	}
	reward := decimal.Zero
	if takeProfit != nil {
		reward = takeProfit.Sub(entry).Abs()
	}

	if risk.IsZero() {
		return decimal.Zero, nil
	}
	return reward.Div(risk).Round(2), nil
}

// ClassifyOutcome maps a trade outcome onto a win/loss/neutral result.
// Anything that is not a definitive hit (including pending) is neutral.
func ClassifyOutcome(outcome models.Outcome) models.Result {
	switch outcome {
	case models.OutcomeHitTarget:
		return models.ResultWin
	case models.OutcomeHitStop:
		return models.ResultLoss
	default:
		return models.ResultNeutral
	}
}
