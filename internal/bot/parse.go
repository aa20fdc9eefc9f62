package bot

import (
	"strings"

	"github.com/shopspring/decimal"

	"trade-journal/internal/errors"
	"trade-journal/internal/ledger"
	"trade-journal/internal/models"
)

// skipToken marks an absent optional price leg in the /trade command.
const skipToken = "-"

// ParseTradeArgs turns the /trade payload into a typed trade input.
//
// Format: <pair> <long|short|buy|sell> <entry> <sl|-> <tp|-> [tp|sl|pending] [notes...]
//
// Prices must be numeric; "-" skips an optional leg. Everything after the
// optional outcome tag is free-text notes.
func ParseTradeArgs(payload string) (ledger.TradeInput, error) {
	fields := strings.Fields(payload)
	if len(fields) < 5 {
		return ledger.TradeInput{}, errors.NewValidationError(
			"arguments", payload, "usage: /trade <pair> <long|short> <entry> <sl|-> <tp|-> [tp|sl] [notes]")
	}

	direction, ok := models.ParseDirection(fields[1])
	if !ok {
		return ledger.TradeInput{}, errors.NewValidationError("direction", fields[1], "must be long or short")
	}

	entry, err := decimal.NewFromString(fields[2])
	if err != nil {
		return ledger.TradeInput{}, errors.NewValidationError("entry", fields[2], "not a number")
	}

	stopLoss, err := parseOptionalPrice("stop_loss", fields[3])
	if err != nil {
		return ledger.TradeInput{}, err
	}
	takeProfit, err := parseOptionalPrice("take_profit", fields[4])
	if err != nil {
		return ledger.TradeInput{}, err
	}

	in := ledger.TradeInput{
		Pair:       fields[0],
		Direction:  direction,
		Entry:      entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Outcome:    models.OutcomePending,
	}

	rest := fields[5:]
	if len(rest) > 0 {
		if outcome, ok := models.ParseOutcome(rest[0]); ok {
			in.Outcome = outcome
			rest = rest[1:]
		}
	}
	in.Notes = strings.Join(rest, " ")

	return in, nil
}

func parseOptionalPrice(field, token string) (*decimal.Decimal, error) {
	if token == skipToken {
		return nil, nil
	}
	v, err := decimal.NewFromString(token)
	if err != nil {
		return nil, errors.NewValidationError(field, token, "not a number")
	}
	return &v, nil
}
