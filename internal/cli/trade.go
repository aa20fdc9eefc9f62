package cli

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"trade-journal/internal/errors"
	"trade-journal/internal/ledger"
	"trade-journal/internal/models"
)

// addTradeCommands adds the trade recording and listing commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newListCmd(app))
}

func newTradeCmd(app *App) *cobra.Command {
	var (
		stopLoss   string
		takeProfit string
		outcome    string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "trade <pair> <long|short> <entry>",
		Short: "Record a trade",
		Long: `Record a trade in your journal. The risk:reward ratio is computed from
the entry, stop-loss and take-profit prices and frozen at record time.

Examples:
  journal trade btcusdt long 50000 --sl 48000 --tp 56000
  journal trade eurusd short 1.0950 --sl 1.1000 --tp 1.0800 --outcome tp
  journal trade xauusd long 2400 --tp 2450 --notes "breakout retest"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}

			direction, ok := models.ParseDirection(args[1])
			if !ok {
				output.Error("Direction must be long or short, got %q", args[1])
				return errors.ErrInvalidTradeInput
			}
			entry, err := decimal.NewFromString(args[2])
			if err != nil {
				output.Error("Entry price %q is not a number", args[2])
				return errors.ErrInvalidTradeInput
			}

			in := ledger.TradeInput{
				Pair:      args[0],
				Direction: direction,
				Entry:     entry,
				Notes:     notes,
			}
			if in.StopLoss, err = parsePriceFlag("sl", stopLoss); err != nil {
				output.Error("%v", err)
				return err
			}
			if in.TakeProfit, err = parsePriceFlag("tp", takeProfit); err != nil {
				output.Error("%v", err)
				return err
			}
			if outcome != "" {
				parsed, ok := models.ParseOutcome(outcome)
				if !ok {
					output.Error("Outcome must be tp, sl or pending, got %q", outcome)
					return errors.ErrInvalidTradeInput
				}
				in.Outcome = parsed
			}

			trade, err := ledger.NewTrade(in, time.Now())
			if err != nil {
				output.Error("Invalid trade: %v", err)
				return err
			}
			if err := store.RecordTrade(userFlag(cmd), trade); err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Trade recorded: %s %s @ %s", strings.ToUpper(trade.Pair), trade.Direction, trade.Entry)
			output.Printf("  ID:   %s\n", trade.ID)
			output.Printf("  R:R:  %s\n", trade.RiskReward)
			return nil
		},
	}

	cmd.Flags().StringVar(&stopLoss, "sl", "", "stop-loss price")
	cmd.Flags().StringVar(&takeProfit, "tp", "", "take-profit price")
	cmd.Flags().StringVar(&outcome, "outcome", "", "trade outcome: tp, sl or pending")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	return cmd
}

func parsePriceFlag(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.NewValidationError(name, value, "not a number")
	}
	return &v, nil
}

func newListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}

			trades := store.Trades(userFlag(cmd))
			if limit > 0 && len(trades) > limit {
				trades = trades[len(trades)-limit:]
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Dim("No trades recorded yet.")
				return nil
			}

			table := NewTable(output, "DATE", "PAIR", "DIR", "ENTRY", "SL", "TP", "R:R", "RESULT")
			for _, t := range trades {
				table.AddRow(
					t.Timestamp.Format("2006-01-02"),
					strings.ToUpper(t.Pair),
					string(t.Direction),
					t.Entry.String(),
					optionalPrice(t.StopLoss),
					optionalPrice(t.TakeProfit),
					t.RiskReward.String(),
					colorResult(output, t.Outcome),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent N trades")
	return cmd
}

func optionalPrice(p *decimal.Decimal) string {
	if p == nil {
		return "-"
	}
	return p.String()
}

func colorResult(output *Output, o models.Outcome) string {
	switch o {
	case models.OutcomeHitTarget:
		return output.Green(string(o))
	case models.OutcomeHitStop:
		return output.Red(string(o))
	default:
		return output.Yellow(string(o))
	}
}
