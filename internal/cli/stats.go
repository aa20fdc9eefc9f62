package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/stats"
)

// addStatsCommands adds the read-only aggregation commands.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newBestCmd(app))
	rootCmd.AddCommand(newWorstCmd(app))
	rootCmd.AddCommand(newStreakCmd(app))
	rootCmd.AddCommand(newLeaderboardCmd(app))
	rootCmd.AddCommand(newCalendarCmd(app))
}

func newStatsCmd(app *App) *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate stats for a time window",
		Long: `Summarize the user's trades: totals, win rate and average risk:reward.

The win rate counts only decided trades; open positions are excluded from
the denominator. Windows: day (rolling 24h), week (rolling 7d), month
(current calendar month) or all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}

			w, ok := stats.ParseWindow(window)
			if !ok {
				output.Error("Unknown window %q, use day, week, month or all", window)
				return errors.ErrInvalidTradeInput
			}

			trades := stats.FilterByWindow(store.Trades(userFlag(cmd)), w, time.Now())
			summary := stats.Summarize(trades)

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Stats (%s)", w)
			output.Printf("  Trades:    %d\n", summary.Total)
			output.Printf("  Wins:      %s\n", output.Green(fmt.Sprintf("%d", summary.Wins)))
			output.Printf("  Losses:    %s\n", output.Red(fmt.Sprintf("%d", summary.Losses)))
			output.Printf("  Open:      %d\n", summary.Neutral)
			output.Printf("  Win Rate:  %.1f%%\n", summary.WinRate)
			output.Printf("  Avg R:R:   %s\n", summary.AvgRR)
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", "all", "time window: day, week, month or all")
	return cmd
}

func newBestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Show the trade with the highest risk:reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}
			return printPickedTrade(cmd, "Best trade", stats.BestTrade(store.Trades(userFlag(cmd))))
		},
	}
}

func newWorstCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "worst",
		Short: "Show the trade with the lowest risk:reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}
			return printPickedTrade(cmd, "Worst trade", stats.WorstTrade(store.Trades(userFlag(cmd))))
		},
	}
}

func printPickedTrade(cmd *cobra.Command, title string, t *models.Trade) error {
	output := NewOutput(cmd)
	if t == nil {
		if output.IsJSON() {
			return output.JSON(nil)
		}
		output.Dim("No trades recorded yet.")
		return nil
	}
	if output.IsJSON() {
		return output.JSON(t)
	}

	output.Bold(title)
	output.Printf("  Pair:      %s %s\n", strings.ToUpper(t.Pair), t.Direction)
	output.Printf("  Entry:     %s\n", t.Entry)
	output.Printf("  SL / TP:   %s / %s\n", optionalPrice(t.StopLoss), optionalPrice(t.TakeProfit))
	output.Printf("  R:R:       %s\n", t.RiskReward)
	output.Printf("  Result:    %s\n", colorResult(output, t.Outcome))
	output.Printf("  Date:      %s\n", t.Timestamp.Format("2006-01-02 15:04"))
	return nil
}

func newStreakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current winning streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}

			streak := stats.CurrentStreak(store.Trades(userFlag(cmd)))
			if output.IsJSON() {
				return output.JSON(map[string]int{"streak": streak})
			}
			if streak == 0 {
				output.Dim("No active winning streak.")
			} else {
				output.Success("Current winning streak: %d", streak)
			}
			return nil
		},
	}
}

func newLeaderboardCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank users by lifetime average risk:reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}

			standings := stats.Leaderboard(store.Snapshot(), limit)
			if output.IsJSON() {
				return output.JSON(standings)
			}
			if len(standings) == 0 {
				output.Dim("Leaderboard is empty.")
				return nil
			}

			table := NewTable(output, "#", "USER", "AVG R:R", "TRADES")
			for i, s := range standings {
				table.AddRow(
					fmt.Sprintf("%d", i+1),
					s.UserID,
					s.AvgRR.String(),
					fmt.Sprintf("%d", s.Trades),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum entries to show (0 for all)")
	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Show per-day trade buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}

			buckets := stats.Calendar(store.Trades(userFlag(cmd)))
			if output.IsJSON() {
				return output.JSON(buckets)
			}
			if len(buckets) == 0 {
				output.Dim("No trades on the calendar yet.")
				return nil
			}

			table := NewTable(output, "DATE", "TRADES", "TOTAL R:R")
			for _, b := range buckets {
				table.AddRow(b.Date, fmt.Sprintf("%d", b.Count), b.TotalRR.String())
			}
			table.Render()
			return nil
		},
	}
}
