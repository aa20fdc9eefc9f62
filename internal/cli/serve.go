package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/bot"
	"trade-journal/internal/errors"
	"trade-journal/internal/web"
)

// addServeCommands adds the long-running front-end command.
func addServeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newServeCmd(app))
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat bot and health endpoint",
		Long: `Start the Telegram bot over the shared ledger, plus the HTTP liveness
endpoint if enabled. Requires bot.token in the config or the
TELEGRAM_BOT_TOKEN environment variable. Stops on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}
			if app.Config.Bot.Token == "" {
				output.Error("No bot token configured, set bot.token or TELEGRAM_BOT_TOKEN")
				return errors.ErrInvalidTradeInput
			}

			b, err := bot.New(app.Config, store, app.Guard, app.Logger)
			if err != nil {
				output.Error("Failed to start bot: %v", err)
				return err
			}

			var health *web.Server
			if app.Config.Health.Enabled {
				health = web.NewServer(app.Config.Health.Addr, app.Logger)
				health.Start()
			}

			go b.Start()
			output.Success("Bot is running, press Ctrl+C to stop")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			output.Println()
			output.Info("Shutting down...")
			b.Stop()
			if health != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := health.Shutdown(ctx); err != nil {
					app.Logger.Warn().Err(err).Msg("Health endpoint shutdown failed")
				}
			}
			return nil
		},
	}
}
