// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-journal/internal/config"
	"trade-journal/internal/ledger"
	"trade-journal/internal/logging"
	"trade-journal/internal/reset"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Ledger *ledger.Store
	Guard  *reset.Guard
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	store, err := ledger.Open(cfg.Storage.DataFile, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open ledger, journal commands unavailable")
	} else {
		app.Ledger = store
		app.Guard = reset.NewGuard(store, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trade journal - per-user trade tracking and stats",
		Long: `Trade journal records trades with a frozen risk:reward ratio and
aggregates them into win rates, streaks, leaderboards and calendars.

Entries are kept per user in a single JSON document; every mutation is
persisted before it is acknowledged.

Use 'journal help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-journal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("user", "local", "ledger user id to act as")

	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addResetCommands(rootCmd, app)
	addServeCommands(rootCmd, app)
	addExportCommands(rootCmd, app)

	return rootCmd
}

// requireLedger guards commands that need a working store.
func (a *App) requireLedger(cmd *cobra.Command) (*ledger.Store, bool) {
	if a.Ledger == nil {
		NewOutput(cmd).Error("Ledger unavailable, check the data file path in your config")
		return nil, false
	}
	return a.Ledger, true
}

// userFlag resolves the --user global flag.
func userFlag(cmd *cobra.Command) string {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		user = "local"
	}
	return user
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Trade Journal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Storage")
	output.Printf("  Data File:  %s\n", cfg.Storage.DataFile)
	output.Println()

	output.Bold("Bot")
	tokenSet := "no"
	if cfg.Bot.Token != "" {
		tokenSet = "yes"
	}
	output.Printf("  Token Set:  %s\n", tokenSet)
	output.Printf("  Admins:     %d\n", len(cfg.Bot.AdminIDs))
	output.Println()

	output.Bold("Health")
	output.Printf("  Enabled:    %v\n", cfg.Health.Enabled)
	output.Printf("  Addr:       %s\n", cfg.Health.Addr)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:      %s\n", cfg.Logging.Level)
	output.Printf("  Console:    %v\n", cfg.Logging.Console)
	output.Printf("  File:       %v\n", cfg.Logging.File)

	return nil
}
