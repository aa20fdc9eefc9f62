package cli

import (
	"github.com/spf13/cobra"

	"trade-journal/internal/errors"
)

// addResetCommands adds the destructive ledger-clearing commands.
func addResetCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newResetCmd(app))
}

func newResetCmd(app *App) *cobra.Command {
	var (
		all     bool
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear journal data",
		Long: `Clear the acting user's journal, or with --all every user's journal.

The global reset is destructive and requires --confirm; without it the
command only explains what would happen. CLI invocations are their own
process, so request and confirmation travel together in one call.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, ok := app.requireLedger(cmd); !ok {
				return errors.ErrPersistence
			}

			if !all {
				if err := app.Guard.RequestUserReset(userFlag(cmd)); err != nil {
					output.Error("Reset failed: %v", err)
					return err
				}
				output.Success("Journal cleared for user %s", userFlag(cmd))
				return nil
			}

			prompt, err := app.Guard.RequestGlobalReset(true)
			if err != nil {
				output.Error("Reset failed: %v", err)
				return err
			}
			if !confirm {
				app.Guard.CancelGlobalReset()
				output.Warning(prompt)
				output.Dim("Re-run with --confirm to proceed.")
				return nil
			}
			if err := app.Guard.ConfirmGlobalReset(true); err != nil {
				output.Error("Reset failed: %v", err)
				return err
			}
			output.Success("All journals cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear every user's journal, not just yours")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm the global reset")
	return cmd
}
