package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"trade-journal/internal/archive"
	"trade-journal/internal/config"
	"trade-journal/internal/errors"
)

// addExportCommands adds the archive export command.
func addExportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExportCmd(app))
}

func newExportCmd(app *App) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger to a SQLite archive",
		Long: `Copy a consistent snapshot of every user's trades into a SQLite file
for ad-hoc querying and offline backup. Stored risk:reward values are
copied as-is. Re-exporting over the same file is idempotent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			store, ok := app.requireLedger(cmd)
			if !ok {
				return errors.ErrPersistence
			}

			if dbPath == "" {
				dbPath = filepath.Join(config.DefaultConfigDir(), "journal_archive.db")
			}

			writer, err := archive.NewWriter(dbPath)
			if err != nil {
				output.Error("Failed to open archive: %v", err)
				return err
			}
			defer writer.Close()

			count, err := writer.Snapshot(cmd.Context(), store.Snapshot())
			if err != nil {
				output.Error("Export failed: %v", err)
				return err
			}

			total, err := writer.Count(context.Background(), "")
			if err != nil {
				total = count
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"path":     dbPath,
					"written":  count,
					"archived": total,
				})
			}
			output.Success("Exported %d trades to %s", count, dbPath)
			output.Dim("Archive now holds %d trades", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "archive file path (default: <config dir>/journal_archive.db)")
	return cmd
}
