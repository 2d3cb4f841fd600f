package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"casamento/internal/service"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export guests, gifts and purchases to JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			if output == "" {
				output = fmt.Sprintf("casamento_backup_%s.json", time.Now().Format("20060102_150405"))
			}

			backup := service.NewBackupService(db, a.log)
			if err := backup.Export(ctx, output); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output file path (default: casamento_backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Merge a JSON backup into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return writeErr(cmd, errors.New("--input is required"))
			}

			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			stats, err := service.NewBackupService(db, a.log).Import(ctx, input)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d guests, %d gifts, %d purchases (%d skipped)\n",
				stats.Guests, stats.Gifts, stats.Purchases, stats.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Backup file to import (required)")
	return cmd
}
