package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"casamento/internal/config"
	"casamento/internal/database"
	"casamento/internal/logging"
)

type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "weddingctl",
		Short:        "Operator tools for the wedding API database",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Back up everything to a JSON file
  weddingctl export --output backup.json

  # Merge a backup into the current database
  weddingctl import --input backup.json

  # Create a guest and print their invitation code
  weddingctl invite --name "Maria Silva" --email maria@example.com
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.NewConsole(cfg.LogLevel)
			return nil
		},
	}

	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newInviteCmd(a))
	cmd.AddCommand(newSummaryCmd(a))
	cmd.AddCommand(newHashPasswordCmd(a))
	cmd.AddCommand(newTokenCmd(a))

	return cmd
}

// openDB connects and migrates, so every command sees the current schema
func (a *app) openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(a.cfg.DatabaseType, a.cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if _, err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
