package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/go-todo-api/internal/config"
	"github.com/redmonkez12/go-todo-api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <" + strings.Join(database.MigrationCommands, "|") + "> [args]",
		Short:     "Run database migrations",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: database.MigrationCommands,
		RunE:      runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations need DB_DRIVER=%s, got %s", config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := database.Open(cmd.Context(), cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(cmd.Context(), db.DB, args[0], args[1:]...)
}
