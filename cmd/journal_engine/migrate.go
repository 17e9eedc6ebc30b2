package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/journal_engine/internal/platform/config"
	"github.com/SscSPs/journal_engine/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StoreDriver != config.StoreDriverPostgres {
			return fmt.Errorf("migrate requires STORE_DRIVER=%s", config.StoreDriverPostgres)
		}
		dir := database.Direction(args[0])
		slog.Info("Running database migrations", slog.String("direction", string(dir)), slog.String("path", cfg.MigrationsPath))
		return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, dir)
	},
}
