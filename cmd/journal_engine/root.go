package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/journal_engine/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	debug    bool
	seedFile string
)

var rootCmd = &cobra.Command{
	Use:   "journal_engine",
	Short: "Double-entry journal posting engine",
	Long: `journal_engine builds, posts, reverses and voids journal entries,
projects them into an append-only account ledger and runs recurring templates.

Example:
  journal_engine migrate up
  journal_engine serve
  journal_engine recurring run-due --as-of 2024-05-01`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		loaded, err := config.LoadConfig()
		if err != nil {
			logger.Error("Failed to load config", slog.String("error", err.Error()))
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&seedFile, "seed", "", "YAML accounts/periods fixture for STORE_DRIVER=memory")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(recurringCmd)
}
