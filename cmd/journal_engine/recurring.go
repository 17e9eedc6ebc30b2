package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/spf13/cobra"
)

var asOfFlag string

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Recurring template operations",
}

var runDueCmd = &cobra.Command{
	Use:   "run-due",
	Short: "Post every due recurring template once and exit",
	Long: `Scans all workplaces for templates due on or before --as-of and posts
their entries. A failing template is reported and does not stop the scan.

Example:
  journal_engine recurring run-due --as-of 2024-05-01`,
	RunE: runDue,
}

func init() {
	runDueCmd.Flags().StringVar(&asOfFlag, "as-of", "", "Run date (YYYY-MM-DD), defaults to today")
	recurringCmd.AddCommand(runDueCmd)
}

func runDue(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	asOf := domain.DateOf(time.Now().UTC())
	if asOfFlag != "" {
		parsed, err := time.Parse(time.DateOnly, asOfFlag)
		if err != nil {
			return fmt.Errorf("invalid --as-of %q: %w", asOfFlag, err)
		}
		asOf = parsed
	}

	rt, err := buildRuntime(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	summary, err := rt.services.Journal.RunDueRecurring(cmd.Context(), asOf)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d recurring occurrence(s) failed", len(summary.Failed))
	}
	return nil
}
