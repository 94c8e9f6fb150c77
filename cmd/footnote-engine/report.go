// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/footnote-engine/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Query the run history (list, unmatched)",
	Long: `Report reads the run-history database that process writes. Use list to
see recent runs with their confidence tallies, or unmatched to print the
red footnotes of one run for manual review.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runReportList,
}

func runReportList(cmd *cobra.Command, args []string) error {
	store, err := report.NewStore(reportConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-6s  %-20s  %-30s  %6s  %6s  %7s  %4s\n",
		"Run", "Started", "Input", "Total", "Green", "Yellow", "Red")
	for _, r := range runs {
		input := r.Input
		if len(input) > 30 {
			input = input[:27] + "..."
		}
		fmt.Printf("%-6d  %-20s  %-30s  %6d  %6d  %7d  %4d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), input,
			r.Total, r.Green, r.Yellow, r.Red)
	}
	return nil
}

var reportUnmatchedCmd = &cobra.Command{
	Use:   "unmatched [run-id]",
	Short: "Print the unmatched footnotes of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportUnmatched,
}

func runReportUnmatched(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := report.NewStore(reportConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Unmatched(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("Run %d has no unmatched footnotes.\n", runID)
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%d: %s\n", rec.Index+1, rec.PreprocessedText)
	}
	fmt.Printf("\n%d unmatched\n", len(records))
	return nil
}

func init() {
	reportCmd.PersistentFlags().String("report-dir", "report", "directory for the run-history database")
	reportCmd.PersistentFlags().Int("max-results", 20, "maximum runs to list")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportUnmatchedCmd)

	rootCmd.AddCommand(reportCmd)
}
