// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/footnote-engine/internal/docx"
	"github.com/pdiddy/footnote-engine/internal/odt"
	"github.com/pdiddy/footnote-engine/internal/pipeline"
	"github.com/pdiddy/footnote-engine/internal/report"
	"github.com/pdiddy/footnote-engine/internal/rules"
	"github.com/pdiddy/footnote-engine/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process [input.docx|input.odt]",
	Short: "Classify and reformat a document's footnotes into a review file",
	Long: `Process extracts the footnotes from the input document, classifies each
one against the rule configuration, reformats the matches through their
templates, and writes a review .odt with confidence coloring next to the
original. The run is recorded in the report history unless --no-report
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg := processConfig(cmd)

	set, err := loadRules(cfg.RulesFile)
	if err != nil {
		return err
	}

	footnotes, err := extractInput(input)
	if err != nil {
		return err
	}
	if len(footnotes) == 0 {
		fmt.Fprintln(os.Stderr, "no footnotes found in", input)
	}

	results := pipeline.Process(footnotes, set, cfg, cliReporter{})

	outPath := reviewPath(cfg.OutputDir, input)
	if err := writeReview(outPath, results); err != nil {
		return err
	}

	noReport, _ := cmd.Flags().GetBool("no-report")
	if !noReport {
		if err := recordRun(cmd, input, results); err != nil {
			// History is best effort; the review document already exists.
			fmt.Fprintln(os.Stderr, "warning: recording run failed:", err)
		}
	}

	printSummary(outPath, pipeline.Summarize(results))
	return nil
}

// loadRules loads and compiles the rule file, printing configuration
// warnings to stderr. Warnings drop the affected rule or field but do not
// stop the run.
func loadRules(path string) (*rules.Set, error) {
	set, warnings, err := rules.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return set, nil
}

// extractInput dispatches on the input extension.
func extractInput(path string) ([]types.Footnote, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return docx.ExtractFootnotes(path)
	case ".odt":
		return odt.ExtractFootnotes(path)
	default:
		return nil, fmt.Errorf("unsupported input %s: expected .docx or .odt", path)
	}
}

// reviewPath builds the output file name: footnotes_from_[base].odt in the
// output directory.
func reviewPath(outputDir, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outputDir, "footnotes_from_"+base+".odt")
}

func writeReview(path string, results []pipeline.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	footnotes := make([][]types.Paragraph, len(results))
	for i, r := range results {
		footnotes[i] = r.Paragraphs()
	}
	return odt.WriteReview(path, footnotes)
}

func recordRun(cmd *cobra.Command, input string, results []pipeline.Result) error {
	store, err := report.NewStore(reportConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	matches := make([]types.MatchResult, len(results))
	for i, r := range results {
		matches[i] = r.Match
	}
	_, err = store.RecordRun(context.Background(), input, matches)
	return err
}

// --- progress and summary output ---

// cliReporter prints pipeline progress to stderr.
type cliReporter struct{}

func (cliReporter) Progress(done, total int) {
	if done == total || done%25 == 0 {
		fmt.Fprintf(os.Stderr, "processed %d/%d footnotes\n", done, total)
	}
}

func (cliReporter) Message(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

var (
	greenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	yellowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	redStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

func printSummary(outPath string, s pipeline.Summary) {
	fmt.Printf("wrote %s (%d footnotes)\n", outPath, s.Total)
	fmt.Printf("  %s  %d matched\n", greenStyle.Render("green "), s.Green)
	fmt.Printf("  %s  %d partial\n", yellowStyle.Render("yellow"), s.Yellow)
	fmt.Printf("  %s  %d unmatched\n", redStyle.Render("red   "), s.Red)
}

// --- configuration helpers ---

// processConfig resolves process settings: an explicitly set flag wins,
// then the config file, then the flag default.
func processConfig(cmd *cobra.Command) types.ProcessConfig {
	return types.ProcessConfig{
		RulesFile: stringSetting(cmd, "rules", "process.rules_file"),
		OutputDir: stringSetting(cmd, "output-dir", "process.output_dir"),
		Workers:   intSetting(cmd, "workers", "process.workers"),
		Colors: types.ColorConfig{
			Green:  viper.GetString("process.colors.green"),
			Yellow: viper.GetString("process.colors.yellow"),
			Red:    viper.GetString("process.colors.red"),
		},
	}
}

func reportConfig(cmd *cobra.Command) types.ReportConfig {
	return types.ReportConfig{
		ReportDir:  stringSetting(cmd, "report-dir", "report.report_dir"),
		MaxResults: intSetting(cmd, "max-results", "report.max_results"),
	}
}

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && !f.Changed && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if f := cmd.Flags().Lookup(flag); f != nil && !f.Changed && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func init() {
	processCmd.Flags().String("rules", "rules.yaml", "YAML rule configuration file")
	processCmd.Flags().String("output-dir", ".", "directory for the review document")
	processCmd.Flags().Int("workers", 1, "concurrent classification workers (1 = sequential)")
	processCmd.Flags().String("report-dir", "report", "directory for the run-history database")
	processCmd.Flags().Int("max-results", 20, "maximum run-history query results")
	processCmd.Flags().Bool("no-report", false, "skip recording the run in history")

	rootCmd.AddCommand(processCmd)
}
