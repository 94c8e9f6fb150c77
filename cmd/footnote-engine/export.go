// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/footnote-engine/internal/classify"
	"github.com/pdiddy/footnote-engine/internal/export"
	"github.com/pdiddy/footnote-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [input.docx|input.odt]",
	Short: "Export matched footnotes as a CSL-YAML bibliography",
	Long: `Export classifies the input document's footnotes and writes the matched
reference entries as CSL-YAML, consumable by Pandoc and reference
managers. Unmatched footnotes and special classics are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	rulesFile := stringSetting(cmd, "rules", "process.rules_file")
	set, err := loadRules(rulesFile)
	if err != nil {
		return err
	}

	footnotes, err := extractInput(args[0])
	if err != nil {
		return err
	}

	results := make([]types.MatchResult, len(footnotes))
	for i, fn := range footnotes {
		results[i] = classify.Match(fn, set)
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	return export.FormatCSL(results, out)
}

func init() {
	exportCmd.Flags().String("rules", "rules.yaml", "YAML rule configuration file")
	exportCmd.Flags().String("out", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
