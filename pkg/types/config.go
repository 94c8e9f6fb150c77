// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ColorConfig holds the confidence colors applied to formatted output, as
// hex literals. An empty value means no color attribute is set for that
// confidence, except red: unmatched footnotes are always flagged, so an
// empty Red falls back to the built-in default.
type ColorConfig struct {
	Green  string `json:"green" yaml:"green"`
	Yellow string `json:"yellow" yaml:"yellow"`
	Red    string `json:"red" yaml:"red"`
}

// DefaultRedColor flags unmatched footnotes when no red color is configured.
const DefaultRedColor = "#AA0000"

// RedColor returns the configured red, or DefaultRedColor when unset.
func (c ColorConfig) RedColor() string {
	if c.Red == "" {
		return DefaultRedColor
	}
	return c.Red
}

// ProcessConfig holds settings for the process stage.
type ProcessConfig struct {
	// RulesFile is the path to the YAML rule configuration.
	RulesFile string `json:"rules_file" yaml:"rules_file"`

	// OutputDir is the directory the review document is written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers is the number of concurrent classification workers.
	// Values below 2 mean sequential processing.
	Workers int `json:"workers" yaml:"workers"`

	// Colors are the confidence colors for the output document.
	Colors ColorConfig `json:"colors" yaml:"colors"`
}

// ReportConfig holds settings for the run-history store.
type ReportConfig struct {
	// ReportDir is the directory holding the history database.
	ReportDir string `json:"report_dir" yaml:"report_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Process ProcessConfig `json:"process" yaml:"process"`
	Report  ReportConfig  `json:"report" yaml:"report"`
}
