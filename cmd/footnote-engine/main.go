// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the footnote-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the footnote-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "footnote-engine",
	Short: "Classify and reformat footnotes in manuscript documents",
	Long: `footnote-engine reads the footnotes of a .docx or .odt manuscript,
matches each one against a YAML rule configuration (special-classic
abbreviations and reference-type patterns), reformats the matches through
their templates, and writes a color-coded review document: green for
confident matches, yellow for partial ones, red for footnotes no rule
recognized.

Each stage is a subcommand: process runs the full pipeline, rules
inspects the configuration, export emits a CSL-YAML bibliography, and
report queries the run history.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./footnote-engine.yaml or ~/.config/footnote-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("footnote-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "footnote-engine"))
		}
	}

	viper.SetEnvPrefix("FOOTNOTE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
