// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the rule configuration (validate, list)",
	Long: `Rules loads a YAML rule configuration the same way process does and
reports what it finds. Use validate to surface configuration problems
before a run, or list to see the rules in their match order.`,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [rules.yaml]",
	Short: "Check a rule file and print its warnings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesValidate,
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	path := rulesPath(args)
	set, err := loadRules(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d special classics, %d reference types\n",
		path, len(set.Specials), len(set.Types))
	return nil
}

var rulesListCmd = &cobra.Command{
	Use:   "list [rules.yaml]",
	Short: "List the rules in the order they are matched",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesList,
}

func runRulesList(cmd *cobra.Command, args []string) error {
	set, err := loadRules(rulesPath(args))
	if err != nil {
		return err
	}

	if len(set.Specials) > 0 {
		fmt.Println("special classics:")
		for _, s := range set.Specials {
			fmt.Printf("  %s\n", s.Abbreviation)
		}
	}
	if len(set.Types) > 0 {
		fmt.Println("reference types:")
		for _, r := range set.Types {
			required := 0
			for _, f := range r.Fields {
				if r.IsRequired(f.Name) {
					required++
				}
			}
			fmt.Printf("  %s (%d fields, %d required)\n", r.Name, len(r.Fields), required)
		}
	}
	return nil
}

func rulesPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "rules.yaml"
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesListCmd)

	rootCmd.AddCommand(rulesCmd)
}
