/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//	package subcmds defines fwanalyzer's subcommands, their flags and their behavior.
//
// We use the various Run methods of cobra.Command as follows (order corresponds to execution order).
// 1. PersistentPreRun (root) - initialize logger
// 2. PreRunE (subcommands) - check flag validity
// 3. RunE (subcommands) - load the input documents and run the audit with parsed flag values
//
// This order prevents code duplication - all common code is in root; subcommand-specific code is in its subcommand
package subcmds

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/np-guard/firewall-policy-analyzer/pkg/logging"
	"github.com/np-guard/firewall-policy-analyzer/pkg/version"
)

const (
	rulesFlag     = "rules"
	inventoryFlag = "inventory"

	outputFileFlag   = "filename"
	outputFormatFlag = "output"
	quietFlag        = "quiet"
	verboseFlag      = "verbose"
)

// inArgs holds parsed flag values
type inArgs struct {
	rulesFileList []string
	inventoryFile string
	outputFile    string
	outputFormat  formatSetting
	quiet         bool
	verbose       bool
}

// Summary carries the audit outcome back to main, which maps it onto the
// process exit code; cobra's RunE must not exit by itself.
type Summary struct {
	FindingsCount int
}

func NewRootCommand(sum *Summary) *cobra.Command {
	args := &inArgs{}

	rootCmd := &cobra.Command{
		Use:     "fwanalyzer",
		Short:   "fwanalyzer is a CLI that audits gateway firewall rules",
		Long:    `fwanalyzer analyzes firewall rulesets for shadowed, over-permissive and orphaned rules and for missing zone isolation.`,
		Version: version.VersionCore,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			verbosity := logging.MediumVerbosity
			if args.quiet {
				verbosity = logging.LowVerbosity
			} else if args.verbose {
				verbosity = logging.HighVerbosity
			}
			logging.Init(verbosity) // initializes a thread-safe singleton logger
		},
	}

	rootCmd.PersistentFlags().StringArrayVarP(&args.rulesFileList, rulesFlag, "r", nil,
		"file paths to rule documents, can pass multiple files")
	rootCmd.PersistentFlags().StringVarP(&args.inventoryFile, inventoryFlag, "i", "",
		"file path to the zone/network inventory document")

	rootCmd.PersistentFlags().StringVarP(&args.outputFile, outputFileFlag, "f", "", "file path to store results")
	rootCmd.PersistentFlags().VarP(&args.outputFormat, outputFormatFlag, "o", "output format; "+mustBeOneOf(allFormats))

	rootCmd.PersistentFlags().BoolVarP(&args.quiet, quietFlag, "q", false, "runs quietly, reports only severe errors and results")
	rootCmd.PersistentFlags().BoolVarP(&args.verbose, verboseFlag, "v", false, "runs with more informative messages printed to log")
	rootCmd.MarkFlagsMutuallyExclusive(quietFlag, verboseFlag)

	rootCmd.PersistentFlags().SortFlags = false

	rootCmd.AddCommand(NewAnalyzeCommand(args, sum))
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true}) // disable help command. should use --help flag instead

	cobra.EnableTraverseRunHooks = true

	return rootCmd
}

func mustBeOneOf(values []string) string {
	return fmt.Sprintf("must be one of [%s]", strings.Join(values, ", "))
}
