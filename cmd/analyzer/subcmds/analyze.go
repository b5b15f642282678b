/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package subcmds

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/np-guard/firewall-policy-analyzer/pkg/linter"
	"github.com/np-guard/firewall-policy-analyzer/pkg/logging"
	"github.com/np-guard/firewall-policy-analyzer/pkg/normalizer"
)

func NewAnalyzeCommand(args *inArgs, sum *Summary) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Audit the given rulesets and report posture issues",
		Long: `Audit the given rulesets for shadowed, redundant, over-permissive and orphaned rules
and verify zone isolation and required-endpoint reachability against the inventory.
Checks: ` + strings.Join(linter.GetLintersNames(), ", "),
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if len(args.rulesFileList) == 0 {
				return fmt.Errorf("at least one --%s file is required", rulesFlag)
			}
			return validateFormat(args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return analyzeRulesets(cmd, args, sum)
		},
	}
	return cmd
}

func analyzeRulesets(cmd *cobra.Command, args *inArgs, sum *Summary) error {
	cmd.SilenceUsage = true  // if we got this far, flags are syntactically correct, so no need to print usage
	cmd.SilenceErrors = true // also, error will be printed to logger in main(), so no need for cobra to also print it

	rawRules, err := loadRawRules(args.rulesFileList)
	if err != nil {
		return err
	}
	inv, err := loadInventory(args.inventoryFile)
	if err != nil {
		return err
	}
	rulesets, findings, err := normalizer.Normalize(rawRules, inv)
	if err != nil {
		return err
	}

	// on interrupt the audit stops scheduling further rulesets; findings
	// produced so far are still reported
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	lintFindings, analyzeErr := linter.Analyze(ctx, rulesets, inv)
	findings = append(findings, lintFindings...)
	if analyzeErr != nil && !errors.Is(analyzeErr, context.Canceled) {
		return analyzeErr
	}
	if analyzeErr != nil {
		logging.Warnf("audit interrupted; reporting partial results")
	}

	sum.FindingsCount = len(findings)
	out, err := renderFindings(args.outputFormat, findings)
	if err != nil {
		return err
	}
	return writeOutput(out, args.outputFile)
}

func writeOutput(out, outFile string) error {
	if outFile != "" {
		return os.WriteFile(outFile, []byte(out), 0o600)
	}
	fmt.Print(out)
	return nil
}
