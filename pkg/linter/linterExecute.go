/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linter

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/np-guard/firewall-policy-analyzer/pkg/logging"
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// Analyze runs every ruleset check over every ruleset, rulesets in parallel,
// then the global checks over the whole corpus. A check that returns an error
// is logged and skipped; findings are never errors. Cancellation stops
// scheduling further rulesets and skips the global checks, but findings
// already produced are still returned alongside ctx.Err().
func Analyze(ctx context.Context, rulesets map[string][]*policymodel.Rule,
	inv *policymodel.Inventory) ([]policymodel.Finding, error) {
	rulesetIDs := sortedRulesetIDs(rulesets)
	perRuleset := make([][]policymodel.Finding, len(rulesetIDs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, rulesetID := range rulesetIDs {
		i, rulesetID := i, rulesetID
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return nil // cancelled before this ruleset started
			}
			perRuleset[i] = checkOneRuleset(rulesetID, rulesets[rulesetID], inv)
			return nil
		})
	}
	_ = eg.Wait() // workers never return errors

	res := []policymodel.Finding{}
	for _, findings := range perRuleset {
		res = append(res, findings...)
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	for _, thisLinter := range globalLinters() {
		findings, err := thisLinter.checkAll(rulesets, inv)
		if err != nil {
			logging.Warnf("lint %q got an error %s. Skipping this lint", thisLinter.name(), err.Error())
			continue
		}
		res = append(res, findings...)
	}
	return res, nil
}

func checkOneRuleset(rulesetID string, rules []*policymodel.Rule,
	inv *policymodel.Inventory) []policymodel.Finding {
	res := []policymodel.Finding{}
	for _, thisLinter := range rulesetLinters() {
		findings, err := thisLinter.checkRuleset(rulesetID, rules, inv)
		if err != nil {
			logging.Warnf("lint %q on ruleset %s got an error %s. Skipping this lint",
				thisLinter.name(), rulesetID, err.Error())
			continue
		}
		res = append(res, findings...)
	}
	return res
}

func sortedRulesetIDs(rulesets map[string][]*policymodel.Rule) []string {
	res := make([]string, 0, len(rulesets))
	for rulesetID := range rulesets {
		res = append(res, rulesetID)
	}
	sort.Strings(res)
	return res
}
