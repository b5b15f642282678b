/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linter

import (
	"fmt"

	"github.com/np-guard/firewall-policy-analyzer/pkg/containment"
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// ruleShadowedLint walks each ruleset in evaluation order and reports rules
// whose traffic an earlier enabled rule already fully disposes of.
//
// Under first-match-wins semantics the earliest containing predecessor is the
// rule that actually handles the traffic, so only that predecessor is
// reported per shadowed rule; later containing predecessors are effects, not
// causes.
type ruleShadowedLint struct{}

func (lint *ruleShadowedLint) name() string { return "rules-shadowed" }

func (lint *ruleShadowedLint) description() string {
	return "rules fully disposed of by an earlier rule in their ruleset"
}

func (lint *ruleShadowedLint) checkRuleset(rulesetID string, rules []*policymodel.Rule,
	inv *policymodel.Inventory) ([]policymodel.Finding, error) {
	res := []policymodel.Finding{}
	// previously visited enabled ACL rules, in ascending order
	visited := []*policymodel.Rule{}
	for _, rule := range rules {
		if !rule.Enabled || !rule.IsACL() {
			// a disabled rule can neither shadow nor be shadowed;
			// NAT-class rules are not part of allow/block evaluation
			continue
		}
		if shadower := firstShadowingRule(visited, rule); shadower != nil {
			res = append(res, shadowFinding(rulesetID, shadower, rule))
		}
		visited = append(visited, rule)
	}
	return res, nil
}

// firstShadowingRule returns the earliest predecessor whose predicate
// contains the rule's, or nil.
func firstShadowingRule(predecessors []*policymodel.Rule, rule *policymodel.Rule) *policymodel.Rule {
	for _, prev := range predecessors {
		if containment.Contains(prev, rule) {
			return prev
		}
	}
	return nil
}

func shadowFinding(rulesetID string, shadower, rule *policymodel.Rule) policymodel.Finding {
	f := policymodel.Finding{
		RulesetID:     rulesetID,
		PrimaryRuleID: rule.ID,
		RelatedRuleID: shadower.ID,
		ZonesInvolved: zonePair(rule),
	}
	switch {
	case shadower.Action == rule.Action:
		f.Kind = policymodel.RedundantRule
		f.Severity = policymodel.SeverityLow
		f.Message = fmt.Sprintf("rule %s repeats the %s decision of earlier rule %s and adds nothing",
			ruleName(rule), rule.Action, ruleName(shadower))
	case shadower.Action == policymodel.ActionAllow:
		f.Kind = policymodel.ShadowedByAllow
		f.Severity = policymodel.SeverityHigh
		f.Message = fmt.Sprintf("block rule %s never executes: earlier allow rule %s already accepts all of its traffic",
			ruleName(rule), ruleName(shadower))
	case containment.Contains(rule, shadower):
		// identical predicates: the allow adds nothing to the block
		f.Kind = policymodel.ShadowedByBlock
		f.Severity = policymodel.SeverityMedium
		f.Message = fmt.Sprintf("allow rule %s never executes: earlier block rule %s matches the same traffic",
			ruleName(rule), ruleName(shadower))
	default:
		// a strictly narrower allow after a broader block reads like an
		// intended carve-out placed on the wrong side of the block
		f.Kind = policymodel.AllowException
		f.Severity = policymodel.SeverityMedium
		f.Message = fmt.Sprintf("allow exception %s is unreachable: it must precede block rule %s to take effect",
			ruleName(rule), ruleName(shadower))
	}
	return f
}

func ruleName(r *policymodel.Rule) string {
	if r.Name != "" {
		return fmt.Sprintf("%s (%s)", r.ID, r.Name)
	}
	return r.ID
}

func zonePair(r *policymodel.Rule) []string {
	res := []string{}
	if r.SrcZoneID != "" {
		res = append(res, r.SrcZoneID)
	}
	if r.DstZoneID != "" && r.DstZoneID != r.SrcZoneID {
		res = append(res, r.DstZoneID)
	}
	return res
}
