/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linter

import (
	"fmt"
	"strings"

	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// orphanedRulesLint reports rules that reference zones or networks absent
// from the current inventory. Such rules are preserved by normalization
// precisely so they can be surfaced here as a posture issue instead of a
// crash. Disabled and NAT-class rules are checked too.
type orphanedRulesLint struct{}

func (lint *orphanedRulesLint) name() string { return "rules-orphaned" }

func (lint *orphanedRulesLint) description() string {
	return "rules referencing zones or networks absent from the inventory"
}

func (lint *orphanedRulesLint) checkRuleset(rulesetID string, rules []*policymodel.Rule,
	inv *policymodel.Inventory) ([]policymodel.Finding, error) {
	res := []policymodel.Finding{}
	if inv == nil || (len(inv.Zones) == 0 && len(inv.Networks) == 0) {
		// no snapshot to resolve references against
		return res, nil
	}
	for _, rule := range rules {
		missing := missingReferences(rule, inv)
		if len(missing) == 0 {
			continue
		}
		res = append(res, policymodel.Finding{
			Kind:          policymodel.OrphanedRule,
			Severity:      policymodel.SeverityMedium,
			RulesetID:     rulesetID,
			PrimaryRuleID: rule.ID,
			ZonesInvolved: zonePair(rule),
			Message: fmt.Sprintf("rule %s references %s not present in the current inventory",
				ruleName(rule), strings.Join(missing, ", ")),
		})
	}
	return res, nil
}

func missingReferences(rule *policymodel.Rule, inv *policymodel.Inventory) []string {
	missing := []string{}
	if rule.SrcZoneID != "" && !inv.HasZone(rule.SrcZoneID) {
		missing = append(missing, fmt.Sprintf("source zone %s", rule.SrcZoneID))
	}
	if rule.DstZoneID != "" && !inv.HasZone(rule.DstZoneID) {
		missing = append(missing, fmt.Sprintf("destination zone %s", rule.DstZoneID))
	}
	missing = append(missing, missingNetworkRefs(rule.Src, "source", inv)...)
	missing = append(missing, missingNetworkRefs(rule.Dst, "destination", inv)...)
	return missing
}

func missingNetworkRefs(spec *policymodel.EntitySpec, side string, inv *policymodel.Inventory) []string {
	if spec == nil || spec.Kind != policymodel.KindNetwork || spec.Mode == policymodel.MatchAny {
		return nil
	}
	missing := []string{}
	for _, id := range spec.Idents.AsSortedList() {
		if !inv.HasNetwork(id) {
			missing = append(missing, fmt.Sprintf("%s network %s", side, id))
		}
	}
	return missing
}
