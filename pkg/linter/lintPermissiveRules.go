/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linter

import (
	"fmt"

	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// permissiveRulesLint flags allow rules broad enough to defeat segmentation:
// full any-any accepts, broad-but-scoped accepts, and broad accepts whose
// zone pair spans a boundary that requires isolation. Disabled rules are
// still reported (a disabled any-any is one click from being an exposure);
// their findings say so.
type permissiveRulesLint struct{}

func (lint *permissiveRulesLint) name() string { return "rules-permissive" }

func (lint *permissiveRulesLint) description() string {
	return "allow rules broad enough to defeat segmentation"
}

func (lint *permissiveRulesLint) checkRuleset(rulesetID string, rules []*policymodel.Rule,
	inv *policymodel.Inventory) ([]policymodel.Finding, error) {
	res := []policymodel.Finding{}
	for _, rule := range rules {
		if rule.Action != policymodel.ActionAllow {
			continue
		}
		if !rule.Src.IsAny() || !rule.Dst.IsAny() {
			continue
		}
		f := classifyBroadAllow(rule, inv)
		f.RulesetID = rulesetID
		if !rule.Enabled {
			f.Message += " (rule is currently disabled)"
		}
		res = append(res, f)
	}
	return res, nil
}

func classifyBroadAllow(rule *policymodel.Rule, inv *policymodel.Inventory) policymodel.Finding {
	f := policymodel.Finding{
		PrimaryRuleID: rule.ID,
		ZonesInvolved: zonePair(rule),
	}
	scopeless := rule.Protocol == policymodel.ProtocolAny &&
		rule.SrcPorts.IsAll() && rule.DstPorts.IsAll() &&
		rule.ICMPType == "" && rule.WebDomains == nil
	switch {
	case scopeless:
		f.Kind = policymodel.AnyAny
		f.Severity = policymodel.SeverityHigh
		f.Message = fmt.Sprintf("rule %s accepts any source to any destination on any protocol and port",
			ruleName(rule))
	case spansIsolationBoundary(rule, inv):
		f.Kind = policymodel.BroadRule
		f.Severity = policymodel.SeverityHigh
		f.Message = fmt.Sprintf("rule %s accepts any source to any destination across zones that require isolation",
			ruleName(rule))
	default:
		f.Kind = policymodel.PermissiveRule
		f.Severity = policymodel.SeverityMedium
		f.Message = fmt.Sprintf("rule %s accepts any source to any destination, scoped only by protocol/port",
			ruleName(rule))
	}
	return f
}

// spansIsolationBoundary reports whether the rule's zone pair covers, in
// either direction, the zones of some network pair requiring isolation. An
// absent zone id covers every zone.
func spansIsolationBoundary(rule *policymodel.Rule, inv *policymodel.Inventory) bool {
	if inv == nil {
		return false
	}
	for _, pair := range inv.IsolationPairs() {
		za, zb := pair.A.FirewallZoneID, pair.B.FirewallZoneID
		if za == zb {
			continue // VLAN-only boundary has no zone pair to span
		}
		if zoneCovers(rule.SrcZoneID, za) && zoneCovers(rule.DstZoneID, zb) {
			return true
		}
		if zoneCovers(rule.SrcZoneID, zb) && zoneCovers(rule.DstZoneID, za) {
			return true
		}
	}
	return false
}

func zoneCovers(ruleZone, zone string) bool {
	return ruleZone == "" || ruleZone == zone
}
