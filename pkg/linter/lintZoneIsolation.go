/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linter

import (
	"fmt"

	"github.com/np-guard/firewall-policy-analyzer/pkg/containment"
	"github.com/np-guard/firewall-policy-analyzer/pkg/logging"
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// zoneIsolationLint verifies that every pair of networks requiring isolation
// is actually separated by the policy: some enabled block rule must
// intersect the pair's traffic in both directions, and that block must not
// itself be shadowed by an earlier allow. The check is a reachability query
// over the whole rule corpus, so it runs once, not per ruleset.
type zoneIsolationLint struct{}

func (lint *zoneIsolationLint) name() string { return "zone-isolation" }

func (lint *zoneIsolationLint) description() string {
	return "network pairs requiring isolation without an effective block rule between them"
}

type directionStatus int

const (
	directionMissing directionStatus = iota
	directionBypassed
	directionCovered
)

func (lint *zoneIsolationLint) checkAll(rulesets map[string][]*policymodel.Rule,
	inv *policymodel.Inventory) ([]policymodel.Finding, error) {
	res := []policymodel.Finding{}
	for _, pair := range inv.IsolationPairs() {
		forward, fwdBlock, fwdAllow := directionCoverage(rulesets, pair.A, pair.B)
		reverse, revBlock, revAllow := directionCoverage(rulesets, pair.B, pair.A)
		zones := isolationZones(pair)
		switch {
		case forward == directionMissing || reverse == directionMissing:
			res = append(res, policymodel.Finding{
				Kind:          policymodel.MissingIsolation,
				Severity:      policymodel.SeverityHigh,
				ZonesInvolved: zones,
				Message: fmt.Sprintf("no enabled block rule isolates network %s from network %s in both directions",
					pair.A.Name, pair.B.Name),
			})
		case forward == directionBypassed:
			res = append(res, bypassFinding(pair, zones, fwdBlock, fwdAllow))
		case reverse == directionBypassed:
			res = append(res, bypassFinding(pair, zones, revBlock, revAllow))
		}
	}
	return res, nil
}

func bypassFinding(pair policymodel.IsolationPair, zones []string,
	block, allow *policymodel.Rule) policymodel.Finding {
	return policymodel.Finding{
		Kind:          policymodel.IsolationBypassed,
		Severity:      policymodel.SeverityHigh,
		RulesetID:     block.Ruleset,
		PrimaryRuleID: block.ID,
		RelatedRuleID: allow.ID,
		ZonesInvolved: zones,
		Message: fmt.Sprintf("block rule %s isolating network %s from network %s is unreachable: allow rule %s precedes it and accepts the same traffic",
			ruleName(block), pair.A.Name, pair.B.Name, ruleName(allow)),
	}
}

// directionCoverage classifies one direction of an isolation pair: covered
// by a reachable block rule, covered only by shadowed block rules, or not
// covered at all. It returns the first block considered plus the allow that
// shadows it, for reporting.
func directionCoverage(rulesets map[string][]*policymodel.Rule,
	from, to *policymodel.Network) (directionStatus, *policymodel.Rule, *policymodel.Rule) {
	probe := isolationProbe(from, to)
	var firstBlock, firstAllow *policymodel.Rule
	for _, rulesetID := range sortedRulesetIDs(rulesets) {
		for _, rule := range rulesets[rulesetID] {
			if !rule.Enabled || rule.Action != policymodel.ActionBlock {
				continue
			}
			if !containment.Intersects(rule, probe) {
				continue
			}
			if allow := shadowingAllow(rulesets[rulesetID], rule); allow != nil {
				if firstBlock == nil {
					firstBlock, firstAllow = rule, allow
				}
				continue
			}
			return directionCovered, rule, nil
		}
	}
	if firstBlock != nil {
		return directionBypassed, firstBlock, firstAllow
	}
	return directionMissing, nil, nil
}

// isolationProbe models the traffic from one network to another as a rule
// predicate: the networks' zone pair, subnet-scoped endpoints when subnets
// are known, and every other dimension unconstrained.
func isolationProbe(from, to *policymodel.Network) *policymodel.Rule {
	return &policymodel.Rule{
		SrcZoneID: from.FirewallZoneID,
		DstZoneID: to.FirewallZoneID,
		Src:       networkEntity(from),
		Dst:       networkEntity(to),
		Protocol:  policymodel.ProtocolAny,
		SrcPorts:  policymodel.AnyPorts(),
		DstPorts:  policymodel.AnyPorts(),
	}
}

func networkEntity(n *policymodel.Network) *policymodel.EntitySpec {
	if n.Subnet == "" {
		return policymodel.AnyEntity()
	}
	set, mixed, err := policymodel.ParseAddrSet([]string{n.Subnet})
	if err != nil || mixed {
		logging.Warnf("network %s: unusable subnet %q, probing the whole zone", n.ID, n.Subnet)
		return policymodel.AnyEntity()
	}
	return policymodel.AddrEntity(policymodel.MatchInclude, set)
}

// shadowingAllow returns the earliest enabled allow rule that precedes the
// block within its ruleset and contains it, making the block unreachable.
func shadowingAllow(rules []*policymodel.Rule, block *policymodel.Rule) *policymodel.Rule {
	for _, rule := range rules {
		if rule.Order >= block.Order {
			return nil // rules are sorted by order
		}
		if rule.Enabled && rule.Action == policymodel.ActionAllow && containment.Contains(rule, block) {
			return rule
		}
	}
	return nil
}

func isolationZones(pair policymodel.IsolationPair) []string {
	zones := []string{}
	if pair.A.FirewallZoneID != "" {
		zones = append(zones, pair.A.FirewallZoneID)
	}
	if pair.B.FirewallZoneID != "" && pair.B.FirewallZoneID != pair.A.FirewallZoneID {
		zones = append(zones, pair.B.FirewallZoneID)
	}
	return zones
}
