/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package normalizer converts raw flattened rule records into the canonical
// per-ruleset rule lists the analyzers consume.
//
// Only structurally malformed input (a rule with no action or no ruleset)
// fails the run: a partial audit over silently dropped rules could hide a
// real exposure. Everything else is preserved: unknown zone/network
// references stay on the rule for the orphan check, and data-shape anomalies
// (mixed-family CIDR lists, bad port ranges, empty match sets) become the
// empty set for that dimension plus a low-severity finding.
package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/np-guard/models/pkg/interval"

	"github.com/np-guard/firewall-policy-analyzer/pkg/logging"
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// Normalize builds the canonical rule lists, grouped by ruleset and sorted
// by evaluation order. The returned findings are the data-shape anomalies
// encountered while normalizing; they are part of the audit output.
func Normalize(rawRules []RawRule, inv *policymodel.Inventory) (
	rulesets map[string][]*policymodel.Rule, anomalies []policymodel.Finding, err error) {
	rulesets = map[string][]*policymodel.Rule{}
	for i := range rawRules {
		rule, ruleAnomalies, err := normalizeRule(&rawRules[i], inv)
		if err != nil {
			return nil, nil, err
		}
		anomalies = append(anomalies, ruleAnomalies...)
		rulesets[rule.Ruleset] = append(rulesets[rule.Ruleset], rule)
	}
	for _, rules := range rulesets {
		sortRules(rules)
	}
	return rulesets, anomalies, nil
}

func normalizeRule(raw *RawRule, inv *policymodel.Inventory) (
	*policymodel.Rule, []policymodel.Finding, error) {
	if raw.Ruleset == "" {
		return nil, nil, fmt.Errorf("rule %q: missing required ruleset", ruleLabel(raw))
	}
	if strings.TrimSpace(raw.Action) == "" {
		return nil, nil, fmt.Errorf("rule %q: missing required action", ruleLabel(raw))
	}

	rule := &policymodel.Rule{
		ID:        raw.ID,
		Name:      raw.Name,
		Ruleset:   raw.Ruleset,
		Order:     raw.Index,
		Enabled:   raw.Enabled,
		RawAction: raw.Action,
		Action:    classifyAction(raw.Action),
		Protocol:  classifyProtocol(raw.Protocol, ruleLabel(raw)),
		SrcZoneID: raw.SrcZoneID,
		DstZoneID: raw.DstZoneID,
		ICMPType:  strings.TrimSpace(raw.ICMPTypename),
	}
	if len(raw.WebDomains) > 0 {
		rule.WebDomains = policymodel.NewIdentSet(raw.WebDomains...)
	}

	var anomalies []policymodel.Finding
	rule.Src = normalizeEntity(&raw.Src, rule, "source", &anomalies)
	rule.Dst = normalizeEntity(&raw.Dst, rule, "destination", &anomalies)
	rule.SrcPorts = normalizePorts(&raw.Src, rule, "source", &anomalies)
	rule.DstPorts = normalizePorts(&raw.Dst, rule, "destination", &anomalies)

	if inv != nil {
		logUnknownReferences(rule, inv)
	}
	return rule, anomalies, nil
}

// classifyAction maps the controller's action token onto allow/block; NAT
// and other non-ACL actions are tagged ActionOther and excluded from shadow
// analysis.
func classifyAction(action string) policymodel.Action {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "allow", "accept", "permit":
		return policymodel.ActionAllow
	case "block", "deny", "drop", "reject":
		return policymodel.ActionBlock
	default:
		return policymodel.ActionOther
	}
}

func classifyProtocol(protocol, label string) policymodel.Protocol {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "all", "any":
		return policymodel.ProtocolAny
	case "tcp":
		return policymodel.ProtocolTCP
	case "udp":
		return policymodel.ProtocolUDP
	case "icmp", "icmpv6":
		return policymodel.ProtocolICMP
	default:
		logging.Warnf("rule %s: unrecognized protocol %q treated as any", label, protocol)
		return policymodel.ProtocolAny
	}
}

// normalizeEntity maps the flattened lists of one side onto a tagged
// EntitySpec. When several set kinds are populated, addresses win over MACs
// over network ids; the ignored kinds are logged.
func normalizeEntity(ep *RawEndpoint, rule *policymodel.Rule, side string,
	anomalies *[]policymodel.Finding) *policymodel.EntitySpec {
	mode := policymodel.MatchInclude
	if ep.MatchOpposite {
		mode = policymodel.MatchExclude
	}
	switch {
	case len(ep.Addresses) > 0:
		if len(ep.MACs) > 0 || len(ep.NetworkIDs) > 0 {
			logging.Warnf("rule %s %s: address list present, ignoring MAC/network lists", rule.ID, side)
		}
		set, mixedFamilies, err := policymodel.ParseAddrSet(ep.Addresses)
		if err != nil {
			*anomalies = append(*anomalies, malformedSetFinding(rule, side,
				fmt.Sprintf("unparsable %s address list: %v", side, err)))
			return policymodel.AddrEntity(policymodel.MatchInclude, policymodel.EmptyAddrSet())
		}
		if mixedFamilies {
			*anomalies = append(*anomalies, malformedSetFinding(rule, side,
				fmt.Sprintf("%s address list mixes IPv4 and IPv6; treated as empty", side)))
			return policymodel.AddrEntity(policymodel.MatchInclude, policymodel.EmptyAddrSet())
		}
		return policymodel.AddrEntity(mode, set)
	case len(ep.MACs) > 0:
		if len(ep.NetworkIDs) > 0 {
			logging.Warnf("rule %s %s: MAC list present, ignoring network list", rule.ID, side)
		}
		return policymodel.IdentEntity(mode, policymodel.KindMAC, policymodel.NewIdentSet(ep.MACs...))
	case len(ep.NetworkIDs) > 0:
		return policymodel.IdentEntity(mode, policymodel.KindNetwork, policymodel.NewIdentSet(ep.NetworkIDs...))
	default:
		return policymodel.AnyEntity()
	}
}

func normalizePorts(ep *RawEndpoint, rule *policymodel.Rule, side string,
	anomalies *[]policymodel.Finding) *policymodel.PortSpec {
	if len(ep.PortRanges) == 0 {
		return policymodel.AnyPorts()
	}
	ports := interval.NewCanonicalSet()
	for _, token := range ep.PortRanges {
		start, end, err := policymodel.ParsePortRange(token)
		if err != nil {
			*anomalies = append(*anomalies, malformedSetFinding(rule, side,
				fmt.Sprintf("%s port range %q treated as empty: %v", side, token, err)))
			continue
		}
		ports = ports.Union(interval.New(start, end).ToSet())
	}
	if ports.IsEmpty() {
		*anomalies = append(*anomalies, malformedSetFinding(rule, side,
			fmt.Sprintf("%s port list is empty after normalization; rule matches no port", side)))
		// the anomaly policy maps a malformed list onto the empty match,
		// even when the opposite flag would otherwise invert it
		return policymodel.NewPortSpec(policymodel.MatchInclude, ports)
	}
	mode := policymodel.MatchInclude
	if ep.PortsMatchOpposite {
		mode = policymodel.MatchExclude
	}
	return policymodel.NewPortSpec(mode, ports)
}

func malformedSetFinding(rule *policymodel.Rule, side, msg string) policymodel.Finding {
	logging.Warnf("rule %s (%s): %s", rule.ID, side, msg)
	return policymodel.Finding{
		Kind:          policymodel.MalformedMatchSet,
		Severity:      policymodel.SeverityLow,
		RulesetID:     rule.Ruleset,
		PrimaryRuleID: rule.ID,
		Message:       msg,
	}
}

// logUnknownReferences only logs; unresolved references are a posture issue
// reported by the orphaned-rule check, never a normalization failure.
func logUnknownReferences(rule *policymodel.Rule, inv *policymodel.Inventory) {
	if rule.SrcZoneID != "" && !inv.HasZone(rule.SrcZoneID) {
		logging.Debugf("rule %s references unknown source zone %s", rule.ID, rule.SrcZoneID)
	}
	if rule.DstZoneID != "" && !inv.HasZone(rule.DstZoneID) {
		logging.Debugf("rule %s references unknown destination zone %s", rule.ID, rule.DstZoneID)
	}
}

// sortRules orders by evaluation precedence; the rule id breaks ties so a
// ruleset violating the unique-order invariant still normalizes
// deterministically.
func sortRules(rules []*policymodel.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Order != rules[j].Order {
			return rules[i].Order < rules[j].Order
		}
		return rules[i].ID < rules[j].ID
	})
}

func ruleLabel(raw *RawRule) string {
	if raw.ID != "" {
		return raw.ID
	}
	if raw.Name != "" {
		return raw.Name
	}
	return fmt.Sprintf("index %d", raw.Index)
}
