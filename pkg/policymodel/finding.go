/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import (
	"fmt"
	"strings"
)

// FindingKind classifies a posture issue reported by the analyzers.
type FindingKind string

const (
	// ShadowedByAllow: a block rule whose traffic was already accepted by an
	// earlier allow rule, so the restriction never executes.
	ShadowedByAllow FindingKind = "shadowed-by-allow"
	// ShadowedByBlock: an allow rule fully disposed of by an earlier block
	// rule with an equivalent predicate.
	ShadowedByBlock FindingKind = "shadowed-by-block"
	// AllowException: an allow rule clearly intended as a carve-out from an
	// earlier broader block rule, but ordered after it and thus unreachable.
	AllowException FindingKind = "allow-exception"
	// RedundantRule: a rule fully contained in an earlier rule with the same
	// action; it adds nothing.
	RedundantRule FindingKind = "redundant-rule"
	// AnyAny: an enabled allow rule matching any source, destination,
	// protocol and port.
	AnyAny FindingKind = "any-any"
	// PermissiveRule: an allow rule broad in source and destination but
	// still scoped in at least one dimension.
	PermissiveRule FindingKind = "permissive-rule"
	// BroadRule: a broad allow rule whose zone pair spans a boundary that
	// requires isolation.
	BroadRule FindingKind = "broad-rule"
	// OrphanedRule: a rule referencing a zone or network absent from the
	// current inventory.
	OrphanedRule FindingKind = "orphaned-rule"
	// MissingIsolation: no enabled block rule separates a pair of networks
	// that must not reach each other.
	MissingIsolation FindingKind = "missing-isolation"
	// IsolationBypassed: a block rule separating the pair exists but is
	// shadowed by an earlier allow, so the protection is unreachable.
	IsolationBypassed FindingKind = "isolation-bypassed"
	// MalformedMatchSet: a data-shape anomaly (empty or mixed-family match
	// set, bad port range) normalized to the empty set for that dimension.
	MalformedMatchSet FindingKind = "malformed-match-set"
	// ManagementUnreachable: a required management endpoint has no enabled
	// allow path from its source zone.
	ManagementUnreachable FindingKind = "management-unreachable"
)

// Severity ranks how urgent a finding is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Finding is one reported posture issue. PrimaryRuleID is the rule the
// finding is about; RelatedRuleID, when set, is the rule that causes it
// (e.g. the shadowing predecessor).
type Finding struct {
	Kind          FindingKind `json:"kind" yaml:"kind"`
	Severity      Severity    `json:"severity" yaml:"severity"`
	RulesetID     string      `json:"ruleset,omitempty" yaml:"ruleset,omitempty"`
	PrimaryRuleID string      `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	RelatedRuleID string      `json:"related_rule_id,omitempty" yaml:"related_rule_id,omitempty"`
	ZonesInvolved []string    `json:"zones_involved,omitempty" yaml:"zones_involved,omitempty"`
	Message       string      `json:"message" yaml:"message"`
}

func (f Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", f.Severity, f.Kind)
	if f.RulesetID != "" {
		fmt.Fprintf(&b, " ruleset %s", f.RulesetID)
	}
	if f.PrimaryRuleID != "" {
		fmt.Fprintf(&b, " rule %s", f.PrimaryRuleID)
	}
	if f.RelatedRuleID != "" {
		fmt.Fprintf(&b, " (caused by rule %s)", f.RelatedRuleID)
	}
	if len(f.ZonesInvolved) > 0 {
		fmt.Fprintf(&b, " zones %s", strings.Join(f.ZonesInvolved, ","))
	}
	fmt.Fprintf(&b, ": %s", f.Message)
	return b.String()
}
