/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package policymodel defines the canonical firewall policy model consumed by the
// analysis engine: rules with tagged match specs, the zone/network inventory, and
// the findings the analyzers emit.
//
// A Rule is immutable once built by the normalizer. Its match specs are kept in
// canonical form (sorted, deduplicated, adjacent blocks merged) so that
// containment checks are deterministic and cheap to repeat.
package policymodel

// Action is the normalized disposition of a rule.
type Action string

const (
	ActionAllow Action = "allow"
	ActionBlock Action = "block"
	// ActionOther covers rules whose effective action is not a plain
	// allow/block (NAT, DNAT, redirect). Such rules are excluded from shadow
	// analysis and participate only in reference checks.
	ActionOther Action = "other"
)

// Protocol is the transport protocol dimension of a rule predicate.
type Protocol string

const (
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
	ProtocolICMP Protocol = "icmp"
	ProtocolAny  Protocol = "all"
)

// Rule is a single canonical access-control rule. Zone ids, the ICMP type and
// the web-domain set use the zero value to mean "unconstrained".
type Rule struct {
	ID      string
	Name    string
	Ruleset string
	// Order defines evaluation precedence within Ruleset, lowest first.
	// It is carried explicitly rather than by slice position so that
	// filtering and per-ruleset fan-out cannot corrupt precedence.
	Order   int
	Enabled bool

	Action Action
	// RawAction preserves the original action token for non-ACL rules.
	RawAction string

	Protocol  Protocol
	SrcZoneID string
	DstZoneID string

	Src *EntitySpec
	Dst *EntitySpec

	SrcPorts *PortSpec
	DstPorts *PortSpec

	// ICMPType is the literal ICMP type name; empty means any type.
	ICMPType string

	// WebDomains further constrains Dst to a literal hostname set.
	// A nil set means unconstrained.
	WebDomains IdentSet
}

// IsACL reports whether the rule takes part in allow/block evaluation.
func (r *Rule) IsACL() bool {
	return r.Action == ActionAllow || r.Action == ActionBlock
}

// Zones returns the rule's zone pair; empty strings mean any zone.
func (r *Rule) Zones() (src, dst string) {
	return r.SrcZoneID, r.DstZoneID
}
