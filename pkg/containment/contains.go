/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package containment answers whether one rule's match space contains or
// overlaps another's. Both operations are pure functions over the canonical
// model and are computed dimension by dimension: zone pair, protocol, source
// and destination entities, source and destination ports, ICMP type and web
// domains. A predicate contains another only when every dimension does.
package containment

import (
	"github.com/np-guard/models/pkg/interval"

	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// Contains returns true iff every packet matched by b is also matched by a.
func Contains(a, b *policymodel.Rule) bool {
	return zoneContains(a.SrcZoneID, b.SrcZoneID) &&
		zoneContains(a.DstZoneID, b.DstZoneID) &&
		protocolContains(a.Protocol, b.Protocol) &&
		EntityContains(a.Src, b.Src) &&
		EntityContains(a.Dst, b.Dst) &&
		PortsContain(a.SrcPorts, b.SrcPorts) &&
		PortsContain(a.DstPorts, b.DstPorts) &&
		icmpContains(a.ICMPType, b.ICMPType) &&
		domainsContain(a.WebDomains, b.WebDomains)
}

// zoneContains: zone ids are opaque; rules interact only within the same
// concrete zone. An absent id means any zone and compares as equal to
// anything.
func zoneContains(a, b string) bool {
	return a == "" || b == "" || a == b
}

// protocolContains: Any contains everything; equal categorical values
// contain each other; distinct concrete protocols never interact.
func protocolContains(a, b policymodel.Protocol) bool {
	return a == policymodel.ProtocolAny || a == b
}

// EntityContains implements the Include/Exclude containment table over
// entity specs of a rule endpoint. Sets of different kinds (addresses vs
// MACs vs network ids) are never comparable, like CIDR sets of different
// address families.
func EntityContains(a, b *policymodel.EntitySpec) bool {
	if a.IsAny() {
		return true
	}
	if b.IsEmptyMatch() {
		// the empty set is contained in everything
		return true
	}
	if b.IsAny() {
		// a is not Any here, so it cannot cover the whole universe
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch {
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchInclude:
		return entitySetContains(b, a) // Sb subset of Sa
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchExclude:
		// an excluded set is unbounded from an Include perspective;
		// a.IsAny covered the only true case above
		return false
	case a.Mode == policymodel.MatchExclude && b.Mode == policymodel.MatchInclude:
		return !entitySetsIntersect(a, b) // Sb disjoint from Sa
	default: // Exclude vs Exclude
		return entitySetContains(a, b) // Sa subset of Sb
	}
}

// entitySetContains reports whether inner's carried set is a subset of
// outer's carried set (both specs of the same kind).
func entitySetContains(inner, outer *policymodel.EntitySpec) bool {
	if inner.Kind == policymodel.KindAddress {
		return inner.Addrs.ContainedIn(outer.Addrs)
	}
	return inner.Idents.ContainedIn(outer.Idents)
}

func entitySetsIntersect(a, b *policymodel.EntitySpec) bool {
	if a.Kind == policymodel.KindAddress {
		return a.Addrs.Overlap(b.Addrs)
	}
	return a.Idents.IsIntersect(b.Idents)
}

// PortsContain implements the same containment table over port specs, with
// closed-interval arithmetic in place of CIDR subset.
func PortsContain(a, b *policymodel.PortSpec) bool {
	if a.IsAll() {
		return true
	}
	if b.IsEmptyMatch() {
		return true
	}
	if b.IsAll() {
		return false
	}
	switch {
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchInclude:
		return b.Ports.ContainedIn(a.Ports)
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchExclude:
		return false // a.IsAll covered the only true case above
	case a.Mode == policymodel.MatchExclude && b.Mode == policymodel.MatchInclude:
		return !portSetsIntersect(a.Ports, b.Ports)
	default: // Exclude vs Exclude
		return a.Ports.ContainedIn(b.Ports)
	}
}

func portSetsIntersect(a, b *interval.CanonicalSet) bool {
	return !a.Intersect(b).IsEmpty()
}

// icmpContains: the ICMP type is categorical; absent means any type.
func icmpContains(a, b string) bool {
	return a == "" || a == b
}

// domainsContain: an absent web-domain constraint contains any constraint;
// otherwise literal-set subset.
func domainsContain(a, b policymodel.IdentSet) bool {
	if a == nil {
		return true
	}
	if b == nil {
		return false
	}
	return b.ContainedIn(a)
}
