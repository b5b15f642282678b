/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package containment

import (
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// Intersects returns true iff some packet matches both a and b. It is used
// by the coverage checks (isolation, required-endpoint reachability), not by
// shadow detection.
func Intersects(a, b *policymodel.Rule) bool {
	return zonesComparable(a.SrcZoneID, b.SrcZoneID) &&
		zonesComparable(a.DstZoneID, b.DstZoneID) &&
		protocolsIntersect(a.Protocol, b.Protocol) &&
		EntitiesIntersect(a.Src, b.Src) &&
		EntitiesIntersect(a.Dst, b.Dst) &&
		PortsIntersect(a.SrcPorts, b.SrcPorts) &&
		PortsIntersect(a.DstPorts, b.DstPorts) &&
		icmpIntersects(a.ICMPType, b.ICMPType) &&
		domainsIntersect(a.WebDomains, b.WebDomains)
}

// zonesComparable: rules in different concrete zones never share traffic.
func zonesComparable(a, b string) bool {
	return a == "" || b == "" || a == b
}

func protocolsIntersect(a, b policymodel.Protocol) bool {
	return a == policymodel.ProtocolAny || b == policymodel.ProtocolAny || a == b
}

// EntitiesIntersect implements the De Morgan composition of the
// Include/Exclude cases: an Exclude spec overlaps anything that is not fully
// inside its excluded set, and two Excludes always leave common ground
// unless together they cover the universe.
func EntitiesIntersect(a, b *policymodel.EntitySpec) bool {
	if a.IsEmptyMatch() || b.IsEmptyMatch() {
		return false
	}
	if a.IsAny() || b.IsAny() {
		return true
	}
	if a.Kind != b.Kind {
		// different set kinds are never comparable
		return false
	}
	switch {
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchInclude:
		return entitySetsIntersect(a, b)
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchExclude:
		return !entitySetContains(a, b) // some of Sa escapes Sb
	case a.Mode == policymodel.MatchExclude && b.Mode == policymodel.MatchInclude:
		return !entitySetContains(b, a)
	default: // Exclude vs Exclude
		return !excludesCoverUniverse(a, b)
	}
}

// excludesCoverUniverse reports whether the union of two excluded sets is
// the whole dimension universe, in which case Exclude(Sa) and Exclude(Sb)
// share no match. Only computable for finite-universe address sets; for
// opaque identifier sets the universe is unbounded, so two Excludes always
// intersect.
func excludesCoverUniverse(a, b *policymodel.EntitySpec) bool {
	if a.Kind != policymodel.KindAddress {
		return false
	}
	if a.Addrs.Family != b.Addrs.Family {
		// each excluded set leaves the other family's addresses unmatched
		return false
	}
	if a.Addrs.Family == policymodel.FamilyIPv4 {
		return a.Addrs.V4().Union(b.Addrs.V4()).Equal(policymodel.AllIPv4().V4())
	}
	// IPv6 union-vs-universe is not worth the arithmetic: excluding all of
	// IPv6 does not occur in practice, so assume common ground remains.
	return false
}

// PortsIntersect mirrors EntitiesIntersect with interval arithmetic; the
// port universe is finite, so the Exclude/Exclude case is exact.
func PortsIntersect(a, b *policymodel.PortSpec) bool {
	if a.IsEmptyMatch() || b.IsEmptyMatch() {
		return false
	}
	if a.IsAll() || b.IsAll() {
		return true
	}
	switch {
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchInclude:
		return portSetsIntersect(a.Ports, b.Ports)
	case a.Mode == policymodel.MatchInclude && b.Mode == policymodel.MatchExclude:
		return !a.Ports.ContainedIn(b.Ports)
	case a.Mode == policymodel.MatchExclude && b.Mode == policymodel.MatchInclude:
		return !b.Ports.ContainedIn(a.Ports)
	default: // Exclude vs Exclude
		return !a.Ports.Union(b.Ports).Equal(policymodel.AllPortsSet())
	}
}

func icmpIntersects(a, b string) bool {
	return a == "" || b == "" || a == b
}

func domainsIntersect(a, b policymodel.IdentSet) bool {
	if a == nil || b == nil {
		return true
	}
	return a.IsIntersect(b)
}
