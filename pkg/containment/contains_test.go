/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package containment

import (
	"testing"

	"github.com/np-guard/models/pkg/interval"
	"github.com/stretchr/testify/require"

	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// anyRule returns a rule matching everything; tests narrow single dimensions.
func anyRule() *policymodel.Rule {
	return &policymodel.Rule{
		Enabled:  true,
		Action:   policymodel.ActionAllow,
		Protocol: policymodel.ProtocolAny,
		Src:      policymodel.AnyEntity(),
		Dst:      policymodel.AnyEntity(),
		SrcPorts: policymodel.AnyPorts(),
		DstPorts: policymodel.AnyPorts(),
	}
}

func includeAddrs(t *testing.T, cidrs ...string) *policymodel.EntitySpec {
	t.Helper()
	set, mixed, err := policymodel.ParseAddrSet(cidrs)
	require.NoError(t, err)
	require.False(t, mixed)
	return policymodel.AddrEntity(policymodel.MatchInclude, set)
}

func excludeAddrs(t *testing.T, cidrs ...string) *policymodel.EntitySpec {
	t.Helper()
	set, mixed, err := policymodel.ParseAddrSet(cidrs)
	require.NoError(t, err)
	require.False(t, mixed)
	return policymodel.AddrEntity(policymodel.MatchExclude, set)
}

func includePorts(t *testing.T, tokens ...string) *policymodel.PortSpec {
	t.Helper()
	return policymodel.NewPortSpec(policymodel.MatchInclude, portSet(t, tokens...))
}

func excludePorts(t *testing.T, tokens ...string) *policymodel.PortSpec {
	t.Helper()
	return policymodel.NewPortSpec(policymodel.MatchExclude, portSet(t, tokens...))
}

func portSet(t *testing.T, tokens ...string) *interval.CanonicalSet {
	t.Helper()
	res := interval.NewCanonicalSet()
	for _, token := range tokens {
		start, end, err := policymodel.ParsePortRange(token)
		require.NoError(t, err)
		res = res.Union(interval.New(start, end).ToSet())
	}
	return res
}

func TestContainsAnyAbsorbsAll(t *testing.T) {
	narrow := anyRule()
	narrow.SrcZoneID = "z-lan"
	narrow.DstZoneID = "z-wan"
	narrow.Protocol = policymodel.ProtocolTCP
	narrow.Src = includeAddrs(t, "10.0.1.0/24")
	narrow.DstPorts = includePorts(t, "443")
	require.True(t, Contains(anyRule(), narrow))
	require.False(t, Contains(narrow, anyRule()))
}

func TestContainsReflexive(t *testing.T) {
	rules := []*policymodel.Rule{anyRule()}
	tcp := anyRule()
	tcp.Protocol = policymodel.ProtocolTCP
	tcp.Src = includeAddrs(t, "10.0.0.0/16", "172.16.0.0/12")
	tcp.DstPorts = includePorts(t, "80", "443", "8000-8080")
	rules = append(rules, tcp)
	excl := anyRule()
	excl.Dst = excludeAddrs(t, "192.168.0.0/16")
	excl.SrcPorts = excludePorts(t, "1-1023")
	rules = append(rules, excl)
	for _, r := range rules {
		require.True(t, Contains(r, r))
		require.True(t, Intersects(r, r))
	}
}

func TestContainsZoneDimension(t *testing.T) {
	a, b := anyRule(), anyRule()
	a.SrcZoneID, b.SrcZoneID = "z-lan", "z-lan"
	require.True(t, Contains(a, b))
	b.SrcZoneID = "z-iot"
	require.False(t, Contains(a, b))
	require.False(t, Intersects(a, b))
	// an absent zone id compares as equal to anything, in both directions
	b.SrcZoneID = ""
	require.True(t, Contains(a, b))
	require.True(t, Contains(b, a))
}

func TestContainsProtocolDimension(t *testing.T) {
	tcp, udp, all := anyRule(), anyRule(), anyRule()
	tcp.Protocol = policymodel.ProtocolTCP
	udp.Protocol = policymodel.ProtocolUDP
	require.True(t, Contains(all, tcp))
	require.False(t, Contains(tcp, all))
	require.False(t, Contains(tcp, udp))
	require.False(t, Intersects(tcp, udp))
	require.True(t, Intersects(tcp, all))
}

func TestEntityContainsIncludeInclude(t *testing.T) {
	inner := includeAddrs(t, "10.0.1.0/26")
	outer := includeAddrs(t, "10.0.0.0/16")
	require.True(t, EntityContains(outer, inner))
	require.False(t, EntityContains(inner, outer))
	require.True(t, EntitiesIntersect(inner, outer))

	disjoint := includeAddrs(t, "172.16.0.0/12")
	require.False(t, EntityContains(outer, disjoint))
	require.False(t, EntitiesIntersect(outer, disjoint))
}

func TestEntityContainsIncludeExclude(t *testing.T) {
	include := includeAddrs(t, "10.0.0.0/8")
	exclude := excludeAddrs(t, "10.0.0.0/8")

	// Exclude(S) contains Include(T) iff S and T are disjoint
	require.True(t, EntityContains(exclude, includeAddrs(t, "172.16.0.0/12")))
	require.False(t, EntityContains(exclude, includeAddrs(t, "10.1.0.0/16")))

	// Include(S) contains Exclude(T) only when Include(S) is the universe
	require.False(t, EntityContains(include, exclude))
	require.True(t, EntityContains(includeAddrs(t, "0.0.0.0/0"), exclude))

	// Exclude(Sa) contains Exclude(Sb) iff Sa subset of Sb
	require.True(t, EntityContains(exclude, excludeAddrs(t, "10.0.0.0/8", "172.16.0.0/12")))
	require.False(t, EntityContains(excludeAddrs(t, "10.0.0.0/8", "172.16.0.0/12"), exclude))
}

func TestEntityIntersectsExcludeExclude(t *testing.T) {
	// two Excludes intersect unless the excluded sets cover the universe
	a := excludeAddrs(t, "0.0.0.0/1")
	b := excludeAddrs(t, "128.0.0.0/1")
	require.False(t, EntitiesIntersect(a, b))
	require.True(t, EntitiesIntersect(a, excludeAddrs(t, "10.0.0.0/8")))
}

func TestEntityEmptyInclude(t *testing.T) {
	empty := includeAddrs(t)
	some := includeAddrs(t, "10.0.0.0/8")
	// Include of the empty set is contained in everything, intersects nothing
	require.True(t, EntityContains(some, empty))
	require.True(t, EntityContains(empty, empty))
	require.False(t, EntitiesIntersect(empty, some))
	require.False(t, EntitiesIntersect(empty, policymodel.AnyEntity()))
}

func TestEntityCrossKindNotComparable(t *testing.T) {
	addrs := includeAddrs(t, "10.0.0.0/8")
	macs := policymodel.IdentEntity(policymodel.MatchInclude, policymodel.KindMAC,
		policymodel.NewIdentSet("aa:bb:cc:dd:ee:ff"))
	require.False(t, EntityContains(addrs, macs))
	require.False(t, EntityContains(macs, addrs))
	require.False(t, EntitiesIntersect(addrs, macs))
	// Any still covers both kinds
	require.True(t, EntityContains(policymodel.AnyEntity(), macs))
	require.True(t, EntitiesIntersect(policymodel.AnyEntity(), macs))
}

func TestEntityIdentSets(t *testing.T) {
	pair := policymodel.IdentEntity(policymodel.MatchInclude, policymodel.KindNetwork,
		policymodel.NewIdentSet("net-a", "net-b"))
	single := policymodel.IdentEntity(policymodel.MatchInclude, policymodel.KindNetwork,
		policymodel.NewIdentSet("net-a"))
	require.True(t, EntityContains(pair, single))
	require.False(t, EntityContains(single, pair))
	require.True(t, EntitiesIntersect(pair, single))

	// identifier universes are unbounded: two Excludes always intersect
	exclA := policymodel.IdentEntity(policymodel.MatchExclude, policymodel.KindNetwork,
		policymodel.NewIdentSet("net-a"))
	exclB := policymodel.IdentEntity(policymodel.MatchExclude, policymodel.KindNetwork,
		policymodel.NewIdentSet("net-b"))
	require.True(t, EntitiesIntersect(exclA, exclB))
}

func TestPortsContainTable(t *testing.T) {
	all := policymodel.AnyPorts()
	web := includePorts(t, "80", "443")
	https := includePorts(t, "443")
	lowExcl := excludePorts(t, "1-1023")

	require.True(t, PortsContain(all, web))
	require.False(t, PortsContain(web, all))
	require.True(t, PortsContain(web, https))
	require.False(t, PortsContain(https, web))

	// Exclude(low) contains Include(S) iff S avoids the low ports
	require.True(t, PortsContain(lowExcl, includePorts(t, "8080")))
	require.False(t, PortsContain(lowExcl, https))

	// Exclude vs Exclude: containment flips to subset of excluded sets
	require.True(t, PortsContain(lowExcl, excludePorts(t, "1-1023", "8080")))
	require.False(t, PortsContain(excludePorts(t, "1-1023", "8080"), lowExcl))
}

func TestPortsIntersectExcludeExclude(t *testing.T) {
	lower := excludePorts(t, "1-32767")
	upper := excludePorts(t, "32768-65535")
	require.False(t, PortsIntersect(lower, upper))
	require.True(t, PortsIntersect(lower, excludePorts(t, "1-1023")))
	require.True(t, PortsIntersect(lower, includePorts(t, "40000")))
	require.False(t, PortsIntersect(lower, includePorts(t, "80")))
}

func TestContainsICMPAndDomains(t *testing.T) {
	echo, any := anyRule(), anyRule()
	echo.Protocol = policymodel.ProtocolICMP
	echo.ICMPType = "echo-request"
	any.Protocol = policymodel.ProtocolICMP
	require.True(t, Contains(any, echo))
	require.False(t, Contains(echo, any))
	reply := anyRule()
	reply.Protocol = policymodel.ProtocolICMP
	reply.ICMPType = "echo-reply"
	require.False(t, Contains(echo, reply))
	require.False(t, Intersects(echo, reply))

	domains, broader := anyRule(), anyRule()
	domains.WebDomains = policymodel.NewIdentSet("example.com")
	broader.WebDomains = policymodel.NewIdentSet("example.com", "example.org")
	require.True(t, Contains(broader, domains))
	require.False(t, Contains(domains, broader))
	require.True(t, Contains(anyRule(), domains))
	require.False(t, Contains(domains, anyRule()))
	require.True(t, Intersects(domains, broader))
}

// containment must be transitive along a chain of narrowing rules
func TestContainsTransitive(t *testing.T) {
	wide := anyRule()
	wide.Protocol = policymodel.ProtocolTCP

	mid := anyRule()
	mid.Protocol = policymodel.ProtocolTCP
	mid.Dst = includeAddrs(t, "10.0.0.0/8")

	narrow := anyRule()
	narrow.Protocol = policymodel.ProtocolTCP
	narrow.Dst = includeAddrs(t, "10.0.1.0/24")
	narrow.DstPorts = includePorts(t, "443")

	require.True(t, Contains(wide, mid))
	require.True(t, Contains(mid, narrow))
	require.True(t, Contains(wide, narrow))
}

// mutual containment must hold exactly for set-equal predicates, even when
// the CIDR lists are written differently
func TestContainsAntisymmetry(t *testing.T) {
	a := anyRule()
	a.Src = includeAddrs(t, "10.0.0.0/24")
	b := anyRule()
	b.Src = includeAddrs(t, "10.0.0.0/25", "10.0.0.128/25")
	require.True(t, Contains(a, b))
	require.True(t, Contains(b, a))

	c := anyRule()
	c.Src = includeAddrs(t, "10.0.0.0/25")
	require.True(t, Contains(a, c))
	require.False(t, Contains(c, a))
}
