/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import (
	"net/netip"
	"strings"

	"github.com/np-guard/models/pkg/ipblock"
)

// AddrFamily tags the address family of an AddrSet. IPv4 and IPv6 sets are
// never comparable to each other: containment and intersection across
// families are both false.
type AddrFamily int

const (
	FamilyNone AddrFamily = iota // the empty set has no family
	FamilyIPv4
	FamilyIPv6
)

// AddrSet is a canonical, single-family set of CIDR blocks. The IPv4 side is
// an interval-canonical ipblock (adjacent blocks merge, so equal coverage
// compares equal however it was expressed); the IPv6 side is a canonical
// prefix set.
type AddrSet struct {
	Family AddrFamily
	v4     *ipblock.IPBlock
	v6     *Prefix6Set
}

// EmptyAddrSet returns the set matching no address.
func EmptyAddrSet() *AddrSet {
	return &AddrSet{Family: FamilyNone}
}

// AllIPv4 returns the full IPv4 address space (0.0.0.0/0).
func AllIPv4() *AddrSet {
	return &AddrSet{Family: FamilyIPv4, v4: ipblock.GetCidrAll()}
}

// AllIPv6 returns the full IPv6 address space (::/0).
func AllIPv6() *AddrSet {
	return &AddrSet{Family: FamilyIPv6, v6: All6()}
}

// ParseAddrSet builds the canonical set covering the given CIDRs or plain
// addresses. It returns mixed=true when the input spans both address
// families; the caller must then treat the dimension as the empty set and
// surface a data-shape finding (the returned set is empty in that case).
// A malformed CIDR string yields an error.
func ParseAddrSet(cidrs []string) (res *AddrSet, mixed bool, err error) {
	var v4Cidrs []string
	var v6Prefixes []netip.Prefix
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if !strings.Contains(c, "/") {
			addr, err := netip.ParseAddr(c)
			if err != nil {
				return nil, false, err
			}
			c = netip.PrefixFrom(addr, addr.BitLen()).String()
		}
		prefix, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, false, err
		}
		if prefix.Addr().Is4() || prefix.Addr().Is4In6() {
			v4Cidrs = append(v4Cidrs, c)
		} else {
			v6Prefixes = append(v6Prefixes, prefix)
		}
	}
	switch {
	case len(v4Cidrs) > 0 && len(v6Prefixes) > 0:
		return EmptyAddrSet(), true, nil
	case len(v4Cidrs) > 0:
		block, err := ipblock.FromCidrList(v4Cidrs)
		if err != nil {
			return nil, false, err
		}
		return &AddrSet{Family: FamilyIPv4, v4: block}, false, nil
	case len(v6Prefixes) > 0:
		return &AddrSet{Family: FamilyIPv6, v6: NewPrefix6Set(v6Prefixes...)}, false, nil
	default:
		return EmptyAddrSet(), false, nil
	}
}

// IsEmpty returns true if the set matches no address.
func (s *AddrSet) IsEmpty() bool {
	switch s.Family {
	case FamilyIPv4:
		return s.v4.IsEmpty()
	case FamilyIPv6:
		return s.v6.IsEmpty()
	}
	return true
}

// IsAll returns true if the set is its family's full address space.
// The universe of the address dimension is written 0.0.0.0/0 or ::/0, per
// common firewall practice.
func (s *AddrSet) IsAll() bool {
	switch s.Family {
	case FamilyIPv4:
		return s.v4.Equal(ipblock.GetCidrAll())
	case FamilyIPv6:
		return s.v6.IsAll()
	}
	return false
}

// ContainedIn returns true if every address in s is covered by other.
// The empty set is contained in everything; sets of different families are
// never comparable.
func (s *AddrSet) ContainedIn(other *AddrSet) bool {
	if s.IsEmpty() {
		return true
	}
	if other.IsEmpty() || s.Family != other.Family {
		return false
	}
	if s.Family == FamilyIPv4 {
		return s.v4.ContainedIn(other.v4)
	}
	return s.v6.ContainedIn(other.v6)
}

// Overlap returns true if s and other share at least one address.
func (s *AddrSet) Overlap(other *AddrSet) bool {
	if s.IsEmpty() || other.IsEmpty() || s.Family != other.Family {
		return false
	}
	if s.Family == FamilyIPv4 {
		return s.v4.Overlap(other.v4)
	}
	return s.v6.Overlap(other.v6)
}

// Equal returns true if s and other cover exactly the same addresses.
func (s *AddrSet) Equal(other *AddrSet) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	if s.Family != other.Family {
		return false
	}
	if s.Family == FamilyIPv4 {
		return s.v4.Equal(other.v4)
	}
	return s.v6.Equal(other.v6)
}

// V4 returns the IPv4 side of the set, or nil for non-IPv4 sets.
func (s *AddrSet) V4() *ipblock.IPBlock {
	return s.v4
}

func (s *AddrSet) String() string {
	switch s.Family {
	case FamilyIPv4:
		return s.v4.ToCidrListString()
	case FamilyIPv6:
		return s.v6.String()
	}
	return "<empty>"
}
