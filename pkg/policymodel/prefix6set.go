/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import (
	"net/netip"
	"slices"
	"sort"
	"strings"
)

// Prefix6Set is a canonical set of IPv6 CIDR blocks: prefixes are masked,
// sorted, contained blocks are removed and sibling blocks are merged into
// their parent. Two sets covering the same addresses therefore compare equal
// regardless of how the input expressed them.
type Prefix6Set struct {
	prefixes []netip.Prefix
}

// NewPrefix6Set builds the canonical set covering the given prefixes.
// Non-IPv6 prefixes are ignored.
func NewPrefix6Set(prefixes ...netip.Prefix) *Prefix6Set {
	res := &Prefix6Set{}
	for _, p := range prefixes {
		if p.IsValid() && p.Addr().Is6() && !p.Addr().Is4In6() {
			res.prefixes = append(res.prefixes, p.Masked())
		}
	}
	res.canonicalize()
	return res
}

// All6 returns the set covering the entire IPv6 address space.
func All6() *Prefix6Set {
	return NewPrefix6Set(netip.PrefixFrom(netip.IPv6Unspecified(), 0))
}

func (s *Prefix6Set) canonicalize() {
	for {
		sortPrefixes(s.prefixes)
		s.prefixes = dropContained(s.prefixes)
		merged, changed := mergeSiblings(s.prefixes)
		s.prefixes = merged
		if !changed {
			return
		}
	}
}

func sortPrefixes(prefixes []netip.Prefix) {
	sort.Slice(prefixes, func(i, j int) bool {
		if c := prefixes[i].Addr().Compare(prefixes[j].Addr()); c != 0 {
			return c < 0
		}
		return prefixes[i].Bits() < prefixes[j].Bits()
	})
}

// dropContained assumes sorted input; a block contained in another always
// follows its container in sort order.
func dropContained(prefixes []netip.Prefix) []netip.Prefix {
	res := prefixes[:0]
	for _, p := range prefixes {
		if len(res) == 0 || !res[len(res)-1].Contains(p.Addr()) {
			res = append(res, p)
		}
	}
	return res
}

// mergeSiblings replaces adjacent sibling blocks by their parent block.
func mergeSiblings(prefixes []netip.Prefix) (res []netip.Prefix, changed bool) {
	res = prefixes[:0]
	for _, p := range prefixes {
		if len(res) > 0 && sameParent(res[len(res)-1], p) {
			parent := netip.PrefixFrom(res[len(res)-1].Addr(), p.Bits()-1).Masked()
			res[len(res)-1] = parent
			changed = true
			continue
		}
		res = append(res, p)
	}
	return res, changed
}

func sameParent(a, b netip.Prefix) bool {
	if a.Bits() != b.Bits() || a.Bits() == 0 || a == b {
		return false
	}
	pa := netip.PrefixFrom(a.Addr(), a.Bits()-1).Masked()
	pb := netip.PrefixFrom(b.Addr(), b.Bits()-1).Masked()
	return pa == pb
}

// IsEmpty returns true if the set covers no addresses.
func (s *Prefix6Set) IsEmpty() bool {
	return len(s.prefixes) == 0
}

// IsAll returns true if the set covers the entire IPv6 address space.
func (s *Prefix6Set) IsAll() bool {
	return len(s.prefixes) == 1 && s.prefixes[0].Bits() == 0
}

// ContainedIn returns true if every address in s is covered by other.
func (s *Prefix6Set) ContainedIn(other *Prefix6Set) bool {
	for _, p := range s.prefixes {
		if !other.covers(p) {
			return false
		}
	}
	return true
}

// covers reports whether a single block is fully covered by the set. Since the
// set is canonical (merged siblings), full coverage implies coverage by one block.
func (s *Prefix6Set) covers(p netip.Prefix) bool {
	for _, q := range s.prefixes {
		if q.Bits() <= p.Bits() && q.Contains(p.Addr()) {
			return true
		}
	}
	return false
}

// Overlap returns true if s and other share at least one address.
func (s *Prefix6Set) Overlap(other *Prefix6Set) bool {
	for _, p := range s.prefixes {
		for _, q := range other.prefixes {
			if p.Overlaps(q) {
				return true
			}
		}
	}
	return false
}

// Equal returns true if s and other cover exactly the same addresses.
func (s *Prefix6Set) Equal(other *Prefix6Set) bool {
	return slices.Equal(s.prefixes, other.prefixes)
}

// Prefixes returns the canonical block list.
func (s *Prefix6Set) Prefixes() []netip.Prefix {
	return slices.Clone(s.prefixes)
}

func (s *Prefix6Set) String() string {
	strs := make([]string, len(s.prefixes))
	for i, p := range s.prefixes {
		strs[i] = p.String()
	}
	return strings.Join(strs, ",")
}
