/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import (
	"sort"
	"strings"
)

// IdentSet is a set of opaque literal identifiers: MAC addresses, network ids
// or web-domain hostnames. Identifiers are compared case-insensitively; the
// canonical form is lower case.
type IdentSet map[string]bool

// NewIdentSet builds the canonical set of the given identifiers, dropping
// empty strings and duplicates.
func NewIdentSet(items ...string) IdentSet {
	s := IdentSet{}
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			s[item] = true
		}
	}
	return s
}

// IsEmpty returns true if s has no members.
func (s IdentSet) IsEmpty() bool {
	return len(s) == 0
}

// ContainedIn returns true if every member of s is a member of other.
func (s IdentSet) ContainedIn(other IdentSet) bool {
	for i := range s {
		if !other[i] {
			return false
		}
	}
	return true
}

// IsIntersect returns true if s and other have a common member.
func (s IdentSet) IsIntersect(other IdentSet) bool {
	for i := range s {
		if other[i] {
			return true
		}
	}
	return false
}

// Equal returns true if s and other have exactly the same members.
func (s IdentSet) Equal(other IdentSet) bool {
	return len(s) == len(other) && s.ContainedIn(other)
}

// AsSortedList returns the members in sorted order, for deterministic output.
func (s IdentSet) AsSortedList() []string {
	res := make([]string, 0, len(s))
	for i := range s {
		res = append(res, i)
	}
	sort.Strings(res)
	return res
}

func (s IdentSet) String() string {
	return strings.Join(s.AsSortedList(), ",")
}
