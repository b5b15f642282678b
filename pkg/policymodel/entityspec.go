/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import "fmt"

// MatchMode is the tag of the EntitySpec/PortSpec sum type, replacing the
// loosely-typed "optional list plus match-opposite flag" shape of raw rule
// records so containment logic can be exhaustive over the three cases.
type MatchMode int

const (
	MatchAny     MatchMode = iota // matches the whole universe of the dimension
	MatchInclude                  // matches exactly the carried set
	MatchExclude                  // matches the universe minus the carried set
)

func (m MatchMode) String() string {
	switch m {
	case MatchInclude:
		return "include"
	case MatchExclude:
		return "exclude"
	}
	return "any"
}

// EntityKind selects which set type an EntitySpec carries.
type EntityKind int

const (
	KindAddress EntityKind = iota // CIDR blocks
	KindMAC                       // individual MAC identifiers
	KindNetwork                   // opaque network/VLAN identifiers
)

func (k EntityKind) String() string {
	switch k {
	case KindMAC:
		return "mac"
	case KindNetwork:
		return "network"
	}
	return "address"
}

// EntitySpec describes what a rule endpoint matches: any entity, a set of
// entities, or everything but a set of entities. Exactly one of Addrs/Idents
// is populated, selected by Kind; both are nil for MatchAny.
type EntitySpec struct {
	Mode   MatchMode
	Kind   EntityKind
	Addrs  *AddrSet // KindAddress
	Idents IdentSet // KindMAC, KindNetwork
}

// AnyEntity returns the spec matching every entity.
func AnyEntity() *EntitySpec {
	return &EntitySpec{Mode: MatchAny}
}

// AddrEntity returns an address spec with the given mode.
func AddrEntity(mode MatchMode, set *AddrSet) *EntitySpec {
	return &EntitySpec{Mode: mode, Kind: KindAddress, Addrs: set}
}

// IdentEntity returns a MAC or network-id spec with the given mode.
func IdentEntity(mode MatchMode, kind EntityKind, set IdentSet) *EntitySpec {
	return &EntitySpec{Mode: mode, Kind: kind, Idents: set}
}

// IsAny reports whether the spec matches the whole universe: MatchAny,
// an Include of the full address space, or an Exclude of the empty set.
func (e *EntitySpec) IsAny() bool {
	switch e.Mode {
	case MatchAny:
		return true
	case MatchInclude:
		return e.Kind == KindAddress && e.Addrs.IsAll()
	case MatchExclude:
		return e.setIsEmpty()
	}
	return false
}

// IsEmptyMatch reports whether the spec matches nothing: an Include of the
// empty set. It cannot be produced from well-formed input, but data-shape
// anomalies are normalized to it and containment must stay well-defined.
func (e *EntitySpec) IsEmptyMatch() bool {
	return e.Mode == MatchInclude && e.setIsEmpty()
}

func (e *EntitySpec) setIsEmpty() bool {
	if e.Kind == KindAddress {
		return e.Addrs == nil || e.Addrs.IsEmpty()
	}
	return e.Idents.IsEmpty()
}

func (e *EntitySpec) String() string {
	if e.Mode == MatchAny {
		return "any"
	}
	if e.Kind == KindAddress {
		return fmt.Sprintf("%s %s %s", e.Mode, e.Kind, e.Addrs)
	}
	return fmt.Sprintf("%s %s %s", e.Mode, e.Kind, e.Idents)
}
