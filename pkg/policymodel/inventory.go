/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import (
	"sort"
	"strings"

	"github.com/np-guard/models/pkg/connection"
)

// Zone is a firewall-level grouping of networks used as a coarse
// reachability boundary.
type Zone struct {
	ID   string `json:"id" yaml:"id"`
	Key  string `json:"key" yaml:"key"` // symbolic role: external/internal/dmz/hotspot/...
	Name string `json:"name" yaml:"name"`
}

// Network is one network/VLAN of the audited device, consumed read-only.
// IsolationRequired is derived upstream from purpose/classification; this
// engine does not classify networks.
type Network struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	VlanID            int    `json:"vlan_id" yaml:"vlan_id"`
	Subnet            string `json:"subnet,omitempty" yaml:"subnet,omitempty"`
	FirewallZoneID    string `json:"firewall_zone_id" yaml:"firewall_zone_id"`
	IsolationRequired bool   `json:"isolation_required" yaml:"isolation_required"`
}

// RequiredEndpoint is one destination the management plane must keep an
// explicit allow path to (controller, update, time-sync). Supplied by the
// orchestrator; checked by the coverage linters with the same
// intersection-based reachability query used for isolation.
type RequiredEndpoint struct {
	Name      string
	SrcZoneID string
	Dest      *AddrSet
	Conn      *connection.Set
}

// Inventory is the read-only zone/network snapshot one audit run analyzes
// rules against.
type Inventory struct {
	Zones             []Zone
	Networks          []Network
	RequiredEndpoints []RequiredEndpoint

	zoneByID    map[string]*Zone
	networkByID map[string]*Network
}

// NewInventory indexes the given snapshot.
func NewInventory(zones []Zone, networks []Network, endpoints []RequiredEndpoint) *Inventory {
	inv := &Inventory{
		Zones:             zones,
		Networks:          networks,
		RequiredEndpoints: endpoints,
		zoneByID:          map[string]*Zone{},
		networkByID:       map[string]*Network{},
	}
	for i := range inv.Zones {
		inv.zoneByID[inv.Zones[i].ID] = &inv.Zones[i]
	}
	for i := range inv.Networks {
		// network ids in rules are canonicalized to lower case (IdentSet),
		// so the index must be case-insensitive too
		inv.networkByID[strings.ToLower(inv.Networks[i].ID)] = &inv.Networks[i]
	}
	return inv
}

// HasZone reports whether the zone id exists in the snapshot.
func (inv *Inventory) HasZone(id string) bool {
	_, ok := inv.zoneByID[id]
	return ok
}

// HasNetwork reports whether the network id exists in the snapshot,
// comparing case-insensitively.
func (inv *Inventory) HasNetwork(id string) bool {
	_, ok := inv.networkByID[strings.ToLower(id)]
	return ok
}

// Zone returns the zone with the given id, if present.
func (inv *Inventory) Zone(id string) (*Zone, bool) {
	z, ok := inv.zoneByID[id]
	return z, ok
}

// Network returns the network with the given id, if present.
func (inv *Inventory) Network(id string) (*Network, bool) {
	n, ok := inv.networkByID[strings.ToLower(id)]
	return n, ok
}

// IsolationPair is an unordered pair of networks that must not reach each
// other: at least one requires isolation and they sit in different zones or
// VLANs.
type IsolationPair struct {
	A, B *Network
}

// IsolationPairs returns every network pair requiring isolation, in a
// deterministic order (by network id).
func (inv *Inventory) IsolationPairs() []IsolationPair {
	nets := make([]*Network, 0, len(inv.Networks))
	for i := range inv.Networks {
		nets = append(nets, &inv.Networks[i])
	}
	sort.Slice(nets, func(i, j int) bool { return nets[i].ID < nets[j].ID })

	res := []IsolationPair{}
	for i := 0; i < len(nets); i++ {
		for j := i + 1; j < len(nets); j++ {
			a, b := nets[i], nets[j]
			if !a.IsolationRequired && !b.IsolationRequired {
				continue
			}
			if a.FirewallZoneID == b.FirewallZoneID && a.VlanID == b.VlanID {
				continue
			}
			res = append(res, IsolationPair{A: a, B: b})
		}
	}
	return res
}
