/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testInventory() *Inventory {
	zones := []Zone{
		{ID: "z-lan", Key: "internal", Name: "LAN"},
		{ID: "z-iot", Key: "internal", Name: "IoT"},
		{ID: "z-wan", Key: "external", Name: "WAN"},
	}
	networks := []Network{
		{ID: "net-lan", Name: "Default", VlanID: 1, Subnet: "10.0.1.0/24", FirewallZoneID: "z-lan"},
		{ID: "net-iot", Name: "IoT", VlanID: 20, Subnet: "10.0.20.0/24", FirewallZoneID: "z-iot", IsolationRequired: true},
		{ID: "net-cam", Name: "Cameras", VlanID: 30, Subnet: "10.0.30.0/24", FirewallZoneID: "z-iot", IsolationRequired: true},
	}
	return NewInventory(zones, networks, nil)
}

func TestInventoryLookups(t *testing.T) {
	inv := testInventory()
	require.True(t, inv.HasZone("z-lan"))
	require.False(t, inv.HasZone("z-guest"))
	require.True(t, inv.HasNetwork("net-iot"))
	require.False(t, inv.HasNetwork("net-guest"))

	z, ok := inv.Zone("z-wan")
	require.True(t, ok)
	require.Equal(t, "external", z.Key)
	n, ok := inv.Network("net-cam")
	require.True(t, ok)
	require.Equal(t, 30, n.VlanID)
}

func TestInventoryNetworkLookupCaseInsensitive(t *testing.T) {
	inv := NewInventory(nil, []Network{{ID: "Net-IoT", VlanID: 20}}, nil)
	// rule-side network ids arrive lower-cased
	require.True(t, inv.HasNetwork("net-iot"))
	require.True(t, inv.HasNetwork("Net-IoT"))
	n, ok := inv.Network("NET-IOT")
	require.True(t, ok)
	require.Equal(t, "Net-IoT", n.ID)
	require.False(t, inv.HasNetwork("net-other"))
}

func TestIsolationPairs(t *testing.T) {
	inv := testInventory()
	pairs := inv.IsolationPairs()
	// net-cam/net-iot (different VLANs, both isolated), net-cam/net-lan,
	// net-iot/net-lan; sorted by id so net-cam pairs come first
	require.Len(t, pairs, 3)
	require.Equal(t, "net-cam", pairs[0].A.ID)
	require.Equal(t, "net-iot", pairs[0].B.ID)
	require.Equal(t, "net-cam", pairs[1].A.ID)
	require.Equal(t, "net-lan", pairs[1].B.ID)
	require.Equal(t, "net-iot", pairs[2].A.ID)
	require.Equal(t, "net-lan", pairs[2].B.ID)
}

func TestIsolationPairsNoneRequired(t *testing.T) {
	inv := NewInventory(nil, []Network{
		{ID: "a", VlanID: 1, FirewallZoneID: "z1"},
		{ID: "b", VlanID: 2, FirewallZoneID: "z2"},
	}, nil)
	require.Empty(t, inv.IsolationPairs())
}

func TestIsolationPairsSameZoneSameVlanSkipped(t *testing.T) {
	inv := NewInventory(nil, []Network{
		{ID: "a", VlanID: 1, FirewallZoneID: "z1", IsolationRequired: true},
		{ID: "b", VlanID: 1, FirewallZoneID: "z1"},
	}, nil)
	require.Empty(t, inv.IsolationPairs())
}
