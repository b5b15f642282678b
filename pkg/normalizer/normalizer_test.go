/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package normalizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

func rawAllowAll(id, ruleset string, index int) RawRule {
	return RawRule{
		ID:      id,
		Ruleset: ruleset,
		Index:   index,
		Enabled: true,
		Action:  "accept",
	}
}

func TestNormalizeGroupsAndSorts(t *testing.T) {
	raw := []RawRule{
		rawAllowAll("r3", "LAN_IN", 30),
		rawAllowAll("r1", "LAN_IN", 10),
		rawAllowAll("g1", "GUEST_IN", 10),
		rawAllowAll("r2", "LAN_IN", 20),
	}
	rulesets, anomalies, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Empty(t, anomalies)
	require.Len(t, rulesets, 2)
	require.Len(t, rulesets["LAN_IN"], 3)
	require.Equal(t, "r1", rulesets["LAN_IN"][0].ID)
	require.Equal(t, "r2", rulesets["LAN_IN"][1].ID)
	require.Equal(t, "r3", rulesets["LAN_IN"][2].ID)
	require.Equal(t, "g1", rulesets["GUEST_IN"][0].ID)
}

func TestNormalizeDuplicateOrderTieBreak(t *testing.T) {
	raw := []RawRule{
		rawAllowAll("rb", "LAN_IN", 10),
		rawAllowAll("ra", "LAN_IN", 10),
	}
	rulesets, _, err := Normalize(raw, nil)
	require.NoError(t, err)
	require.Equal(t, "ra", rulesets["LAN_IN"][0].ID)
	require.Equal(t, "rb", rulesets["LAN_IN"][1].ID)
}

func TestNormalizeStructuralErrors(t *testing.T) {
	_, _, err := Normalize([]RawRule{{ID: "r1", Action: "accept"}}, nil)
	require.ErrorContains(t, err, "missing required ruleset")

	_, _, err = Normalize([]RawRule{{ID: "r1", Ruleset: "LAN_IN", Action: "  "}}, nil)
	require.ErrorContains(t, err, "missing required action")
}

func TestClassifyAction(t *testing.T) {
	cases := map[string]policymodel.Action{
		"accept": policymodel.ActionAllow,
		"Allow":  policymodel.ActionAllow,
		"permit": policymodel.ActionAllow,
		"drop":   policymodel.ActionBlock,
		"REJECT": policymodel.ActionBlock,
		"deny":   policymodel.ActionBlock,
		"block":  policymodel.ActionBlock,
		"masq":   policymodel.ActionOther,
		"dnat":   policymodel.ActionOther,
	}
	for token, expected := range cases {
		require.Equal(t, expected, classifyAction(token), "action %q", token)
	}
}

func TestNormalizeKeepsRawAction(t *testing.T) {
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.Action = "masq"
	rulesets, _, err := Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	rule := rulesets["LAN_IN"][0]
	require.Equal(t, policymodel.ActionOther, rule.Action)
	require.Equal(t, "masq", rule.RawAction)
	require.False(t, rule.IsACL())
}

func TestClassifyProtocol(t *testing.T) {
	require.Equal(t, policymodel.ProtocolAny, classifyProtocol("", "r"))
	require.Equal(t, policymodel.ProtocolAny, classifyProtocol("all", "r"))
	require.Equal(t, policymodel.ProtocolTCP, classifyProtocol("TCP", "r"))
	require.Equal(t, policymodel.ProtocolUDP, classifyProtocol("udp", "r"))
	require.Equal(t, policymodel.ProtocolICMP, classifyProtocol("icmpv6", "r"))
	// unknown token degrades to any rather than failing the run
	require.Equal(t, policymodel.ProtocolAny, classifyProtocol("gre", "r"))
}

func TestNormalizeEntityPrecedence(t *testing.T) {
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.Src = RawEndpoint{
		Addresses:  []string{"10.0.1.0/24"},
		MACs:       []string{"aa:bb:cc:dd:ee:ff"},
		NetworkIDs: []string{"net-lan"},
	}
	raw.Dst = RawEndpoint{NetworkIDs: []string{"net-iot"}, MatchOpposite: true}
	rulesets, anomalies, err := Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	require.Empty(t, anomalies)
	rule := rulesets["LAN_IN"][0]
	require.Equal(t, policymodel.KindAddress, rule.Src.Kind)
	require.Equal(t, policymodel.MatchInclude, rule.Src.Mode)
	require.Equal(t, policymodel.KindNetwork, rule.Dst.Kind)
	require.Equal(t, policymodel.MatchExclude, rule.Dst.Mode)
	require.True(t, rule.Dst.Idents.Equal(policymodel.NewIdentSet("net-iot")))
}

func TestNormalizeEmptyEndpointIsAny(t *testing.T) {
	rulesets, anomalies, err := Normalize([]RawRule{rawAllowAll("r1", "LAN_IN", 10)}, nil)
	require.NoError(t, err)
	require.Empty(t, anomalies)
	rule := rulesets["LAN_IN"][0]
	require.True(t, rule.Src.IsAny())
	require.True(t, rule.Dst.IsAny())
	require.True(t, rule.SrcPorts.IsAll())
	require.True(t, rule.DstPorts.IsAll())
	require.Equal(t, policymodel.ProtocolAny, rule.Protocol)
}

func TestNormalizeMixedFamilyAddresses(t *testing.T) {
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.Src = RawEndpoint{Addresses: []string{"10.0.0.0/24", "2001:db8::/32"}}
	rulesets, anomalies, err := Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	require.Equal(t, policymodel.MalformedMatchSet, anomalies[0].Kind)
	require.Equal(t, policymodel.SeverityLow, anomalies[0].Severity)
	require.Equal(t, "r1", anomalies[0].PrimaryRuleID)
	require.True(t, rulesets["LAN_IN"][0].Src.IsEmptyMatch())
}

func TestNormalizeMalformedAddressList(t *testing.T) {
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.Dst = RawEndpoint{Addresses: []string{"10.0.0.0/33"}}
	rulesets, anomalies, err := Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	require.True(t, rulesets["LAN_IN"][0].Dst.IsEmptyMatch())
}

func TestNormalizeBadPortTokens(t *testing.T) {
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.Dst = RawEndpoint{PortRanges: []string{"443", "http"}}
	rulesets, anomalies, err := Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	// bad token yields a finding; the good token survives
	require.Len(t, anomalies, 1)
	require.Equal(t, policymodel.MalformedMatchSet, anomalies[0].Kind)
	require.False(t, rulesets["LAN_IN"][0].DstPorts.IsEmptyMatch())

	// all tokens bad: empty match set plus one finding per token and one
	// for the resulting empty list
	raw.Dst = RawEndpoint{PortRanges: []string{"0", "x"}}
	rulesets, anomalies, err = Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	require.Len(t, anomalies, 3)
	require.True(t, rulesets["LAN_IN"][0].DstPorts.IsEmptyMatch())
}

func TestNormalizeBadPortTokensWithOppositeFlag(t *testing.T) {
	// a malformed list stays the empty match even under the opposite flag;
	// Exclude of the empty set would silently match every port instead
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.Dst = RawEndpoint{PortRanges: []string{"x"}, PortsMatchOpposite: true}
	rulesets, anomalies, err := Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	require.Len(t, anomalies, 2)
	dstPorts := rulesets["LAN_IN"][0].DstPorts
	require.True(t, dstPorts.IsEmptyMatch())
	require.False(t, dstPorts.IsAll())
}

func TestNormalizeICMPAndDomains(t *testing.T) {
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.Protocol = "icmp"
	raw.ICMPTypename = " echo-request "
	raw.WebDomains = []string{"Example.COM", "example.org"}
	rulesets, _, err := Normalize([]RawRule{raw}, nil)
	require.NoError(t, err)
	rule := rulesets["LAN_IN"][0]
	require.Equal(t, policymodel.ProtocolICMP, rule.Protocol)
	require.Equal(t, "echo-request", rule.ICMPType)
	require.True(t, rule.WebDomains.Equal(policymodel.NewIdentSet("example.com", "example.org")))
}

func TestNormalizeUnknownReferencesKept(t *testing.T) {
	inv := policymodel.NewInventory([]policymodel.Zone{{ID: "z-lan"}}, nil, nil)
	raw := rawAllowAll("r1", "LAN_IN", 10)
	raw.SrcZoneID = "z-ghost"
	raw.DstZoneID = "z-lan"
	rulesets, anomalies, err := Normalize([]RawRule{raw}, inv)
	require.NoError(t, err)
	// unresolved references never fail normalization nor emit anomalies here
	require.Empty(t, anomalies)
	require.Equal(t, "z-ghost", rulesets["LAN_IN"][0].SrcZoneID)
}
