/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linter

import (
	"fmt"

	"github.com/np-guard/models/pkg/connection"
	"github.com/np-guard/models/pkg/netp"

	"github.com/np-guard/firewall-policy-analyzer/pkg/containment"
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// managementAccessLint checks that every required endpoint declared in the
// inventory stays reachable: some enabled allow rule must admit traffic from
// the endpoint's source zone to its destination addresses on its connection.
type managementAccessLint struct{}

func (lint *managementAccessLint) name() string { return "management-access" }

func (lint *managementAccessLint) description() string {
	return "required endpoints not reachable through any enabled allow rule"
}

func (lint *managementAccessLint) checkAll(rulesets map[string][]*policymodel.Rule,
	inv *policymodel.Inventory) ([]policymodel.Finding, error) {
	res := []policymodel.Finding{}
	for i := range inv.RequiredEndpoints {
		endpoint := &inv.RequiredEndpoints[i]
		if endpointReachable(rulesets, endpoint) {
			continue
		}
		finding := policymodel.Finding{
			Kind:     policymodel.ManagementUnreachable,
			Severity: policymodel.SeverityHigh,
			Message: fmt.Sprintf("required endpoint %s (%s) is not admitted by any enabled allow rule",
				endpoint.Name, endpoint.Dest.String()),
		}
		if endpoint.SrcZoneID != "" {
			finding.ZonesInvolved = []string{endpoint.SrcZoneID}
		}
		res = append(res, finding)
	}
	return res, nil
}

func endpointReachable(rulesets map[string][]*policymodel.Rule,
	endpoint *policymodel.RequiredEndpoint) bool {
	dest := policymodel.AddrEntity(policymodel.MatchInclude, endpoint.Dest)
	for _, rules := range rulesets {
		for _, rule := range rules {
			if !rule.Enabled || rule.Action != policymodel.ActionAllow {
				continue
			}
			if endpoint.SrcZoneID != "" && rule.SrcZoneID != "" && rule.SrcZoneID != endpoint.SrcZoneID {
				continue
			}
			if !containment.EntitiesIntersect(rule.Dst, dest) {
				continue
			}
			if !ruleConnectionSet(rule).Intersect(endpoint.Conn).IsEmpty() {
				return true
			}
		}
	}
	return false
}

// ruleConnectionSet lowers a rule's protocol and port predicates into a
// connection set, so reachability can be expressed as set intersection.
// Exclude-mode port specs are materialized into their effective ranges first.
func ruleConnectionSet(rule *policymodel.Rule) *connection.Set {
	switch rule.Protocol {
	case policymodel.ProtocolTCP, policymodel.ProtocolUDP:
		protocol := netp.ProtocolStringTCP
		if rule.Protocol == policymodel.ProtocolUDP {
			protocol = netp.ProtocolStringUDP
		}
		res := connection.None()
		srcPorts := rule.SrcPorts.EffectiveSet()
		dstPorts := rule.DstPorts.EffectiveSet()
		for _, src := range srcPorts.Intervals() {
			for _, dst := range dstPorts.Intervals() {
				res = res.Union(connection.TCPorUDPConnection(protocol,
					src.Start(), src.End(), dst.Start(), dst.End()))
			}
		}
		return res
	case policymodel.ProtocolICMP:
		return connection.ICMPConnection(connection.MinICMPType, connection.MaxICMPType,
			connection.MinICMPCode, connection.MaxICMPCode)
	default:
		return connection.All()
	}
}
