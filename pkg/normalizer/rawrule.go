/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package normalizer

// RawRule is one rule record as handed over by the extraction layer: group
// references are already flattened into literal CIDR/MAC/port lists, and the
// record is tagged with its ruleset and evaluation index. Field names follow
// the controller's own vocabulary; unrecognized fields in the source
// documents are simply not decoded.
type RawRule struct {
	ID      string `json:"_id" yaml:"id"`
	Ruleset string `json:"ruleset" yaml:"ruleset"`
	Index   int    `json:"rule_index" yaml:"rule_index"`
	Name    string `json:"name" yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Action  string `json:"action" yaml:"action"`

	Protocol     string `json:"protocol" yaml:"protocol"`
	ICMPTypename string `json:"icmp_typename" yaml:"icmp_typename"`

	SrcZoneID string `json:"src_zone_id" yaml:"src_zone_id"`
	DstZoneID string `json:"dst_zone_id" yaml:"dst_zone_id"`

	Src RawEndpoint `json:"source" yaml:"source"`
	Dst RawEndpoint `json:"destination" yaml:"destination"`

	// WebDomains constrains the destination to literal hostnames; present
	// only on web-filter rules.
	WebDomains []string `json:"web_domains" yaml:"web_domains"`
}

// RawEndpoint is the flattened match lists of one rule side plus the legacy
// match-opposite flags. At most one of Addresses/MACs/NetworkIDs is expected
// to be populated.
type RawEndpoint struct {
	Addresses  []string `json:"addresses" yaml:"addresses"`
	MACs       []string `json:"macs" yaml:"macs"`
	NetworkIDs []string `json:"network_ids" yaml:"network_ids"`
	// MatchOpposite inverts the entity match: the endpoint matches
	// everything except the listed entities.
	MatchOpposite bool `json:"match_opposite" yaml:"match_opposite"`

	// PortRanges holds "80" / "8000-8080" tokens; empty means all ports.
	PortRanges []string `json:"ports" yaml:"ports"`
	// PortsMatchOpposite inverts the port match.
	PortsMatchOpposite bool `json:"ports_match_opposite" yaml:"ports_match_opposite"`
}
