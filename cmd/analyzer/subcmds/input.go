/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package subcmds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/np-guard/models/pkg/connection"
	"github.com/np-guard/models/pkg/netp"
	"gopkg.in/yaml.v3"

	"github.com/np-guard/firewall-policy-analyzer/pkg/normalizer"
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// rulesDocument is the shape of a rules input file.
type rulesDocument struct {
	Rules []normalizer.RawRule `json:"rules" yaml:"rules"`
}

// inventoryDocument is the shape of the inventory input file.
type inventoryDocument struct {
	Zones             []policymodel.Zone    `json:"zones" yaml:"zones"`
	Networks          []policymodel.Network `json:"networks" yaml:"networks"`
	RequiredEndpoints []rawEndpoint         `json:"required_endpoints" yaml:"required_endpoints"`
}

// rawEndpoint is one required-endpoint entry of the inventory document; the
// connection is given as protocol plus destination port.
type rawEndpoint struct {
	Name      string   `json:"name" yaml:"name"`
	SrcZoneID string   `json:"src_zone_id" yaml:"src_zone_id"`
	Addresses []string `json:"addresses" yaml:"addresses"`
	Protocol  string   `json:"protocol" yaml:"protocol"`
	Port      int64    `json:"port" yaml:"port"`
}

func unmarshalFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("error parsing yaml file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("error parsing json file %s: %w", path, err)
		}
	}
	return nil
}

// loadRawRules concatenates the rule lists of all given files.
func loadRawRules(paths []string) ([]normalizer.RawRule, error) {
	res := []normalizer.RawRule{}
	for _, path := range paths {
		var doc rulesDocument
		if err := unmarshalFile(path, &doc); err != nil {
			return nil, err
		}
		res = append(res, doc.Rules...)
	}
	return res, nil
}

// loadInventory reads and indexes the inventory document; an empty path
// yields an empty inventory, which disables the reference and coverage checks.
func loadInventory(path string) (*policymodel.Inventory, error) {
	if path == "" {
		return policymodel.NewInventory(nil, nil, nil), nil
	}
	var doc inventoryDocument
	if err := unmarshalFile(path, &doc); err != nil {
		return nil, err
	}
	endpoints := make([]policymodel.RequiredEndpoint, 0, len(doc.RequiredEndpoints))
	for i := range doc.RequiredEndpoints {
		endpoint, err := buildRequiredEndpoint(&doc.RequiredEndpoints[i])
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, endpoint)
	}
	return policymodel.NewInventory(doc.Zones, doc.Networks, endpoints), nil
}

func buildRequiredEndpoint(raw *rawEndpoint) (policymodel.RequiredEndpoint, error) {
	dest, mixed, err := policymodel.ParseAddrSet(raw.Addresses)
	if err != nil || mixed {
		return policymodel.RequiredEndpoint{},
			fmt.Errorf("required endpoint %s: bad address list (%v)", raw.Name, err)
	}
	conn, err := endpointConnection(raw)
	if err != nil {
		return policymodel.RequiredEndpoint{}, err
	}
	return policymodel.RequiredEndpoint{
		Name:      raw.Name,
		SrcZoneID: raw.SrcZoneID,
		Dest:      dest,
		Conn:      conn,
	}, nil
}

func endpointConnection(raw *rawEndpoint) (*connection.Set, error) {
	var protocol netp.ProtocolString
	switch strings.ToLower(raw.Protocol) {
	case "tcp":
		protocol = netp.ProtocolStringTCP
	case "udp":
		protocol = netp.ProtocolStringUDP
	case "", "all", "any":
		return connection.All(), nil
	default:
		return nil, fmt.Errorf("required endpoint %s: unsupported protocol %q", raw.Name, raw.Protocol)
	}
	if raw.Port == 0 {
		return connection.TCPorUDPConnection(protocol,
			connection.MinPort, connection.MaxPort, connection.MinPort, connection.MaxPort), nil
	}
	if raw.Port < connection.MinPort || raw.Port > connection.MaxPort {
		return nil, fmt.Errorf("required endpoint %s: port %d out of range", raw.Name, raw.Port)
	}
	return connection.TCPorUDPConnection(protocol,
		connection.MinPort, connection.MaxPort, raw.Port, raw.Port), nil
}
