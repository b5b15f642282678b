/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package policymodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/np-guard/models/pkg/interval"
)

const (
	// MinPort is the lowest valid transport port.
	MinPort int64 = 1
	// MaxPort is the highest valid transport port.
	MaxPort int64 = 65535
)

// PortSpec describes what ports a rule matches, as a tagged variant over a
// canonical set of closed intervals within [MinPort, MaxPort].
type PortSpec struct {
	Mode  MatchMode
	Ports *interval.CanonicalSet
}

// AnyPorts returns the spec matching all ports.
func AnyPorts() *PortSpec {
	return &PortSpec{Mode: MatchAny}
}

// NewPortSpec returns a spec with the given mode over the given interval set.
func NewPortSpec(mode MatchMode, ports *interval.CanonicalSet) *PortSpec {
	return &PortSpec{Mode: mode, Ports: ports}
}

// AllPortsSet returns the canonical interval set covering every valid port.
func AllPortsSet() *interval.CanonicalSet {
	return interval.New(MinPort, MaxPort).ToSet()
}

// ParsePortRange parses a single "N" or "N-M" port range token.
// A range outside [MinPort, MaxPort] or with start > end yields an error;
// per the data-shape anomaly policy callers turn that into an empty range
// plus a low-severity finding rather than failing the run.
func ParsePortRange(token string) (start, end int64, err error) {
	token = strings.TrimSpace(token)
	bounds := strings.SplitN(token, "-", 2)
	start, err = strconv.ParseInt(strings.TrimSpace(bounds[0]), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed port %q: %w", token, err)
	}
	end = start
	if len(bounds) == 2 {
		end, err = strconv.ParseInt(strings.TrimSpace(bounds[1]), 10, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("malformed port range %q: %w", token, err)
		}
	}
	if start < MinPort || end > MaxPort || start > end {
		return 0, 0, fmt.Errorf("port range %q outside [%d,%d]", token, MinPort, MaxPort)
	}
	return start, end, nil
}

// IsAll reports whether the spec matches every port: MatchAny, an Include of
// the full port range, or an Exclude of the empty set.
func (p *PortSpec) IsAll() bool {
	switch p.Mode {
	case MatchAny:
		return true
	case MatchInclude:
		return p.Ports != nil && p.Ports.Equal(AllPortsSet())
	case MatchExclude:
		return p.Ports == nil || p.Ports.IsEmpty()
	}
	return false
}

// IsEmptyMatch reports whether the spec matches no port.
func (p *PortSpec) IsEmptyMatch() bool {
	return p.Mode == MatchInclude && (p.Ports == nil || p.Ports.IsEmpty())
}

// EffectiveSet returns the matched ports in include form; Exclude specs are
// materialized by complementing within the port universe.
func (p *PortSpec) EffectiveSet() *interval.CanonicalSet {
	switch p.Mode {
	case MatchInclude:
		if p.Ports == nil {
			return interval.NewCanonicalSet()
		}
		return p.Ports.Copy()
	case MatchExclude:
		if p.Ports == nil {
			return AllPortsSet()
		}
		return AllPortsSet().Subtract(p.Ports)
	}
	return AllPortsSet()
}

func (p *PortSpec) String() string {
	if p.Mode == MatchAny {
		return "any"
	}
	return fmt.Sprintf("%s %s", p.Mode, p.Ports.String())
}
