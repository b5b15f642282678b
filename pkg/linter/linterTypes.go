/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package linter runs the posture checks over normalized rulesets: shadowed
// and redundant rules, over-permissive rules, orphaned references, and
// zone/VLAN isolation coverage. Each check lives in its own lintXxx file.
package linter

import (
	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

// rulesetLinter is a check that inspects one ruleset at a time. Rulesets are
// independent, so these checks fan out one worker per ruleset.
type rulesetLinter interface {
	name() string
	description() string
	checkRuleset(rulesetID string, rules []*policymodel.Rule,
		inv *policymodel.Inventory) ([]policymodel.Finding, error)
}

// globalLinter is a check that needs the whole rule corpus at once, such as
// isolation coverage between zones.
type globalLinter interface {
	name() string
	description() string
	checkAll(rulesets map[string][]*policymodel.Rule,
		inv *policymodel.Inventory) ([]policymodel.Finding, error)
}

func rulesetLinters() []rulesetLinter {
	return []rulesetLinter{
		&ruleShadowedLint{},
		&permissiveRulesLint{},
		&orphanedRulesLint{},
	}
}

func globalLinters() []globalLinter {
	return []globalLinter{
		&zoneIsolationLint{},
		&managementAccessLint{},
	}
}

// GetLintersNames returns the names of all checks, for CLI help output.
func GetLintersNames() []string {
	names := []string{}
	for _, l := range rulesetLinters() {
		names = append(names, l.name())
	}
	for _, l := range globalLinters() {
		names = append(names, l.name())
	}
	return names
}
