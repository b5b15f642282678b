/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package subcmds

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/np-guard/firewall-policy-analyzer/pkg/policymodel"
)

type formatSetting string

const (
	jsonFormat formatSetting = "json"
	textFormat formatSetting = "txt"

	stringType = "string"
)

var allFormats = []string{
	string(jsonFormat),
	string(textFormat),
}

func (fs *formatSetting) String() string {
	return string(*fs)
}

func (fs *formatSetting) Set(v string) error {
	v = strings.ToLower(v)
	if slices.Contains(allFormats, v) {
		*fs = formatSetting(v)
		return nil
	}
	return fmt.Errorf("%s", mustBeOneOf(allFormats))
}

func (fs *formatSetting) Type() string {
	return stringType
}

func validateFormat(args *inArgs) error {
	if args.outputFormat == "" {
		args.outputFormat = textFormat
	}
	return nil
}

// auditReport is the document shape of the json output.
type auditReport struct {
	Findings []policymodel.Finding `json:"findings"`
}

func renderFindings(format formatSetting, findings []policymodel.Finding) (string, error) {
	if format == jsonFormat {
		out, err := json.MarshalIndent(auditReport{Findings: findings}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out) + "\n", nil
	}
	return renderFindingsText(findings), nil
}

func renderFindingsText(findings []policymodel.Finding) string {
	if len(findings) == 0 {
		return "no issues found\n"
	}
	header := fmt.Sprintf("audit results: %d issues", len(findings))
	underline := strings.Repeat("~", len(header))
	var b strings.Builder
	b.WriteString(header + "\n" + underline + "\n")
	for _, f := range findings {
		b.WriteString(f.String() + "\n")
	}
	return b.String()
}
