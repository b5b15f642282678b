/*
Copyright 2023- IBM Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"

	"github.com/np-guard/firewall-policy-analyzer/cmd/analyzer/subcmds"
	"github.com/np-guard/firewall-policy-analyzer/pkg/logging"
)

// The actual main function
// Takes command-line flags and returns an error rather than exiting, so it can be more easily used in testing
func _main(cmdlineArgs []string, sum *subcmds.Summary) error {
	rootCmd := subcmds.NewRootCommand(sum)
	rootCmd.SetArgs(cmdlineArgs)
	return rootCmd.Execute()
}

func main() {
	sum := &subcmds.Summary{}
	err := _main(os.Args[1:], sum)
	if err != nil {
		logging.Init(logging.MediumVerbosity) // just in case it wasn't initialized earlier
		logging.Errorf("%v. exiting...", err)
		os.Exit(1)
	}
	if sum.FindingsCount > 0 {
		os.Exit(2) // audit completed and surfaced posture issues
	}
}
