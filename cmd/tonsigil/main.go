// Package main is the entry point for the tonsigil CLI.
package main

import (
	"os"

	"github.com/mrz1836/tonsigil/internal/cli"
)

// Set by the linker at release time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	err := cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
