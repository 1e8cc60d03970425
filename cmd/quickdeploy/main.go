// Package main is the entry point for the quickdeploy server.
//
// quickdeploy is a stateless web wizard that deploys an edge-compute
// template repository for a visitor: it forks the template into their
// account, provisions the compute service, seals the deployment credential
// into the fork and pushes the rewritten service manifest.
//
// Commands: serve, init, version.
//
// For detailed usage information, run:
//
//	quickdeploy --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/quickdeploy/cmd/quickdeploy/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
