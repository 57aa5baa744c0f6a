// SPDX-License-Identifier: MPL-2.0

// Package main is the entry point for the zenv CLI.
package main

import (
	cmd "github.com/zenv-dev/zenv/cmd/zenv"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.BuildDate = date
	cmd.Execute()
}
