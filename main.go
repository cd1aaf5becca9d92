// Package main is the entry point for the bpgroup command.
package main

import (
	"fmt"
	"os"

	"github.com/zjrosen/bpgroup/cmd"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	versionString := fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	cmd.SetVersion(versionString)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bpgroup:", err)
		os.Exit(1)
	}
}
