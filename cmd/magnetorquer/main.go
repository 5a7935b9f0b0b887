// magnetorquer — PCB coil designer for CubeSat attitude control.
//
// Optimizes trace width and turn count for an embedded magnetorquer
// coil under power, thermal and manufacturing constraints, then
// generates the per-layer winding geometry and fabrication exports.
//
// Build:
//
//	go build -o magnetorquer ./cmd/magnetorquer
package main

import (
	"os"

	"github.com/piwi3910/magnetorquer/internal/cli"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
