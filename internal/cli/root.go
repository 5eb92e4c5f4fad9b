// Package cli implements the placement command-line interface.
//
// The main commands are:
//   - place: compute a circle arrangement for a domain and radius list
//   - verify: check an arrangement against the feasibility invariants
//   - bench: run the built-in benchmark cases
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version,
// typically injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the placement CLI under ctx and returns an error if any
// command fails.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "placement",
		Short:        "placement computes non-overlapping circle arrangements in planar domains",
		Long:         `placement packs circles into rectangles, disks, and polygons using signed-distance predicates from an SDF geometry engine, with greedy, relaxation, and restart strategies.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("placement %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPlaceCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newBenchCmd())

	return root.ExecuteContext(ctx)
}
