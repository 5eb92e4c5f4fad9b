package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/placement/pkg/bench"
)

// newBenchCmd builds the `bench` command, running the built-in
// fixed-seed benchmark cases at increasing circle counts.
func newBenchCmd() *cobra.Command {
	var (
		sizes  []int
		repeat int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the built-in placement benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			for _, n := range sizes {
				for _, spec := range []bench.Spec{bench.SquareGreedy(n), bench.DiskRelax(n)} {
					spec.Repeat = repeat
					logger.Debug("running", "case", spec.Name)
					res, err := bench.Run(spec)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), res.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&sizes, "n", []int{64, 256, 1024}, "circle counts to benchmark")
	cmd.Flags().IntVar(&repeat, "repeat", 3, "timed runs per case")

	return cmd
}
