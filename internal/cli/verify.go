package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/placement/pkg/arrange"
	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/geom/sdfx"
)

// newVerifyCmd builds the `verify` command: it reads an arrangement as
// "x y r" lines (from a file argument or stdin) and checks it against
// the containment and non-overlap invariants.
func newVerifyCmd() *cobra.Command {
	var (
		width     float64
		height    float64
		disk      float64
		precision int
	)

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Verify a circle arrangement against a domain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			arr, err := readArrangement(in)
			if err != nil {
				return err
			}

			var domain geom.Domain
			switch {
			case disk > 0:
				domain = geom.DiskDomain(disk)
			case width > 0 && height > 0:
				domain = geom.RectDomain(width, height)
			default:
				return fmt.Errorf("specify a domain: --disk or --width and --height")
			}

			eng := sdfx.New()
			reg, err := geom.Build(eng, domain)
			if err != nil {
				return err
			}

			report := arrange.Verify(reg, arr, geom.NewTolerance(precision))
			if report.OK {
				logger.Info("feasible", "circles", arr.Len())
				fmt.Fprintln(cmd.OutOrStdout(), "PASS")
				return nil
			}
			for _, v := range report.Violations {
				logger.Error("violation", "kind", v.Kind.String(), "i", v.I, "j", v.J)
			}
			return fmt.Errorf("arrangement is infeasible: %d violations", len(report.Violations))
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "rectangle domain width")
	cmd.Flags().Float64Var(&height, "height", 0, "rectangle domain height")
	cmd.Flags().Float64Var(&disk, "disk", 0, "disk domain radius (overrides width/height)")
	cmd.Flags().IntVar(&precision, "precision", 0, "tolerance precision digits (0 = default)")

	return cmd
}

// readArrangement parses "x y r" lines. Blank lines and # comments are
// skipped.
func readArrangement(r io.Reader) (*arrange.Arrangement, error) {
	arr := arrange.New(0)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"x y r\", got %q", line, text)
		}
		var vals [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vals[i] = v
		}
		arr.Add(geom.Circle{X: vals[0], Y: vals[1], R: vals[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return arr, nil
}
