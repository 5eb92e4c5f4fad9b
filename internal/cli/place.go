package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/placement/pkg/engine"
	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/geom/sdfx"
	"github.com/chazu/placement/pkg/place"
)

// newPlaceCmd builds the `place` command. The request comes either from
// a scenario script or from inline flags; the resulting arrangement is
// printed one circle per line as "x y r".
func newPlaceCmd() *cobra.Command {
	var (
		scenarioPath string
		configPath   string
		width        float64
		height       float64
		disk         float64
		radiiFlag    string
		count        int
		radius       float64
		strategy     string
		seed         uint64
		skipUnplaced bool
		parallel     bool
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Compute a circle arrangement",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			var req place.Request
			if scenarioPath != "" {
				src, err := os.ReadFile(scenarioPath)
				if err != nil {
					return fmt.Errorf("scenario: %w", err)
				}
				parsed, evalErrs, err := engine.NewEngine().Evaluate(string(src))
				if err != nil {
					return fmt.Errorf("scenario: %w", err)
				}
				for _, e := range evalErrs {
					logger.Error("scenario", "err", e.Error())
				}
				if parsed == nil {
					return fmt.Errorf("scenario %s did not evaluate to a request", scenarioPath)
				}
				req = *parsed
			} else {
				req, err = requestFromFlags(width, height, disk, radiiFlag, count, radius, strategy, seed)
				if err != nil {
					return err
				}
				req.SkipUnplaced = skipUnplaced
				req.Parallel = parallel
			}

			// Config fills the bounds flags do not cover.
			if req.Precision == 0 {
				req.Precision = cfg.Precision
			}
			if req.Budget.MaxAttempts == 0 {
				req.Budget.MaxAttempts = cfg.MaxAttempts
			}
			if req.Budget.MaxIterations == 0 {
				req.Budget.MaxIterations = cfg.MaxIterations
			}
			if req.Budget.MaxRestarts == 0 {
				req.Budget.MaxRestarts = cfg.MaxRestarts
			}

			logger.Debug("placing", "strategy", req.Strategy.String(), "circles", len(req.Radii), "seed", req.Seed)

			prog := newProgress(logger)
			arr, err := place.NewPlacer(sdfx.New()).Place(req)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d circles", arr.Len()))

			for _, c := range arr.Circles {
				fmt.Fprintf(cmd.OutOrStdout(), "%g %g %g\n", c.X, c.Y, c.R)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario script defining the request")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config with precision and budget defaults")
	cmd.Flags().Float64Var(&width, "width", 0, "rectangle domain width")
	cmd.Flags().Float64Var(&height, "height", 0, "rectangle domain height")
	cmd.Flags().Float64Var(&disk, "disk", 0, "disk domain radius (overrides width/height)")
	cmd.Flags().StringVar(&radiiFlag, "radii", "", "comma-separated radius list")
	cmd.Flags().IntVar(&count, "count", 0, "number of uniform circles (with --radius)")
	cmd.Flags().Float64Var(&radius, "radius", 0, "uniform circle radius (with --count)")
	cmd.Flags().StringVar(&strategy, "strategy", "greedy", "placement strategy: greedy, relax, restart")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&skipUnplaced, "skip-unplaced", false, "drop circles the greedy strategy cannot place")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run restart attempts concurrently")

	return cmd
}

// requestFromFlags assembles a request from the inline flag set.
func requestFromFlags(width, height, disk float64, radiiFlag string, count int, radius float64, strategy string, seed uint64) (place.Request, error) {
	var req place.Request

	switch {
	case disk > 0:
		req.Domain = geom.DiskDomain(disk)
	case width > 0 && height > 0:
		req.Domain = geom.RectDomain(width, height)
	default:
		return req, fmt.Errorf("specify a domain: --disk or --width and --height")
	}

	switch {
	case radiiFlag != "":
		for _, field := range strings.Split(radiiFlag, ",") {
			r, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return req, fmt.Errorf("--radii: %w", err)
			}
			req.Radii = append(req.Radii, r)
		}
	case count > 0 && radius > 0:
		req.Radii = make([]float64, count)
		for i := range req.Radii {
			req.Radii[i] = radius
		}
	default:
		return req, fmt.Errorf("specify radii: --radii or --count and --radius")
	}

	strat, err := place.ParseStrategy(strategy)
	if err != nil {
		return req, err
	}
	req.Strategy = strat
	req.Seed = seed
	return req, nil
}
