package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/stablesdp/config"
	"github.com/katalvlaran/stablesdp/greedy"
	"github.com/katalvlaran/stablesdp/pipeline"
	"github.com/katalvlaran/stablesdp/recovery"
	"github.com/katalvlaran/stablesdp/rounding"
	"github.com/katalvlaran/stablesdp/sdp"
	"github.com/katalvlaran/stablesdp/spectral"
)

// roundCommand rounds the unrefined relaxation directly.
func (c *CLI) roundCommand() *cobra.Command {
	var gf graphFlags
	var mode string

	cmd := &cobra.Command{
		Use:   "round [edgelist]",
		Short: "Round the theta relaxation without refinement",
		Example: `  stablesdp round --mode greedy c5.txt
  stablesdp round --mode hyperplane c5.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			g, err := gf.load(args[0])
			if err != nil {
				return err
			}
			prob, err := sdp.NewLovasz(g, cfg.LovaszOptions())
			if err != nil {
				return err
			}
			sol, err := prob.Solve(cmd.Context())
			if err != nil {
				return fmt.Errorf("round: %w: %w", sdp.ErrRelaxationSolveFailed, err)
			}
			if mode == "" {
				mode = cfg.Rounding.Mode
			}

			var v recovery.IncidenceVector
			switch mode {
			case config.RoundingGreedy:
				r, err := greedy.StableSet(sol.Re, g, cfg.GreedyOptions()...)
				if err != nil {
					return err
				}
				v = recovery.IncidenceVector(r.Assignment)
			case config.RoundingHyperplane:
				y, err := spectral.FactorizePSD(sol.Re, cfg.Spectral.FactorTolerance)
				if err != nil {
					return err
				}
				r, err := rounding.Hyperplane(y, func(x []float64) float64 {
					return -float64(pipeline.DecodeSigns(x, g, false).Size())
				}, cfg.HyperplaneOptions()...)
				if err != nil {
					return err
				}
				v = pipeline.DecodeSigns(r.Assignment, g, false)
				c.Logger.Debug("hyperplane", "evaluated", r.Evaluated, "cost", r.Cost)
			default:
				return fmt.Errorf("round: unknown mode %q", mode)
			}
			if err := recovery.VerifyStableSet(v, g); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printKeyValue(out, "Theta", fmt.Sprintf("%.6f", prob.Objective(sol)))
			printKeyValue(out, "Method", mode)
			printKeyValue(out, "Size", v.Size())
			printKeyValue(out, "Members", v.Members())

			return nil
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "", "greedy or hyperplane (default from config)")

	return cmd
}
