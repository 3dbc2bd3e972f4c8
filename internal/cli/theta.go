package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/stablesdp/pipeline"
	"github.com/katalvlaran/stablesdp/recovery"
	"github.com/katalvlaran/stablesdp/sdp"
)

// thetaCommand solves, refines and recovers a stable set.
func (c *CLI) thetaCommand() *cobra.Command {
	var gf graphFlags
	var fallback string
	var persist bool

	cmd := &cobra.Command{
		Use:   "theta [edgelist]",
		Short: "Solve the Lovász theta relaxation and extract a stable set",
		Long: `Solve the Lovász theta relaxation of the graph, refine the solution to a
fixed point and recover the stable set it encodes. When the relaxation is not
exact the configured rounding is used instead.

Only the lovasz recovery scheme applies. On graphs with edges the solver
penalises edge entries instead of zeroing them, so the printed theta is an
upper estimate.`,
		Example: `  # Whole graph
  stablesdp theta c5.txt

  # 50 vertices of a torus instance, hyperplane fallback, saved to the store
  stablesdp theta --header -n 50 --fallback hyperplane --save toruspm3-8-50.dat`,
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
			zl, err := c.libraryLogger(cfg)
			if err != nil {
				return err
			}
			defer zl.Sync() //nolint:errcheck

			rc, err := cfg.RefineConfig()
			if err != nil {
				return err
			}
			scheme, err := cfg.Scheme()
			if err != nil {
				return err
			}
			// theta only builds the Lovász relaxation; other encodings would
			// misread its solution.
			if _, ok := scheme.(recovery.Lovasz); !ok {
				return fmt.Errorf("theta: scheme %q needs its own relaxation: %w", scheme.Name(), recovery.ErrUnknownScheme)
			}
			if fallback == "" {
				fallback = cfg.Rounding.Mode
			}
			opts := pipeline.Options{
				Refine:     rc,
				Scheme:     scheme,
				Fallback:   fallback,
				FactorTol:  cfg.Spectral.FactorTolerance,
				ClipTol:    cfg.Spectral.ClipTolerance,
				ReduceRank: cfg.Rounding.ReduceRank,
				Iterations: cfg.Rounding.Iterations,
				Seed:       cfg.Rounding.Seed,
				MinRadius:  cfg.Rounding.MinRadius,
				MaxRadius:  cfg.Rounding.MaxRadius,
				StallAfter: cfg.Rounding.StallAfter,
			}
			pOpts := []pipeline.Option{pipeline.WithLogger(zl)}
			if persist {
				st, err := c.openStore(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				opts.Case = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				pOpts = append(pOpts, pipeline.WithStore(st))
			}

			prob, err := sdp.NewLovasz(g, cfg.LovaszOptions())
			if err != nil {
				return err
			}
			p, err := pipeline.New(opts, pOpts...)
			if err != nil {
				return err
			}

			id := runID()
			c.Logger.Info("solving", "run", id, "vertices", g.Order(), "edges", g.Size())
			rep, err := p.Run(cmd.Context(), g, prob)
			if err != nil {
				return fmt.Errorf("theta: %w", err)
			}
			c.Logger.Info("done", "run", id, "method", rep.Method)

			out := cmd.OutOrStdout()
			printKeyValue(out, "Theta", fmt.Sprintf("%.6f", rep.Objective))
			printKeyValue(out, "Iterations", rep.Refine.Iterations)
			printKeyValue(out, "Stop", rep.Refine.Reason)
			printKeyValue(out, "Method", rep.Method)
			printKeyValue(out, "Size", rep.Vector.Size())
			printKeyValue(out, "Members", rep.Vector.Members())
			if rep.BundleKey != "" {
				printKeyValue(out, "Saved", rep.BundleKey)
			}

			return nil
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVar(&fallback, "fallback", "", "rounding when not exact: greedy or hyperplane (default from config)")
	cmd.Flags().BoolVar(&persist, "save", false, "write the solution bundle to the configured store")

	return cmd
}
