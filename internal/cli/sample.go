package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/stablesdp/sampling"
	"github.com/katalvlaran/stablesdp/sdp"
	"github.com/katalvlaran/stablesdp/store"
)

// sampleCommand accumulates feasible-region samples in the store.
func (c *CLI) sampleCommand() *cobra.Command {
	var gf graphFlags
	var iterations int
	var seed int64

	cmd := &cobra.Command{
		Use:   "sample [edgelist]",
		Short: "Sample the feasible region of the theta relaxation",
		Long: `Minimise random symmetric objectives over the theta relaxation's feasible
region and append the solutions to the samples stored for this graph.`,
		Example: `  stablesdp sample --iterations 20 -c run.toml c5.txt`,
		Args:    cobra.ExactArgs(1),
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

			st, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			prob, err := sdp.NewLovasz(g, cfg.LovaszOptions())
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			key := store.SampleKey("lovasz", name, g.Order())

			s := sampling.New(sampling.WithStore(st), sampling.WithLogger(zl), sampling.WithSeed(seed))
			samples, err := s.FeasibleRegion(cmd.Context(), prob, key, iterations)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printKeyValue(out, "Key", key)
			printKeyValue(out, "New", iterations)
			printKeyValue(out, "Total", len(samples))

			return nil
		},
	}

	gf.register(cmd)
	cmd.Flags().IntVar(&iterations, "iterations", 10, "number of new samples")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = fixed default)")

	return cmd
}
