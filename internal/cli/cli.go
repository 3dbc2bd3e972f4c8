// Package cli implements the stablesdp command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/stablesdp/config"
	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// version is injected with -ldflags "-X .../internal/cli.version=...".
var version = "dev"

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a CLI writing console logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.verbose = level == LogDebug
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "stablesdp",
		Short:        "Post-process stable-set SDP relaxations",
		Long:         `stablesdp solves the Lovász theta relaxation of a graph, refines it to a fixed point, recovers or rounds a stable set, and builds treewidth-regular supergraphs.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(c.thetaCommand())
	root.AddCommand(c.roundCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.enrichCommand())

	return root
}

// loadConfig reads --config or falls back to defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath)

	return cfg, nil
}

// libraryLogger is the zap logger handed to library packages; silent unless
// debugging was asked for.
func (c *CLI) libraryLogger(cfg config.Config) (*zap.Logger, error) {
	if !c.verbose && !cfg.Log.Debug {
		return zap.NewNop(), nil
	}

	return config.NewLogger(true)
}

func (c *CLI) openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	s, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store opened", "backend", cfg.Store.Backend)

	return s, nil
}

// runID tags log lines of one invocation.
func runID() string { return uuid.NewString()[:8] }

// graphFlags are shared by every command reading an edge list.
type graphFlags struct {
	header   bool
	weighted bool
	first    int
	n        int
	random   bool
	seed     int64
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.header, "header", false, "skip the first line of the edge list")
	cmd.Flags().BoolVar(&f.weighted, "weighted", false, "read the third column as edge weight")
	cmd.Flags().IntVar(&f.first, "first", 0, "first vertex of the induced window")
	cmd.Flags().IntVarP(&f.n, "vertices", "n", 0, "window size (0 = whole graph)")
	cmd.Flags().BoolVar(&f.random, "random", false, "draw the window start at random instead of --first")
	cmd.Flags().Int64Var(&f.seed, "window-seed", 0, "seed of the --random window (0 = default stream)")
}

func (f *graphFlags) load(path string) (*graph.Graph, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	defer fh.Close()

	opts := graph.ReadOptions{SkipHeader: f.header}
	if f.weighted {
		opts.GraphOptions = []graph.Option{graph.WithWeighted()}
	}
	g, _, err := graph.ReadEdgeList(fh, opts)
	if err != nil {
		return nil, err
	}
	switch {
	case f.n > 0 && f.random:
		var rng *rand.Rand
		if f.seed != 0 {
			rng = rand.New(rand.NewSource(f.seed))
		}
		sub, _, err := g.RandomSubgraph(f.n, rng)
		return sub, err
	case f.n > 0:
		return g.Subgraph(f.first, f.n)
	}

	return g, nil
}

func printKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%-12s %v\n", key+":", value)
}
