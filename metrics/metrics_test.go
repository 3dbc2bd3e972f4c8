// SPDX-License-Identifier: MIT

package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/stablesdp/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	c.ObserveIteration(10 * time.Millisecond)
	c.ObserveIteration(20 * time.Millisecond)
	c.ObserveRun("converged")
	c.ObserveCandidates("hyperplane", 100)
	c.ObserveCandidates("hyperplane", 0)
	c.ObserveRecovery("lovasz", "exact")

	want := `
# HELP stablesdp_refine_iterations_total Total number of fixed-point re-solves
# TYPE stablesdp_refine_iterations_total counter
stablesdp_refine_iterations_total 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "stablesdp_refine_iterations_total"))

	wantRuns := `
# HELP stablesdp_refine_runs_total Total number of refinement runs by termination reason
# TYPE stablesdp_refine_runs_total counter
stablesdp_refine_runs_total{reason="converged"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(wantRuns), "stablesdp_refine_runs_total"))

	n, err := testutil.GatherAndCount(reg, "stablesdp_rounding_candidates_total", "stablesdp_recovery_total", "stablesdp_refine_solve_seconds")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *metrics.Collector
	require.NotPanics(t, func() {
		c.ObserveIteration(time.Second)
		c.ObserveRun("error")
		c.ObserveCandidates("greedy", 3)
		c.ObserveRecovery("benson", "not_exact")
	})
}
