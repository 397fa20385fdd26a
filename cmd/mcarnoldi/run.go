// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
	"github.com/katalvlaran/mcarnoldi/config"
	"github.com/katalvlaran/mcarnoldi/convergence"
	"github.com/katalvlaran/mcarnoldi/eigen"
	"github.com/katalvlaran/mcarnoldi/stochastic"
	"github.com/katalvlaran/mcarnoldi/telemetry"
	"github.com/katalvlaran/mcarnoldi/transport"
)

const metricsNamespace = "mcarnoldi"

func runSolve(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	run := config.Default()
	if path != "" {
		var err error
		if run, err = config.Load(path); err != nil {
			return err
		}
	}

	logger, err := newLogger(run, debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := telemetry.NewCollector(metricsNamespace)
	if metricsAddr != "" {
		shutdown, err := serveMetrics(metricsAddr, collector, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	tracker := convergence.NewTracker(convergence.DefaultTrackerOptions())
	state, err := solve(ctx, run, logger, tracker, collector)
	if state != nil {
		printSummary(cmd.OutOrStdout(), state, tracker)
	}

	return err
}

// solve wires transport, operator and solver for one run.
func solve(ctx context.Context, run *config.Run, logger *zap.Logger, observers ...arnoldi.Observer) (*arnoldi.RunState, error) {
	topts := run.TransportOptions()
	topts.Logger = logger.Named("transport")
	sim, err := transport.NewSimulator(run.Slab(), topts)
	if err != nil {
		return nil, err
	}

	op, err := stochastic.NewOperator(sim, run.Seed,
		stochastic.WithContext(ctx),
		stochastic.WithLogger(logger.Named("operator")),
		stochastic.WithRunID(run.RunID),
	)
	if err != nil {
		return nil, err
	}

	opts, err := run.SolverOptions()
	if err != nil {
		return nil, err
	}
	if opts.Relaxation, err = run.Relaxation(); err != nil {
		return nil, err
	}
	opts.Observers = observers
	opts.Logger = logger.Named("arnoldi")

	var dec eigen.Decomposer = eigen.Gonum{}
	if run.Solver.Decomposer == config.DecomposerSchur {
		dec = eigen.Schur{}
	}
	solver, err := arnoldi.NewReal(op, dec, eigen.Householder{}, opts)
	if err != nil {
		return nil, err
	}

	start := make([]float64, sim.Bins())
	for i := range start {
		start[i] = 1
	}
	logger.Info("Run started",
		zap.Int("bins", sim.Bins()),
		zap.Int("histories", opts.BaseHistories),
		zap.Stringer("method", opts.Method),
		zap.Int64("seed", run.Seed),
		zap.Uint64("run_id", run.RunID),
	)

	state, err := arnoldi.RunRestartedArnoldi[float64](ctx, solver, start)
	logger.Info("Run finished",
		zap.Stringer("status", state.Status()),
		zap.Uint64("invocations", op.Invocations()),
		zap.Int64("histories", op.HistoriesTracked()),
		zap.Error(err),
	)

	return state, err
}

func newLogger(run *config.Run, debug bool) (*zap.Logger, error) {
	lvl, err := run.LogLevel()
	if err != nil {
		return nil, err
	}
	if debug {
		lvl = zap.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	if run.Log.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// serveMetrics exposes c on addr/metrics and returns a shutdown func.
func serveMetrics(addr string, c prometheus.Collector, logger *zap.Logger) (func(), error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("Serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func printSummary(w io.Writer, state *arnoldi.RunState, tracker *convergence.Tracker) {
	fmt.Fprintf(w, "status:      %s\n", state.Status())
	fmt.Fprintf(w, "restarts:    %d\n", len(state.Reports()))
	if val, _, ok := state.Ritz(0); ok {
		fmt.Fprintf(w, "dominant:    %.6g\n", real(val))
	}
	if mean, sd, ok := tracker.Value(0); ok {
		fmt.Fprintf(w, "mean:        %.6g +/- %.2g\n", real(mean), real(sd))
	}
	fmt.Fprintf(w, "residual:    %.3g\n", state.Residual())

	all, active := state.Histories(true), state.Histories(false)
	fmt.Fprintf(w, "histories:   %d\n", lastOf(all[:len(all)-len(active)])+lastOf(active))
	if fom := tracker.FOM(); len(fom) > 0 {
		fmt.Fprintf(w, "fom:         %.4g\n", fom[len(fom)-1])
	}
	if ent := tracker.Entropy(false); len(ent) > 0 {
		fmt.Fprintf(w, "entropy:     %.4g\n", ent[len(ent)-1])
	}
}

// lastOf returns the final entry of a cumulative series, 0 when empty.
func lastOf(s []int64) int64 {
	if len(s) == 0 {
		return 0
	}

	return s[len(s)-1]
}
