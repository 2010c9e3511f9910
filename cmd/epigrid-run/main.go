// Command epigrid-run advances the scenario headlessly, prints the census
// report and optionally records history and serves Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"epigrid/internal/app"
	"epigrid/internal/history"
	"epigrid/internal/metrics"
	"epigrid/internal/report"
	"epigrid/internal/sims/seirv"
	"epigrid/pkg/epidemic"
)

type options struct {
	ticks       int
	seed        int64
	every       int
	grids       bool
	historyPath string
	runName     string
	metricsAddr string
	hold        bool
	set         app.Overrides
}

func main() {
	var opts options
	flag.IntVar(&opts.ticks, "ticks", 100, "ticks to simulate")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed (0 uses the scenario seed)")
	flag.IntVar(&opts.every, "every", 10, "log progress every N ticks (0 disables)")
	flag.BoolVar(&opts.grids, "grids", false, "print every automaton grid after the run")
	flag.StringVar(&opts.historyPath, "history", "", "SQLite file to append census rows to")
	flag.StringVar(&opts.runName, "run", "", "run name stored with history rows (default: timestamp)")
	flag.StringVar(&opts.metricsAddr, "metrics", "", "address to serve /metrics on, e.g. :9090")
	flag.BoolVar(&opts.hold, "hold", false, "keep serving metrics after the run until interrupted")
	flag.Var(&opts.set, "set", "scenario override in key=value form (repeatable)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options, out io.Writer, logger *slog.Logger) error {
	cfg := seirv.FromMap(opts.set.Map())
	world, err := seirv.NewWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("build scenario: %w", err)
	}
	seed := opts.seed
	if seed == 0 {
		seed = cfg.Seed
	}
	world.Reset(seed)
	sched := world.Scheduler()

	if opts.historyPath != "" {
		name := opts.runName
		if name == "" {
			name = time.Now().UTC().Format(time.RFC3339)
		}
		rec, err := history.Open(ctx, opts.historyPath, name)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer func() { _ = rec.Close() }()
		if err := rec.Record(ctx, world.Ticks(), world.Matrix()); err != nil {
			return fmt.Errorf("record initial census: %w", err)
		}
		sched.Observe(rec.Observer(ctx))
		defer func() {
			if err := rec.Err(); err != nil {
				logger.Error("history", "err", err)
			}
		}()
		logger.Info("recording history", "path", opts.historyPath, "run", name)
	}

	var srv *http.Server
	if opts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err := metrics.New(reg)
		if err != nil {
			return err
		}
		collector.Observe(world.Ticks(), world.Matrix())
		sched.Observe(collector.Observe)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv = &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "addr", opts.metricsAddr)
	}

	if opts.every > 0 {
		sched.Observe(func(tick int, _ *epidemic.Matrix) {
			if tick%opts.every != 0 {
				return
			}
			totals := world.Totals()
			logger.Info("tick",
				"tick", tick,
				"susceptible", totals[epidemic.Susceptible],
				"exposed", totals[epidemic.Exposed],
				"infected", totals[epidemic.Infected],
				"recovered", totals[epidemic.Recovered],
				"vacant", totals[epidemic.Vacant])
		})
	}

	logger.Info("starting run", "ticks", opts.ticks, "seed", seed,
		"rows", cfg.Rows, "cols", cfg.Cols, "n", cfg.N)
	start := time.Now()
	for t := 0; t < opts.ticks; t++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("interrupted", "tick", world.Ticks())
			break
		}
		world.Step()
	}
	logger.Info("run complete", "ticks", world.Ticks(), "elapsed", time.Since(start).Round(time.Millisecond))

	if err := report.WriteIDs(out, world.Matrix()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := report.WriteCensus(out, world.Matrix()); err != nil {
		return err
	}
	if opts.grids {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := report.WriteGrids(out, world.Matrix()); err != nil {
			return err
		}
	}

	if srv != nil && opts.hold {
		logger.Info("holding metrics endpoint open; interrupt to exit")
		<-ctx.Done()
	}
	return nil
}
