package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	"epigrid/internal/app"
	"epigrid/internal/sims/seirv"
	"epigrid/internal/sweep"
	"epigrid/pkg/epidemic"
)

func main() {
	ticks := flag.Int("ticks", 200, "ticks to simulate per replicate")
	runs := flag.Int("runs", 32, "number of replicates")
	seed := flag.Int64("seed", 1337, "first replicate seed; later replicates use seed+1, seed+2, ...")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 5, "replicates with the highest infection peak to list")
	var overrides app.Overrides
	flag.Var(&overrides, "set", "scenario override in key=value form (repeatable)")
	flag.Parse()

	cfg := seirv.FromMap(overrides.Map())
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid scenario: %v", err)
	}

	fmt.Printf("Sweeping %d replicates (%d workers, %d ticks, %dx%d automata of %dx%d)\n",
		*runs, *workers, *ticks, cfg.Rows, cfg.Cols, cfg.N, cfg.N)

	start := time.Now()
	results := sweep.Run(cfg, sweep.Seeds(*seed, *runs), *ticks, *workers)
	summary := sweep.Summarize(results)
	elapsed := time.Since(start)

	for _, r := range results {
		if r.Err != nil {
			log.Printf("replicate failed: %v", r.Err)
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nMean final census over %d runs (elapsed %s):\n", summary.Runs, elapsed.Round(time.Millisecond))
	for _, s := range epidemic.States() {
		fmt.Fprintf(tw, "%s\t%.2f\n", s.Name(), summary.MeanFinal[s])
	}
	fmt.Fprintf(tw, "mean infected peak\t%.2f\n", summary.MeanPeak)
	if err := tw.Flush(); err != nil {
		log.Fatal(err)
	}

	ranked := append([]sweep.Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].PeakValue > ranked[j].PeakValue })
	fmt.Printf("\nTop %d infection peaks:\n", *top)
	for i := 0; i < len(ranked) && i < *top; i++ {
		r := ranked[i]
		if r.Err != nil {
			continue
		}
		fmt.Printf("%2d) seed=%d peak=%d at tick %d final=%s\n", i+1, r.Seed, r.PeakValue, r.PeakTick, r.Final)
	}
}
