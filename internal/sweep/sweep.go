// Package sweep runs independent replicates of one scenario across seeds on
// a worker pool and summarises the outcomes.
package sweep

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"epigrid/internal/sims/seirv"
	"epigrid/pkg/epidemic"
)

// Result is the outcome of one replicate.
type Result struct {
	Seed      int64
	Final     epidemic.Counts
	PeakTick  int
	PeakValue int
	Err       error
}

// Summary aggregates a set of replicates.
type Summary struct {
	Runs      int
	Failed    int
	MeanFinal [epidemic.NumStates]float64
	MeanPeak  float64
	MaxPeak   Result
}

// Run simulates ticks ticks for every seed with workers goroutines. Each
// replicate owns its World. Results are sorted by seed.
func Run(cfg seirv.Config, seeds []int64, ticks, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	jobs := make(chan int64)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				results <- replicate(cfg, seed, ticks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, seed := range seeds {
			jobs <- seed
		}
		close(jobs)
	}()

	all := make([]Result, 0, len(seeds))
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Seed < all[j].Seed })
	return all
}

func replicate(cfg seirv.Config, seed int64, ticks int) Result {
	res := Result{Seed: seed}
	cfg.Seed = seed
	w, err := seirv.NewWithConfig(cfg)
	if err != nil {
		res.Err = fmt.Errorf("seed %d: %w", seed, err)
		return res
	}
	w.Reset(seed)
	res.PeakValue = w.Totals()[epidemic.Infected]
	for t := 1; t <= ticks; t++ {
		w.Step()
		if infected := w.Totals()[epidemic.Infected]; infected > res.PeakValue {
			res.PeakValue = infected
			res.PeakTick = t
		}
	}
	res.Final = w.Totals()
	return res
}

// Summarize averages the successful results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Runs++
		for i := range r.Final {
			s.MeanFinal[i] += float64(r.Final[i])
		}
		s.MeanPeak += float64(r.PeakValue)
		if s.Runs == 1 || r.PeakValue > s.MaxPeak.PeakValue {
			s.MaxPeak = r
		}
	}
	if s.Runs == 0 {
		return s
	}
	for i := range s.MeanFinal {
		s.MeanFinal[i] /= float64(s.Runs)
	}
	s.MeanPeak /= float64(s.Runs)
	return s
}

// Seeds returns count consecutive seeds starting at first.
func Seeds(first int64, count int) []int64 {
	if count <= 0 {
		return nil
	}
	out := make([]int64, count)
	for i := range out {
		out[i] = first + int64(i)
	}
	return out
}
