// Package seirv wires the epidemic engine into the simulation registry used
// by the viewers and runners.
package seirv

import (
	"fmt"

	"epigrid/internal/core"
	"epigrid/pkg/epidemic"
)

// World owns one epidemic matrix, its scheduler and the composite display
// buffer. It is not safe for concurrent use.
type World struct {
	cfg Config

	m       *epidemic.Matrix
	sched   *epidemic.Scheduler
	rng     *core.RNG
	display *core.ByteGrid
}

// New returns a World with the default scenario, reset with the config seed.
func New() *World {
	w, err := NewWithConfig(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return w
}

// NewWithConfig validates cfg, builds the matrix and seeds it.
func NewWithConfig(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := epidemic.NewMatrix(cfg.Rows, cfg.Cols, cfg.N, cfg.DefaultID)
	if err != nil {
		return nil, err
	}
	rng := core.NewRNG(cfg.Seed)
	w := &World{
		cfg:     cfg,
		m:       m,
		sched:   epidemic.NewScheduler(m, rng),
		rng:     rng,
		display: core.NewByteGrid(cfg.Cols*cfg.N, cfg.Rows*cfg.N),
	}
	w.Reset(0)
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "seirv" }

// Size reports the composite grid dimensions in cells.
func (w *World) Size() core.Size { return core.Size{W: w.display.W, H: w.display.H} }

// Config returns the configuration the world was built with.
func (w *World) Config() Config { return w.cfg }

// Matrix exposes the live automaton matrix.
func (w *World) Matrix() *epidemic.Matrix { return w.m }

// Scheduler exposes the tick scheduler, mainly to register observers.
func (w *World) Scheduler() *epidemic.Scheduler { return w.sched }

// Cells exposes the composite display buffer, one epidemic.State per cell.
func (w *World) Cells() []uint8 { return w.display.Cells() }

// Ticks returns the number of ticks since the last Reset.
func (w *World) Ticks() int { return w.sched.Ticks() }

// Tiling reports the automaton layout of the display grid.
func (w *World) Tiling() core.Tiling {
	return core.Tiling{Rows: w.cfg.Rows, Cols: w.cfg.Cols, N: w.cfg.N}
}

// IDs returns the current id layout.
func (w *World) IDs() [][]int { return w.m.IDs() }

// Reset clears the matrix and re-applies ids, rates and fills. A zero seed
// falls back to the config seed.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Reseed(effective)
	w.sched.Reset()
	w.m.Clear()

	rows, cols := w.m.Shape()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := w.cfg.DefaultID
			if r < len(w.cfg.IDs) && c < len(w.cfg.IDs[r]) {
				id = w.cfg.IDs[r][c]
			}
			_ = w.m.SetID(r, c, id)
		}
	}
	n := w.cfg.N
	w.m.Each(func(a *epidemic.Automaton) { a.SetRates(w.cfg.Rates, 0, 0, n, n) })
	for _, f := range w.cfg.Fills {
		a, ok := w.m.At(f.Row, f.Col)
		if !ok {
			continue
		}
		if w.cfg.Recount {
			a.FillRegionRecount(f.State, f.StartRow, f.StartCol, f.Height, f.Width)
		} else {
			a.FillRegion(f.State, f.StartRow, f.StartCol, f.Height, f.Width)
		}
	}
	w.rebuildDisplay()
}

// Step advances the simulation by one tick.
func (w *World) Step() { w.Advance(1) }

// Advance runs the requested number of ticks and refreshes the display.
func (w *World) Advance(ticks int) {
	if ticks <= 0 {
		return
	}
	w.sched.Advance(ticks)
	w.rebuildDisplay()
}

// Census recomputes and returns every automaton's counters, indexed
// [row][col].
func (w *World) Census() [][]epidemic.Counts {
	rows, cols := w.m.Shape()
	out := make([][]epidemic.Counts, rows)
	for r := range out {
		out[r] = make([]epidemic.Counts, cols)
		for c := range out[r] {
			a, _ := w.m.At(r, c)
			out[r][c] = a.RecomputeCounts()
		}
	}
	return out
}

// Totals recomputes the domain-wide census.
func (w *World) Totals() epidemic.Counts { return w.m.RecomputeCounts() }

func (w *World) rebuildDisplay() {
	n := w.cfg.N
	tile := make([]uint8, n*n)
	w.m.Each(func(a *epidemic.Automaton) {
		for i, s := range a.States() {
			tile[i] = uint8(s)
		}
		r, c := a.Position()
		w.display.Blit(c*n, r*n, n, tile)
	})
}

func init() {
	core.Register("seirv", func(cfg map[string]string) (core.Sim, error) {
		w, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			return nil, fmt.Errorf("seirv: %w", err)
		}
		return w, nil
	})
}
