package seirv

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"epigrid/internal/core"
	"epigrid/pkg/epidemic"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.N = 6
	cfg.IDs, cfg.Fills = defaultLayout(cfg.Rows, cfg.Cols, cfg.N)
	return cfg
}

func TestDefaultConfigLayout(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, [][]int{{1, 1}, {2, 2}}, cfg.IDs)
	require.Len(t, cfg.Fills, 4)
	require.Equal(t, epidemic.DefaultRates(), cfg.Rates)
	require.NoError(t, cfg.Validate())
}

func TestDefaultLayoutFillsDoNotOverlap(t *testing.T) {
	w, err := NewWithConfig(smallConfig())
	require.NoError(t, err)

	patch, _ := w.Matrix().At(1, 1)
	require.Equal(t, 9, patch.Counts()[epidemic.Infected])
	for _, f := range w.Config().Fills {
		require.Zero(t, f.StartRow)
		require.Zero(t, f.StartCol)
	}
}

func TestNewWithConfigRejectsInvalid(t *testing.T) {
	cfg := smallConfig()
	cfg.Rows = 0
	_, err := NewWithConfig(cfg)
	require.ErrorIs(t, err, epidemic.ErrInvalidShape)

	cfg = smallConfig()
	cfg.Rates.Exposure = 2
	_, err = NewWithConfig(cfg)
	require.ErrorIs(t, err, epidemic.ErrInvalidRate)

	cfg = smallConfig()
	cfg.Fills = append(cfg.Fills, Fill{Row: 5, Col: 0, State: epidemic.Infected, Height: 1, Width: 1})
	_, err = NewWithConfig(cfg)
	require.ErrorIs(t, err, ErrBadFill)
}

func TestResetSeedsScenario(t *testing.T) {
	w, err := NewWithConfig(smallConfig())
	require.NoError(t, err)

	require.Equal(t, core.Size{W: 12, H: 12}, w.Size())
	require.Len(t, w.Cells(), 144)
	require.Zero(t, w.Ticks())

	census := w.Census()
	require.Equal(t, 36, census[0][0][epidemic.Susceptible])
	require.Equal(t, 36, census[0][1][epidemic.Infected])
	require.Equal(t, 36, census[1][0][epidemic.Susceptible])
	require.Equal(t, 9, census[1][1][epidemic.Infected])
	require.Equal(t, 27, census[1][1][epidemic.Vacant])

	cells := w.Cells()
	require.Equal(t, uint8(epidemic.Susceptible), cells[0])
	require.Equal(t, uint8(epidemic.Infected), cells[6])
	require.Equal(t, uint8(epidemic.Vacant), cells[11*12+11])
}

func TestResetDeterministic(t *testing.T) {
	w, err := NewWithConfig(smallConfig())
	require.NoError(t, err)

	w.Advance(8)
	first := append([]uint8(nil), w.Cells()...)
	require.Equal(t, 8, w.Ticks())

	w.Reset(0)
	require.Zero(t, w.Ticks())
	w.Advance(8)
	require.True(t, slices.Equal(first, w.Cells()), "same seed must replay the same run")

	w.Reset(4242)
	w.Advance(8)
	other := append([]uint8(nil), w.Cells()...)
	w.Reset(4242)
	w.Advance(8)
	require.True(t, slices.Equal(other, w.Cells()))
}

func TestIDBarrierBetweenRows(t *testing.T) {
	cfg := smallConfig()
	cfg.Rates.Exposure = 1
	cfg.Rates.Infection = 1
	cfg.Rates.Recovery = 0
	cfg.Rates.Mortality = 0
	cfg.Rates.ImmunityLoss = 0
	cfg.Fills = []Fill{
		{Row: 0, Col: 0, State: epidemic.Infected, Height: 6, Width: 6},
		{Row: 1, Col: 0, State: epidemic.Susceptible, Height: 6, Width: 6},
	}
	w, err := NewWithConfig(cfg)
	require.NoError(t, err)

	w.Advance(5)

	census := w.Census()
	require.Equal(t, 36, census[1][0][epidemic.Susceptible], "row ids differ so nothing crosses")
}

func TestSetFloatParameter(t *testing.T) {
	w, err := NewWithConfig(smallConfig())
	require.NoError(t, err)

	require.True(t, w.SetFloatParameter("recovery", 0.5))
	require.InDelta(t, 0.5, w.Config().Rates.Recovery, 1e-9)
	a, _ := w.Matrix().At(1, 1)
	cell, _ := a.CellAt(5, 5)
	require.InDelta(t, 0.5, cell.Rates.Recovery, 1e-9)

	require.True(t, w.SetFloatParameter("exposure", 3))
	require.InDelta(t, 1.0, w.Config().Rates.Exposure, 1e-9)

	require.False(t, w.SetFloatParameter("nope", 0.1))

	p, ok := w.Parameters().Lookup("recovery")
	require.True(t, ok)
	require.Equal(t, "0.5", p.Value)
	require.Len(t, w.ParameterControls(), 5)
}

func TestPalette(t *testing.T) {
	w := New()
	require.Len(t, w.Palette(), epidemic.NumStates)
	require.Equal(t, uint8(255), StateColor(epidemic.Infected).R)
	require.Equal(t, uint8(255), StateColor(epidemic.State(9)).A)
}

func TestRegistered(t *testing.T) {
	factory, ok := core.Sims()["seirv"]
	require.True(t, ok)
	sim, err := factory(map[string]string{"n": "4", "rows": "1", "cols": "3"})
	require.NoError(t, err)
	require.Equal(t, "seirv", sim.Name())
	require.Equal(t, core.Size{W: 12, H: 4}, sim.Size())
	require.Contains(t, core.Names(), "seirv")

	tiled, ok := sim.(core.Tiled)
	require.True(t, ok)
	require.Equal(t, core.Tiling{Rows: 1, Cols: 3, N: 4}, tiled.Tiling())
	require.Equal(t, [][]int{{1, 1, 1}}, tiled.IDs())

	_, err = factory(map[string]string{"rows": "1", "fill": "3,3:I:0,0,1,1"})
	require.ErrorIs(t, err, ErrBadFill)

	_, err = factory(map[string]string{"rows": "1", "ids": "1,1;2,2"})
	require.ErrorIs(t, err, ErrBadIDs)
}

func TestTotalsMatchCensus(t *testing.T) {
	w, err := NewWithConfig(smallConfig())
	require.NoError(t, err)
	w.Advance(3)

	var sum epidemic.Counts
	for _, row := range w.Census() {
		for _, c := range row {
			sum = sum.Add(c)
		}
	}
	require.Equal(t, sum, w.Totals())
	require.Equal(t, 4*36, sum.Total())
}
