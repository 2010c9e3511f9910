package epidemic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tally(a *Automaton) Counts {
	var c Counts
	for r := 0; r < a.Size(); r++ {
		for col := 0; col < a.Size(); col++ {
			c[a.StateAt(r, col)]++
		}
	}
	return c
}

func TestNewAutomatonIsVacant(t *testing.T) {
	a := NewAutomaton(3, 4, 1, 2)

	require.Equal(t, 4, a.Size())
	require.Equal(t, 3, a.ID())
	row, col := a.Position()
	require.Equal(t, 1, row)
	require.Equal(t, 2, col)

	counts := a.Counts()
	assert.Equal(t, 16, counts[Vacant])
	assert.Equal(t, 16, counts.Total())

	cell, ok := a.CellAt(3, 3)
	require.True(t, ok)
	assert.Equal(t, Vacant, cell.State)
	assert.Equal(t, DefaultRates(), cell.Rates)
}

func TestNewAutomatonClampsSize(t *testing.T) {
	a := NewAutomaton(1, 0, 0, 0)
	require.Equal(t, 1, a.Size())
	require.Len(t, a.States(), 1)
}

func TestFillRegionClipsToGrid(t *testing.T) {
	a := NewAutomaton(1, 5, 0, 0)

	touched := a.FillRegion(Infected, 3, 3, 10, 10)
	require.Equal(t, 4, touched, "only the 2x2 corner lies inside the grid")
	assert.Equal(t, Infected, a.StateAt(4, 4))
	assert.Equal(t, Vacant, a.StateAt(2, 2))

	touched = a.FillRegion(Susceptible, -2, -2, 3, 3)
	require.Equal(t, 1, touched, "negative origin clips to the first cell")
	assert.Equal(t, Susceptible, a.StateAt(0, 0))

	require.Zero(t, a.FillRegion(Exposed, 7, 0, 2, 2))
	require.Zero(t, a.FillRegion(Exposed, 0, 0, 0, 5))
}

func TestFillRegionCounterDrift(t *testing.T) {
	a := NewAutomaton(1, 5, 0, 0)
	a.FillRegion(Susceptible, 0, 0, 5, 5)
	a.FillRegion(Infected, 0, 0, 2, 2)

	counts := a.Counts()
	assert.Equal(t, 25, counts[Susceptible], "previous state is not decremented")
	assert.Equal(t, 4, counts[Infected])
	assert.Greater(t, counts.Total(), 25, "overlapping fills inflate the census")

	fixed := a.RecomputeCounts()
	assert.Equal(t, 21, fixed[Susceptible])
	assert.Equal(t, 4, fixed[Infected])
	assert.Equal(t, 25, fixed.Total())
}

func TestFillRegionRecountKeepsTotal(t *testing.T) {
	a := NewAutomaton(1, 5, 0, 0)
	a.FillRegionRecount(Susceptible, 0, 0, 5, 5)
	a.FillRegionRecount(Infected, 1, 1, 3, 3)
	a.FillRegionRecount(Recovered, 2, 2, 9, 9)

	counts := a.Counts()
	require.Equal(t, 25, counts.Total())
	require.Equal(t, tally(a), counts)
}

func TestFillRegionIgnoresUnknownState(t *testing.T) {
	a := NewAutomaton(1, 4, 0, 0)
	a.FillRegionRecount(Susceptible, 0, 0, 4, 4)

	require.Zero(t, a.FillRegion(State(NumStates), 0, 0, 2, 2))
	require.Zero(t, a.FillRegionRecount(State(200), 0, 0, 4, 4))

	require.Equal(t, Susceptible, a.StateAt(0, 0))
	require.Equal(t, 16, a.Counts()[Susceptible])
	require.Equal(t, 16, a.RecomputeCounts().Total())
}

func TestRecomputeCountsIdempotent(t *testing.T) {
	a := NewAutomaton(1, 6, 0, 0)
	a.FillRegion(Susceptible, 0, 0, 6, 6)
	a.FillRegion(Exposed, 1, 1, 2, 4)
	a.FillRegion(Recovered, 4, 0, 2, 2)

	first := a.RecomputeCounts()
	second := a.RecomputeCounts()
	require.Equal(t, first, second)
	require.Equal(t, tally(a), second)
}

func TestSetRatesOverridesRegion(t *testing.T) {
	a := NewAutomaton(1, 4, 0, 0)
	custom := Rates{Exposure: 1, Infection: 1}

	require.Equal(t, 4, a.SetRates(custom, 2, 2, 5, 5))
	cell, _ := a.CellAt(3, 3)
	assert.Equal(t, custom, cell.Rates)
	cell, _ = a.CellAt(0, 0)
	assert.Equal(t, DefaultRates(), cell.Rates)
}

func TestStatesReturnsSnapshot(t *testing.T) {
	a := NewAutomaton(1, 3, 0, 0)
	snap := a.States()
	snap[0] = Infected
	require.Equal(t, Vacant, a.StateAt(0, 0), "snapshot must not alias the grid")
}

func TestRatesValidate(t *testing.T) {
	require.NoError(t, DefaultRates().Validate())

	bad := DefaultRates()
	bad.Recovery = 1.5
	err := bad.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidRate))
}

func TestParseState(t *testing.T) {
	for _, s := range States() {
		got, err := ParseState(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)

		got, err = ParseState(s.Name())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	got, err := ParseState(" i ")
	require.NoError(t, err)
	require.Equal(t, Infected, got)

	_, err = ParseState("zombie")
	require.ErrorIs(t, err, ErrUnknownState)
}

func TestCountsString(t *testing.T) {
	c := Counts{Vacant: 1, Susceptible: 2, Exposed: 3, Infected: 4, Recovered: 5}
	require.Equal(t, "S: 2 | E: 3 | I: 4 | R: 5 | V: 1", c.String())
	require.Equal(t, 15, c.Total())
	require.Equal(t, 14, c.Occupied())
}
