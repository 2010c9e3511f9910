package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"epigrid/internal/core"
	"epigrid/pkg/epidemic"
)

func TestStepValueClamps(t *testing.T) {
	ctrl := core.ParameterControl{Key: "infection", Step: 0.05, Min: 0, Max: 1}

	v, ok := stepValue(ctrl, 0.1, 1)
	require.True(t, ok)
	require.InDelta(t, 0.15, v, 1e-9)

	v, ok = stepValue(ctrl, 0.98, 1)
	require.True(t, ok)
	require.Equal(t, 1.0, v)

	_, ok = stepValue(ctrl, 1, 1)
	require.False(t, ok)

	_, ok = stepValue(ctrl, 0, -1)
	require.False(t, ok)

	_, ok = stepValue(ctrl, 0.5, 0)
	require.False(t, ok)
}

func TestStepValueDefaultStep(t *testing.T) {
	v, ok := stepValue(core.ParameterControl{Min: 0, Max: 1}, 0.5, -1)
	require.True(t, ok)
	require.InDelta(t, 0.45, v, 1e-9)
}

func TestFormatFloatPrecision(t *testing.T) {
	require.Equal(t, "0.1", formatFloat(core.ParameterControl{Step: 0.1}, 0.1))
	require.Equal(t, "0.05", formatFloat(core.ParameterControl{Step: 0.05}, 0.05))
	require.Equal(t, "0.005", formatFloat(core.ParameterControl{Step: 0.005}, 0.005))
	require.Equal(t, "0.0005", formatFloat(core.ParameterControl{Step: 0.0005}, 0.0005))
}

type fakeCensus struct {
	census [][]epidemic.Counts
	ticks  int
}

func (f fakeCensus) Census() [][]epidemic.Counts { return f.census }
func (f fakeCensus) Ticks() int                  { return f.ticks }

func TestCensusLines(t *testing.T) {
	var a, b epidemic.Counts
	a[epidemic.Susceptible] = 3
	a[epidemic.Vacant] = 1
	b[epidemic.Infected] = 2
	b[epidemic.Vacant] = 2

	lines := censusLines(fakeCensus{census: [][]epidemic.Counts{{a, b}}, ticks: 7})
	require.Equal(t, "tick 7", lines[0])
	require.Len(t, lines, 1+epidemic.NumStates+2)
	require.Contains(t, lines, "vacant      3")
	require.Contains(t, lines, "infected    2")
	require.Equal(t, "(0,0) S3 E0 I0 R0", lines[len(lines)-2])
	require.Equal(t, "(0,1) S0 E0 I2 R0", lines[len(lines)-1])

	require.Nil(t, censusLines(nil))
}
