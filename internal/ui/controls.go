package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"epigrid/internal/core"
	"epigrid/pkg/epidemic"
)

const defaultStep = 0.05

// stepValue returns the value one control step away from current in the given
// direction, clamped to the control bounds. ok is false when the value would
// not change.
func stepValue(ctrl core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.Step
	if step <= 0 {
		step = defaultStep
	}
	target := current + float64(direction)*step
	if ctrl.Max > ctrl.Min {
		if target < ctrl.Min {
			target = ctrl.Min
		}
		if target > ctrl.Max {
			target = ctrl.Max
		}
	}
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = defaultStep
	}
	var precision int
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	default:
		precision = 1
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	return strings.ToUpper(sim.Name())
}

// censusLines summarises a sim's counts for the side panel: the tick, one
// line per state across the domain, then one line per automaton.
func censusLines(p core.CensusProvider) []string {
	if p == nil {
		return nil
	}
	census := p.Census()
	var total epidemic.Counts
	var rows []string
	for r, row := range census {
		for c, counts := range row {
			total = total.Add(counts)
			rows = append(rows, fmt.Sprintf("(%d,%d) %s", r, c, compactCounts(counts)))
		}
	}
	lines := []string{fmt.Sprintf("tick %d", p.Ticks())}
	for _, s := range epidemic.States() {
		lines = append(lines, fmt.Sprintf("%-11s %d", s.Name(), total[s]))
	}
	return append(lines, rows...)
}

func compactCounts(c epidemic.Counts) string {
	return fmt.Sprintf("S%d E%d I%d R%d",
		c[epidemic.Susceptible], c[epidemic.Exposed], c[epidemic.Infected], c[epidemic.Recovered])
}
