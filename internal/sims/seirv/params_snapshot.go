package seirv

import (
	"epigrid/internal/core"
	"epigrid/pkg/epidemic"
)

// Parameters reports the layout and the uniform rates of the world.
func (w *World) Parameters() core.ParameterSnapshot {
	r := w.cfg.Rates
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Matrix",
			Params: []core.Parameter{
				core.IntParam("rows", "Rows", w.cfg.Rows),
				core.IntParam("cols", "Columns", w.cfg.Cols),
				core.IntParam("n", "Automaton size", w.cfg.N),
				core.IntParam("tick", "Tick", w.Ticks()),
			},
		},
		{
			Name: "Rates",
			Params: []core.Parameter{
				core.FloatParam("exposure", "Exposure", r.Exposure),
				core.FloatParam("infection", "Infection", r.Infection),
				core.FloatParam("recovery", "Recovery", r.Recovery),
				core.FloatParam("mortality", "Mortality", r.Mortality),
				core.FloatParam("immunity_loss", "Immunity loss", r.ImmunityLoss),
			},
		},
	}}
}

var rateControls = []core.ParameterControl{
	{Key: "exposure", Label: "Exposure", Step: 0.01, Min: 0, Max: 1},
	{Key: "infection", Label: "Infection", Step: 0.01, Min: 0, Max: 1},
	{Key: "recovery", Label: "Recovery", Step: 0.01, Min: 0, Max: 1},
	{Key: "mortality", Label: "Mortality", Step: 0.01, Min: 0, Max: 1},
	{Key: "immunity_loss", Label: "Immunity loss", Step: 0.005, Min: 0, Max: 1},
}

// ParameterControls lists the HUD-adjustable rates.
func (w *World) ParameterControls() []core.ParameterControl {
	return append([]core.ParameterControl(nil), rateControls...)
}

// SetFloatParameter updates one rate for every cell. Values are clamped to
// [0,1]; unknown keys report false.
func (w *World) SetFloatParameter(key string, value float64) bool {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	rates := w.cfg.Rates
	switch key {
	case "exposure":
		rates.Exposure = value
	case "infection":
		rates.Infection = value
	case "recovery":
		rates.Recovery = value
	case "mortality":
		rates.Mortality = value
	case "immunity_loss":
		rates.ImmunityLoss = value
	default:
		return false
	}
	w.cfg.Rates = rates
	n := w.cfg.N
	w.m.Each(func(a *epidemic.Automaton) { a.SetRates(rates, 0, 0, n, n) })
	return true
}
