// Package metrics exports simulation progress as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"epigrid/pkg/epidemic"
)

const namespace = "epigrid"

// Collector holds the gauges updated after every committed tick.
type Collector struct {
	ticks  prometheus.Gauge
	cells  *prometheus.GaugeVec
	totals *prometheus.GaugeVec
	ids    *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		ticks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ticks",
			Help:      "Ticks committed since the last reset.",
		}),
		cells: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "automaton_cells",
			Help:      "Cells per state in each automaton.",
		}, []string{"row", "col", "state"}),
		totals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cells",
			Help:      "Cells per state across the whole domain.",
		}, []string{"state"}),
		ids: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "automaton_id",
			Help:      "Connectivity id of each automaton.",
		}, []string{"row", "col"}),
	}
	for _, col := range []prometheus.Collector{c.ticks, c.cells, c.totals, c.ids} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return c, nil
}

// Observe refreshes every gauge from m. Its signature matches
// epidemic.Observer so it can be passed to Scheduler.Observe.
func (c *Collector) Observe(tick int, m *epidemic.Matrix) {
	c.ticks.Set(float64(tick))
	var total epidemic.Counts
	m.Each(func(a *epidemic.Automaton) {
		counts := a.RecomputeCounts()
		total = total.Add(counts)
		r, col := a.Position()
		row, column := strconv.Itoa(r), strconv.Itoa(col)
		c.ids.WithLabelValues(row, column).Set(float64(a.ID()))
		for _, s := range epidemic.States() {
			c.cells.WithLabelValues(row, column, s.Name()).Set(float64(counts[s]))
		}
	})
	for _, s := range epidemic.States() {
		c.totals.WithLabelValues(s.Name()).Set(float64(total[s]))
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
