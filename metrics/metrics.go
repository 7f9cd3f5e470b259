// Package metrics exposes chart activity as Prometheus counters.
//
// All methods are safe on a nil *Collector, so charts built without
// metrics pay nothing beyond a nil check.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Paths a level evaluation can take.
const (
	PathInitial = "initial"
	PathNext    = "next"
)

// Collector holds the counters for one or more charts, labelled by chart
// name and level path.
type Collector struct {
	evaluations *prometheus.CounterVec
	changes     *prometheus.CounterVec
	ignored     *prometheus.CounterVec
	effects     *prometheus.CounterVec
}

// New registers the counters with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statechart_level_evaluations_total",
			Help: "Level evaluations by path taken (initial or next)",
		}, []string{"chart", "level", "path"}),
		changes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statechart_state_changes_total",
			Help: "Transitions that changed a level's active state",
		}, []string{"chart", "level"}),
		ignored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statechart_ignored_events_total",
			Help: "Events whose type the active level does not handle",
		}, []string{"chart", "level"}),
		effects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statechart_side_effects_total",
			Help: "Side effects run for adopted transitions",
		}, []string{"chart", "level"}),
	}
}

// LevelEvaluated counts one evaluation of level along path.
func (c *Collector) LevelEvaluated(chart, level, path string) {
	if c == nil {
		return
	}
	c.evaluations.WithLabelValues(chart, level, path).Inc()
}

// StateChanged counts a level moving to a different state.
func (c *Collector) StateChanged(chart, level string) {
	if c == nil {
		return
	}
	c.changes.WithLabelValues(chart, level).Inc()
}

// EventIgnored counts an event of a type the level does not handle.
func (c *Collector) EventIgnored(chart, level string) {
	if c == nil {
		return
	}
	c.ignored.WithLabelValues(chart, level).Inc()
}

// EffectRun counts a side effect that ran.
func (c *Collector) EffectRun(chart, level string) {
	if c == nil {
		return
	}
	c.effects.WithLabelValues(chart, level).Inc()
}
