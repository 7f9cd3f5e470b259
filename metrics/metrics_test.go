package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.LevelEvaluated("traffic", "traffic", PathInitial)
	c.LevelEvaluated("traffic", "traffic", PathNext)
	c.LevelEvaluated("traffic", "traffic", PathNext)
	c.StateChanged("traffic", "traffic.RED")
	c.EventIgnored("traffic", "traffic")
	c.EffectRun("traffic", "traffic.RED")
	c.EffectRun("traffic", "traffic.RED")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.evaluations.WithLabelValues("traffic", "traffic", PathInitial)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.evaluations.WithLabelValues("traffic", "traffic", PathNext)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.changes.WithLabelValues("traffic", "traffic.RED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ignored.WithLabelValues("traffic", "traffic")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.effects.WithLabelValues("traffic", "traffic.RED")))
}

func TestCollectorRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.StateChanged("a", "a")
	c.EventIgnored("a", "a")

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.LevelEvaluated("x", "x", PathNext)
		c.StateChanged("x", "x")
		c.EventIgnored("x", "x")
		c.EffectRun("x", "x")
	})
}
