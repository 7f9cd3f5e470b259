package statechart

import (
	"log/slog"

	"github.com/comalice/statechart/metrics"
)

// Option configures a Chart at construction.
type Option func(*config)

type config struct {
	name    string
	logger  *slog.Logger
	metrics *metrics.Collector
}

func defaultConfig() config {
	return config{
		name:   "root",
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used for diagnostics. Logging never changes
// the outcome of a transition.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics reports level evaluations to m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithName sets the root level's path and the chart label used in logs and
// metrics.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}
