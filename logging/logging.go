// Package logging builds the slog loggers handed to charts.
//
// Configuration comes from the environment:
//
//	STATECHART_LOG_LEVEL   trace|debug|info|warn|error (default error)
//	STATECHART_LOG_LEVELS  explicit comma-separated set, e.g. "info,error"
//	STATECHART_LOG_FORMAT  text|json (default text)
//	STATECHART_LOG_TAG     value of the "tag" attribute (default statechart)
//
// When STATECHART_LOG_LEVELS is set only those levels are emitted,
// regardless of STATECHART_LOG_LEVEL.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// LevelTrace is more verbose than slog.LevelDebug.
const LevelTrace = slog.Level(-8)

// Config selects what a logger emits and how.
type Config struct {
	Level  string   `env:"STATECHART_LOG_LEVEL" envDefault:"error"`
	Levels []string `env:"STATECHART_LOG_LEVELS" envSeparator:","`
	Format string   `env:"STATECHART_LOG_FORMAT" envDefault:"text"`
	Tag    string   `env:"STATECHART_LOG_TAG" envDefault:"statechart"`
}

// FromEnv loads a Config from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a logger writing to w according to cfg.
func New(w io.Writer, cfg Config) (*slog.Logger, error) {
	threshold, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       threshold,
		ReplaceAttr: replaceLevel,
	}

	var only map[slog.Level]bool
	if len(cfg.Levels) > 0 {
		only = make(map[slog.Level]bool, len(cfg.Levels))
		for _, name := range cfg.Levels {
			lvl, err := ParseLevel(name)
			if err != nil {
				return nil, err
			}
			only[lvl] = true
		}
		// The set decides; let everything through the inner handler.
		opts.Level = LevelTrace
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "text", "":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	if only != nil {
		h = &levelSetHandler{Handler: h, levels: only}
	}

	l := slog.New(h)
	if cfg.Tag != "" {
		l = l.With("tag", cfg.Tag)
	}
	return l, nil
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// levelSetHandler emits only records whose level is in levels.
type levelSetHandler struct {
	slog.Handler
	levels map[slog.Level]bool
}

func (h *levelSetHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.levels[level] && h.Handler.Enabled(ctx, level)
}

func (h *levelSetHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelSetHandler{Handler: h.Handler.WithAttrs(attrs), levels: h.levels}
}

func (h *levelSetHandler) WithGroup(name string) slog.Handler {
	return &levelSetHandler{Handler: h.Handler.WithGroup(name), levels: h.levels}
}
