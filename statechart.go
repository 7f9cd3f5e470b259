// Package statechart evaluates hierarchical state machines.
//
// A chart is declared once as a tree of levels and never changes. All
// information about where the system currently is lives in a Snapshot held
// by the caller:
//
//	next := chart.Transition(current, event)
//
// Transition is a pure function of the chart, the snapshot and the event.
// Charts are safe for concurrent use; snapshots are immutable.
package statechart

import (
	"fmt"
	"log/slog"

	"github.com/comalice/statechart/metrics"
)

// Chart is a compiled, immutable tree of levels sharing one context value.
// Levels are stored in an arena and refer to each other by index.
type Chart[C any] struct {
	ctx     C
	name    string
	nodes   []node[C]
	logger  *slog.Logger
	metrics *metrics.Collector
}

type arena[C any] struct {
	nodes []node[C]
}

type node[C any] struct {
	kind     Kind
	owner    any
	path     string
	states   []any
	initial  any
	children map[any]int // owning state value -> node index
	belongs  func(Snapshot) bool
	step     func(ctx C, state any, event any) outcome
}

// New compiles root into a chart. ctx is handed unchanged to every rule at
// every level. New fails with a configuration error if any level is
// malformed.
func New[C any](ctx C, root Def[C], opts ...Option) (*Chart[C], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if root == nil {
		return nil, fmt.Errorf("level %s: %w", cfg.name, ErrNilDef)
	}

	var a arena[C]
	if _, err := root.compile(&a, nil, cfg.name); err != nil {
		return nil, err
	}

	return &Chart[C]{
		ctx:     ctx,
		name:    cfg.name,
		nodes:   a.nodes,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}, nil
}

// Name returns the chart label, which is also the root level's path.
func (c *Chart[C]) Name() string {
	return c.name
}

// Root returns the top level of the chart.
func (c *Chart[C]) Root() Machine[C] {
	return Machine[C]{chart: c, id: 0}
}

// Transition computes the snapshot following s after event.
func (c *Chart[C]) Transition(s Snapshot, event any) Snapshot {
	return c.transition(0, s, event)
}

// Lookup finds the level reached from the root by following the given
// owning state values.
func (c *Chart[C]) Lookup(path ...any) (Machine[C], bool) {
	id := 0
	for _, v := range path {
		next, ok := c.nodes[id].children[v]
		if !ok {
			return Machine[C]{}, false
		}
		id = next
	}
	return Machine[C]{chart: c, id: id}, true
}

func (c *Chart[C]) transition(id int, s Snapshot, event any) Snapshot {
	n := &c.nodes[id]
	if n.belongs(s) {
		c.metrics.LevelEvaluated(c.name, n.path, metrics.PathNext)
		return c.next(n, s, event)
	}
	c.metrics.LevelEvaluated(c.name, n.path, metrics.PathInitial)
	c.logLazy(slog.LevelInfo, n, func() string {
		return fmt.Sprintf("taking initial path for %s from %v", n.path, s)
	})
	return c.initial(n, s, event)
}

// initial materializes a level from scratch. No rule runs on this path.
func (c *Chart[C]) initial(n *node[C], s Snapshot, event any) Snapshot {
	switch {
	case n.kind.Has(Atomic | Parallel):
		return FromValues(n.states...)
	case n.kind.Has(Atomic):
		return From(n.initial)
	case n.kind.Has(Parallel):
		entries := make([]Entry, 0, len(n.states))
		for _, v := range n.states {
			sub := Empty
			if child, ok := n.children[v]; ok {
				sub = c.transition(child, s, event)
			}
			entries = append(entries, Entry{Value: v, Sub: sub})
		}
		return FromEntries(entries...)
	default:
		sub := Empty
		if child, ok := n.children[n.initial]; ok {
			sub = c.transition(child, s, event)
		}
		return FromPair(n.initial, sub)
	}
}

// next advances a level whose snapshot s describes it.
func (c *Chart[C]) next(n *node[C], s Snapshot, event any) Snapshot {
	switch {
	case n.kind.Has(Atomic | Parallel):
		return FromValues(n.states...)
	case n.kind.Has(Atomic):
		return From(c.fire(n, s.entries[0].Value, event))
	case n.kind.Has(Parallel):
		entries := make([]Entry, 0, len(n.states))
		for _, v := range n.states {
			sub := Empty
			if child, ok := n.children[v]; ok {
				sub = c.transition(child, s.Sub(v), event)
			}
			entries = append(entries, Entry{Value: v, Sub: sub})
		}
		return FromEntries(entries...)
	default:
		target := c.fire(n, s.entries[0].Value, event)
		sub := Empty
		if child, ok := n.children[target]; ok {
			sub = c.transition(child, s.Sub(target), event)
		}
		return FromPair(target, sub)
	}
}

// fire runs the level's rule for the active value and returns the value the
// level ends up in. The side effect runs only if the value changes.
func (c *Chart[C]) fire(n *node[C], active any, event any) any {
	out := n.step(c.ctx, active, event)
	if out.unmatched {
		c.metrics.EventIgnored(c.name, n.path)
		c.logLazy(slog.LevelDebug, n, func() string {
			return fmt.Sprintf("%s does not handle events of type %T", n.path, event)
		})
		return active
	}
	if out.incomparable {
		c.logLazy(slog.LevelError, n, func() string {
			return fmt.Sprintf("%s: rule returned a state of non-comparable type %T; ignored", n.path, out.next)
		})
		return active
	}
	if !out.adopted || out.next == active {
		return active
	}

	c.metrics.StateChanged(c.name, n.path)
	c.logLazy(levelTrace, n, func() string {
		return fmt.Sprintf("%s: %v -> %v on %T", n.path, active, out.next, event)
	})
	if out.effect != nil {
		out.effect()
		c.metrics.EffectRun(c.name, n.path)
	}
	return out.next
}
