package statechart

import (
	"errors"
	"fmt"
)

// Configuration errors returned by New. They are wrapped with the path of
// the offending level.
var (
	ErrMissingInitial = errors.New("level has a transition rule but no initial state")
	ErrNoStates       = errors.New("level declares no states")
	ErrDuplicateState = errors.New("state declared twice")
	ErrUnknownInitial = errors.New("initial state is not declared")
	ErrUnknownState   = errors.New("sub-machine attached to undeclared state")
	ErrDuplicateChild = errors.New("state already has a sub-machine")
	ErrNilDef         = errors.New("nil level definition")
	ErrIncomparable   = errors.New("state value is not comparable")
)

// Rule picks the next state of a level for an event. It returns false when
// no transition applies. Rules must not keep references to ctx beyond the
// call; they may be invoked from several goroutines at once.
type Rule[C any, S comparable, E any] func(ctx C, state S, event E) (Next[S], bool)

// Next is the result of a Rule: the state to move to and an optional side
// effect to run once if the move is adopted.
type Next[S comparable] struct {
	State  S
	Effect func()
}

// Goto returns a Next moving to state with no side effect.
func Goto[S comparable](state S) Next[S] {
	return Next[S]{State: state}
}

// Then attaches effect to n.
func (n Next[S]) Then(effect func()) Next[S] {
	n.Effect = effect
	return n
}

// Def is a level definition that can be compiled into a chart whose shared
// context has type C. LevelDef is the only implementation.
type Def[C any] interface {
	compile(a *arena[C], owner any, path string) (int, error)
}

// LevelDef describes one level: its states of type S, the events of type E
// its rule understands, an optional initial state and sub-machines.
type LevelDef[C any, S comparable, E any] struct {
	states     []S
	initial    S
	hasInitial bool
	rule       Rule[C, S, E]
	children   []childDef[C, S]
}

type childDef[C any, S comparable] struct {
	parent S
	def    Def[C]
}

// Level starts a level definition with the given possible states.
func Level[C any, S comparable, E any](states ...S) *LevelDef[C, S, E] {
	return &LevelDef[C, S, E]{states: states}
}

// Initial sets the state the level enters when it has no information,
// making it a compound level.
func (d *LevelDef[C, S, E]) Initial(state S) *LevelDef[C, S, E] {
	d.initial = state
	d.hasInitial = true
	return d
}

// On sets the level's transition rule.
func (d *LevelDef[C, S, E]) On(rule Rule[C, S, E]) *LevelDef[C, S, E] {
	d.rule = rule
	return d
}

// Sub attaches child as the sub-machine active while the level is in parent.
func (d *LevelDef[C, S, E]) Sub(parent S, child Def[C]) *LevelDef[C, S, E] {
	d.children = append(d.children, childDef[C, S]{parent: parent, def: child})
	return d
}

func (d *LevelDef[C, S, E]) compile(a *arena[C], owner any, path string) (int, error) {
	if len(d.states) == 0 {
		return 0, fmt.Errorf("level %s: %w", path, ErrNoStates)
	}
	declared := make(map[S]bool, len(d.states))
	states := make([]any, 0, len(d.states))
	for _, s := range d.states {
		if !isComparable(s) {
			return 0, fmt.Errorf("level %s: %w: %T", path, ErrIncomparable, s)
		}
		if declared[s] {
			return 0, fmt.Errorf("level %s: %w: %v", path, ErrDuplicateState, s)
		}
		declared[s] = true
		states = append(states, s)
	}
	if d.rule != nil && !d.hasInitial {
		return 0, fmt.Errorf("level %s: %w", path, ErrMissingInitial)
	}
	if d.hasInitial && (!isComparable(d.initial) || !declared[d.initial]) {
		return 0, fmt.Errorf("level %s: %w: %v", path, ErrUnknownInitial, d.initial)
	}

	// The chart keeps its own copy of the rule; later calls to On do not
	// reach it.
	rule := d.rule
	id := len(a.nodes)
	a.nodes = append(a.nodes, node[C]{
		owner:   owner,
		path:    path,
		states:  states,
		belongs: BelongsTo[S],
		step: func(ctx C, state any, event any) outcome {
			return step(rule, ctx, state, event)
		},
	})
	if d.hasInitial {
		a.nodes[id].initial = d.initial
	}

	children := make(map[any]int, len(d.children))
	for _, ch := range d.children {
		if !isComparable(ch.parent) || !declared[ch.parent] {
			return 0, fmt.Errorf("level %s: %w: %v", path, ErrUnknownState, ch.parent)
		}
		if _, dup := children[ch.parent]; dup {
			return 0, fmt.Errorf("level %s: %w: %v", path, ErrDuplicateChild, ch.parent)
		}
		if ch.def == nil {
			return 0, fmt.Errorf("level %s.%v: %w", path, ch.parent, ErrNilDef)
		}
		cid, err := ch.def.compile(a, ch.parent, fmt.Sprintf("%s.%v", path, ch.parent))
		if err != nil {
			return 0, err
		}
		children[ch.parent] = cid
	}

	// a.nodes may have grown while compiling children.
	n := &a.nodes[id]
	n.children = children
	n.kind = classify(d.hasInitial, len(children) > 0)
	return id, nil
}

// step applies rule to an untyped state and event. Events of a type other
// than E are reported as unmatched.
func step[C any, S comparable, E any](rule Rule[C, S, E], ctx C, state any, event any) outcome {
	e, ok := event.(E)
	if !ok {
		return outcome{unmatched: true}
	}
	if rule == nil {
		return outcome{}
	}
	next, ok := rule(ctx, state.(S), e)
	if !ok {
		return outcome{}
	}
	if !isComparable(next.State) {
		return outcome{incomparable: true, next: next.State}
	}
	return outcome{next: next.State, effect: next.Effect, adopted: true}
}

type outcome struct {
	next         any
	effect       func()
	adopted      bool
	unmatched    bool
	incomparable bool
}
