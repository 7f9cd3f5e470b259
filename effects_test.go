package statechart_test

import (
	"bytes"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	sc "github.com/comalice/statechart"
	"github.com/comalice/statechart/internal/demo"
	"github.com/comalice/statechart/logging"
	"github.com/comalice/statechart/metrics"
	"github.com/comalice/statechart/testutil"
)

type door int

const (
	doorClosed door = iota
	doorOpen
	doorLocked
)

type doorEvent string

func doorLevel(c *testutil.Counter) *sc.LevelDef[struct{}, door, doorEvent] {
	return sc.Level[struct{}, door, doorEvent](doorClosed, doorOpen, doorLocked).
		Initial(doorClosed).
		On(func(_ struct{}, state door, event doorEvent) (sc.Next[door], bool) {
			switch event {
			case "open":
				return sc.Goto(doorOpen).Then(c.Effect()), state != doorLocked
			case "close":
				return sc.Goto(doorClosed).Then(c.Effect()), true
			case "lock":
				return sc.Goto(doorLocked).Then(c.Effect()), state == doorClosed
			case "stay":
				return sc.Goto(state).Then(c.Effect()), true
			}
			return sc.Next[door]{}, false
		})
}

func TestEffectRunsOncePerAdoptedTransition(t *testing.T) {
	var c testutil.Counter
	chart := newChart(t, struct{}{}, sc.Def[struct{}](doorLevel(&c)))

	s := chart.Transition(sc.Empty, doorEvent("open"))
	testutil.RequireSnapshot(t, sc.From(doorClosed), s)
	assert.Zero(t, c.Count(), "the initial path runs no rule")

	s = chart.Transition(s, doorEvent("open"))
	testutil.RequireSnapshot(t, sc.From(doorOpen), s)
	assert.Equal(t, 1, c.Count())

	s = chart.Transition(s, doorEvent("close"))
	testutil.RequireSnapshot(t, sc.From(doorClosed), s)
	assert.Equal(t, 2, c.Count())
}

func TestEffectSkippedWhenRuleDeclines(t *testing.T) {
	var c testutil.Counter
	chart := newChart(t, struct{}{}, sc.Def[struct{}](doorLevel(&c)))

	s := chart.Transition(sc.From(doorOpen), doorEvent("lock"))
	testutil.RequireSnapshot(t, sc.From(doorOpen), s)
	assert.Zero(t, c.Count())
}

func TestEffectSkippedOnSelfTransition(t *testing.T) {
	var c testutil.Counter
	chart := newChart(t, struct{}{}, sc.Def[struct{}](doorLevel(&c)))

	s := chart.Transition(sc.From(doorOpen), doorEvent("stay"))
	testutil.RequireSnapshot(t, sc.From(doorOpen), s)
	assert.Zero(t, c.Count())
}

func TestEffectSkippedForForeignEventType(t *testing.T) {
	var c testutil.Counter
	chart := newChart(t, struct{}{}, sc.Def[struct{}](doorLevel(&c)))

	s := chart.Transition(sc.From(doorClosed), "open")
	testutil.RequireSnapshot(t, sc.From(doorClosed), s)
	assert.Zero(t, c.Count())
}

type probe struct {
	seen atomic.Int64
}

func TestContextReachesNestedRules(t *testing.T) {
	ctx := &probe{}
	inner := sc.Level[*probe, door, doorEvent](doorClosed, doorOpen).
		Initial(doorClosed).
		On(func(p *probe, _ door, _ doorEvent) (sc.Next[door], bool) {
			require.Same(t, ctx, p)
			p.seen.Add(1)
			return sc.Goto(doorOpen), true
		})
	outer := sc.Level[*probe, demo.Light, doorEvent](demo.Red, demo.Green).
		Initial(demo.Red).
		Sub(demo.Red, inner).
		On(func(p *probe, _ demo.Light, _ doorEvent) (sc.Next[demo.Light], bool) {
			require.Same(t, ctx, p)
			p.seen.Add(1)
			return sc.Next[demo.Light]{}, false
		})
	chart := newChart(t, ctx, sc.Def[*probe](outer))

	got := chart.Transition(sc.FromPair(demo.Red, sc.From(doorClosed)), doorEvent("go"))
	testutil.RequireSnapshot(t, sc.FromPair(demo.Red, sc.From(doorOpen)), got)
	assert.Equal(t, int64(2), ctx.seen.Load())
}

func TestAtomicParallelLevelKeepsAllStates(t *testing.T) {
	chart := newChart(t, struct{}{}, sc.Def[struct{}](sc.Level[struct{}, door, doorEvent](doorClosed, doorOpen)))

	want := sc.FromValues(doorClosed, doorOpen)
	testutil.RequireSnapshot(t, want, chart.Transition(sc.Empty, doorEvent("open")))
	testutil.RequireSnapshot(t, want, chart.Transition(sc.From(doorOpen), doorEvent("open")))
	assert.Equal(t, sc.Atomic|sc.Parallel, chart.Root().Kind())
}

func TestParallelRegionWithoutSubMachineHasNoNestedSnapshot(t *testing.T) {
	var c testutil.Counter
	root := sc.Level[struct{}, demo.Light, doorEvent](demo.Red, demo.Green).
		Sub(demo.Green, doorLevel(&c))
	chart := newChart(t, struct{}{}, sc.Def[struct{}](root))

	got := chart.Transition(sc.Empty, doorEvent("open"))
	want := sc.FromEntries(
		sc.Entry{Value: demo.Red},
		sc.Entry{Value: demo.Green, Sub: sc.From(doorClosed)},
	)
	testutil.RequireSnapshot(t, want, got)

	got = chart.Transition(got, doorEvent("open"))
	assert.True(t, got.Sub(demo.Green).Equal(sc.From(doorOpen)))
	assert.True(t, got.Sub(demo.Red).IsEmpty())
	assert.Equal(t, 1, c.Count())
}

// loud counts how often it is rendered.
type loud int

var renders atomic.Int64

func (l loud) String() string {
	renders.Add(1)
	return fmt.Sprintf("loud-%d", int(l))
}

func loudLevel() *sc.LevelDef[struct{}, loud, string] {
	return sc.Level[struct{}, loud, string](0, 1).
		Initial(0).
		On(func(_ struct{}, state loud, _ string) (sc.Next[loud], bool) {
			return sc.Goto(1 - state), true
		})
}

func TestLogMessagesBuiltOnlyWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Config{Level: "error", Format: "text"})
	require.NoError(t, err)
	chart := newChart(t, struct{}{}, sc.Def[struct{}](loudLevel()), sc.WithLogger(logger))

	renders.Store(0)
	s := chart.Transition(sc.From(loud(0)), "flip")
	testutil.RequireSnapshot(t, sc.From(loud(1)), s)
	assert.Zero(t, renders.Load())
	assert.Empty(t, buf.String())
}

func TestTraceLogsStateChanges(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Config{Level: "trace", Format: "text", Tag: "test"})
	require.NoError(t, err)
	chart := newChart(t, struct{}{}, sc.Def[struct{}](loudLevel()), sc.WithLogger(logger), sc.WithName("flipper"))

	renders.Store(0)
	chart.Transition(sc.From(loud(0)), "flip")
	assert.Positive(t, renders.Load())

	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "flipper: loud-0 -> loud-1 on string")
	assert.Contains(t, out, "tag=test")
}

func TestInitialPathLoggedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Config{Level: "info"})
	require.NoError(t, err)
	chart := newChart(t, demo.NewJournal(), sc.Def[*demo.Journal](demo.Traffic()), sc.WithLogger(logger), sc.WithName("traffic"))

	chart.Transition(sc.Empty, demo.Timer{})
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "taking initial path for traffic")
	assert.NotContains(t, out, "level=DEBUG")
}

func TestUnmatchedEventLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Config{Levels: []string{"debug"}})
	require.NoError(t, err)
	chart := newChart(t, demo.NewJournal(), sc.Def[*demo.Journal](demo.SimpleTraffic()), sc.WithLogger(logger))

	chart.Transition(sc.From(demo.Red), 42)
	out := buf.String()
	assert.Contains(t, out, "does not handle events of type int")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestMetricsCountActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	chart := newChart(t, demo.NewJournal(), sc.Def[*demo.Journal](demo.Traffic()),
		sc.WithName("traffic"), sc.WithMetrics(metrics.New(reg)))

	s := sc.Empty
	for _, ev := range []any{demo.Timer{}, demo.Timer{}, demo.Timer{}, demo.PedTimer{}, "bogus"} {
		s = chart.Transition(s, ev)
	}
	testutil.RequireSnapshot(t, sc.FromPair(demo.Red, sc.From(demo.Wait)), s)

	const changes = `
# HELP statechart_state_changes_total Transitions that changed a level's active state
# TYPE statechart_state_changes_total counter
statechart_state_changes_total{chart="traffic",level="traffic"} 2
statechart_state_changes_total{chart="traffic",level="traffic.RED"} 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(changes), "statechart_state_changes_total"))

	const ignored = `
# HELP statechart_ignored_events_total Events whose type the active level does not handle
# TYPE statechart_ignored_events_total counter
statechart_ignored_events_total{chart="traffic",level="traffic"} 1
statechart_ignored_events_total{chart="traffic",level="traffic.RED"} 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(ignored), "statechart_ignored_events_total"))
}

func TestConcurrentTransitions(t *testing.T) {
	j := demo.NewJournal()
	chart := newChart(t, j, sc.Def[*demo.Journal](demo.Traffic()))

	const workers = 32
	var g errgroup.Group
	results := make([]sc.Snapshot, workers)
	for i := range workers {
		g.Go(func() error {
			s := sc.Empty
			for _, ev := range []any{demo.Timer{}, demo.Timer{}, demo.Timer{}, demo.PedTimer{}} {
				s = chart.Transition(s, ev)
			}
			results[i] = s
			return nil
		})
	}
	require.NoError(t, g.Wait())

	want := sc.FromPair(demo.Red, sc.From(demo.Wait))
	for i, got := range results {
		testutil.AssertSnapshot(t, want, got, "worker %d", i)
	}
	assert.Equal(t, workers*3, j.Len())
}
