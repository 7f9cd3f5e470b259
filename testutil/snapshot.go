// Package testutil provides assertions shared by the chart tests.
package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/comalice/statechart"
)

// RequireSnapshot fails the test immediately unless got equals want.
func RequireSnapshot(t require.TestingT, want, got sc.Snapshot, msgAndArgs ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if !want.Equal(got) {
		require.Fail(t, fmt.Sprintf("snapshots differ\nwant %v\ngot  %v", want, got), msgAndArgs...)
	}
}

// AssertSnapshot reports a failure unless got equals want.
func AssertSnapshot(t assert.TestingT, want, got sc.Snapshot, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if want.Equal(got) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("snapshots differ\nwant %v\ngot  %v", want, got), msgAndArgs...)
}

// RequireActive fails unless s has exactly the given active values, in any
// order.
func RequireActive(t require.TestingT, s sc.Snapshot, values ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.ElementsMatch(t, values, s.Values(), "active values of %v", s)
}

// Counter counts side effects. It is safe for concurrent use.
type Counter struct {
	n atomic.Int64
}

// Effect returns a side effect that increments c.
func (c *Counter) Effect() func() {
	return func() { c.n.Add(1) }
}

// Count returns the number of times an effect from c ran.
func (c *Counter) Count() int {
	return int(c.n.Load())
}
