package statechart

// Machine is a handle on one level of a Chart. The zero Machine is invalid.
type Machine[C any] struct {
	chart *Chart[C]
	id    int
}

func (m Machine[C]) node() *node[C] {
	return &m.chart.nodes[m.id]
}

// Transition computes the next snapshot of this level and everything below
// it. Callers normally use Chart.Transition instead.
func (m Machine[C]) Transition(s Snapshot, event any) Snapshot {
	return m.chart.transition(m.id, s, event)
}

// Kind returns the level's classification.
func (m Machine[C]) Kind() Kind {
	return m.node().kind
}

// Path returns the dotted path of owning state values from the root.
func (m Machine[C]) Path() string {
	return m.node().path
}

// Owner returns the parent state value this level is attached to. It is nil
// for the root.
func (m Machine[C]) Owner() any {
	return m.node().owner
}

// States returns the declared states in declaration order.
func (m Machine[C]) States() []any {
	n := m.node()
	out := make([]any, len(n.states))
	copy(out, n.states)
	return out
}

// Initial returns the initial state, if the level declares one.
func (m Machine[C]) Initial() (any, bool) {
	n := m.node()
	return n.initial, n.kind.Has(Compound)
}

// Child returns the sub-machine attached to state.
func (m Machine[C]) Child(state any) (Machine[C], bool) {
	id, ok := m.node().children[state]
	if !ok {
		return Machine[C]{}, false
	}
	return Machine[C]{chart: m.chart, id: id}, true
}

// Children returns the sub-machines in the order of the states they are
// attached to.
func (m Machine[C]) Children() []Machine[C] {
	n := m.node()
	var out []Machine[C]
	for _, v := range n.states {
		if id, ok := n.children[v]; ok {
			out = append(out, Machine[C]{chart: m.chart, id: id})
		}
	}
	return out
}
