package statechart

import "strings"

// Kind classifies a level. The flags are independent: Atomic says the level
// has no sub-machine to descend into, Parallel and Compound say how many of
// the level's states are active at once.
type Kind uint8

const (
	Atomic Kind = 1 << iota
	Parallel
	Compound
)

// classify derives a level's Kind from its declared shape.
func classify(hasInitial, hasChildren bool) Kind {
	switch {
	case !hasInitial && !hasChildren:
		return Atomic | Parallel
	case !hasInitial:
		return Parallel
	case !hasChildren:
		return Atomic | Compound
	default:
		return Compound
	}
}

// Has reports whether every flag in flags is set.
func (k Kind) Has(flags Kind) bool {
	return k&flags == flags
}

func (k Kind) String() string {
	var parts []string
	if k.Has(Atomic) {
		parts = append(parts, "atomic")
	}
	if k.Has(Parallel) {
		parts = append(parts, "parallel")
	}
	if k.Has(Compound) {
		parts = append(parts, "compound")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
