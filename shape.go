package statechart

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Shape is the declared structure of a level and its sub-machines, with
// state values rendered as strings.
type Shape struct {
	Path     string   `json:"path" yaml:"path"`
	Owner    string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Kind     string   `json:"kind" yaml:"kind"`
	States   []string `json:"states" yaml:"states"`
	Initial  string   `json:"initial,omitempty" yaml:"initial,omitempty"`
	Children []Shape  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Shape describes m and everything below it.
func (m Machine[C]) Shape() Shape {
	n := m.node()
	sh := Shape{
		Path:   n.path,
		Kind:   n.kind.String(),
		States: make([]string, len(n.states)),
	}
	if n.owner != nil {
		sh.Owner = fmt.Sprint(n.owner)
	}
	for i, v := range n.states {
		sh.States[i] = fmt.Sprint(v)
	}
	if n.kind.Has(Compound) {
		sh.Initial = fmt.Sprint(n.initial)
	}
	for _, child := range m.Children() {
		sh.Children = append(sh.Children, child.Shape())
	}
	return sh
}

// Fingerprint is a short digest of the shape. Two charts with the same
// levels, states and initial states have the same fingerprint.
func (sh Shape) Fingerprint() string {
	data, err := json.Marshal(sh)
	if err != nil {
		// Shape holds only strings and slices.
		panic(fmt.Sprintf("statechart: marshal shape: %v", err))
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}
