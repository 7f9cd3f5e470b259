// Package visualize renders chart shapes as Graphviz DOT.
package visualize

import (
	"bytes"
	"fmt"

	sc "github.com/comalice/statechart"
)

// DOT renders shape with the states active in s highlighted. Each level
// becomes a cluster; a sub-machine is linked from the state that owns it by
// a dashed edge to its initial (or first) state.
func DOT(shape sc.Shape, s sc.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Statechart {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	renderLevel(&buf, shape, s, "  ")
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(path, state string) string {
	return path + "." + state
}

// activeSet maps the rendered form of each active value to its nested snapshot.
func activeSet(s sc.Snapshot) map[string]sc.Snapshot {
	active := make(map[string]sc.Snapshot, s.Len())
	for _, e := range s.Entries() {
		active[fmt.Sprint(e.Value)] = e.Sub
	}
	return active
}

func renderLevel(buf *bytes.Buffer, shape sc.Shape, s sc.Snapshot, indent string) {
	active := activeSet(s)

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+shape.Path)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, fmt.Sprintf("%s (%s)", shape.Path, shape.Kind))
	if shape.Kind == sc.Parallel.String() || shape.Kind == (sc.Atomic|sc.Parallel).String() {
		fmt.Fprintf(buf, "%s  style=dashed;\n", indent)
	}

	for _, state := range shape.States {
		attrs := fmt.Sprintf("label=%q", state)
		if state == shape.Initial {
			attrs += " peripheries=2"
		}
		if _, ok := active[state]; ok {
			attrs += " style=filled fillcolor=lightgreen"
		}
		fmt.Fprintf(buf, "%s  %q [%s];\n", indent, nodeID(shape.Path, state), attrs)
	}

	for _, child := range shape.Children {
		renderLevel(buf, child, active[child.Owner], indent+"  ")
	}
	buf.WriteString(indent + "}\n")

	for _, child := range shape.Children {
		entry := child.Initial
		if entry == "" && len(child.States) > 0 {
			entry = child.States[0]
		}
		fmt.Fprintf(buf, "%s%q -> %q [style=dashed];\n", indent, nodeID(shape.Path, child.Owner), nodeID(child.Path, entry))
	}
}
