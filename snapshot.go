package statechart

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot records the active state values of one level and, for each of
// them, the snapshot of the sub-machine attached to that value.
//
// Snapshots are values and never change after construction. The zero
// Snapshot is the empty snapshot: no active values and no nested
// information. State values are compared with ==, so they must be
// comparable at run time: the constructors panic with ErrIncomparable when
// given a slice, map, func or a struct or interface holding one.
type Snapshot struct {
	entries []Entry
}

// Entry pairs an active state value with its nested snapshot.
type Entry struct {
	Value any
	Sub   Snapshot
}

// Empty is the snapshot with nothing to report.
var Empty = Snapshot{}

// From returns a snapshot with value as its only active value.
func From(value any) Snapshot {
	mustComparable(value)
	return Snapshot{entries: []Entry{{Value: value}}}
}

// FromValues returns a snapshot where every value is active with no nested
// information. Used to seed parallel levels.
func FromValues[S any](values ...S) Snapshot {
	if len(values) == 0 {
		return Empty
	}
	entries := make([]Entry, 0, len(values))
	for _, v := range values {
		mustComparable(v)
		entries = appendEntry(entries, Entry{Value: v})
	}
	return Snapshot{entries: entries}
}

// FromPair returns a snapshot with value active and sub as its nested snapshot.
func FromPair(value any, sub Snapshot) Snapshot {
	mustComparable(value)
	return Snapshot{entries: []Entry{{Value: value, Sub: sub}}}
}

// FromEntries builds a snapshot from explicit pairs. A value given twice
// keeps its first position and takes the nested snapshot of the last pair.
func FromEntries(entries ...Entry) Snapshot {
	if len(entries) == 0 {
		return Empty
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		mustComparable(e.Value)
		out = appendEntry(out, e)
	}
	return Snapshot{entries: out}
}

// isComparable reports whether == on v can not panic.
func isComparable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}

func mustComparable(v any) {
	if !isComparable(v) {
		panic(fmt.Errorf("statechart: %w: %T", ErrIncomparable, v))
	}
}

func appendEntry(entries []Entry, e Entry) []Entry {
	for i := range entries {
		if entries[i].Value == e.Value {
			entries[i].Sub = e.Sub
			return entries
		}
	}
	return append(entries, e)
}

// IsEmpty reports whether s carries no active values.
func (s Snapshot) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of active values.
func (s Snapshot) Len() int {
	return len(s.entries)
}

// Values returns the active values in insertion order.
func (s Snapshot) Values() []any {
	if s.IsEmpty() {
		return nil
	}
	values := make([]any, len(s.entries))
	for i, e := range s.entries {
		values[i] = e.Value
	}
	return values
}

// Entries returns a copy of the (value, nested snapshot) pairs.
func (s Snapshot) Entries() []Entry {
	if s.IsEmpty() {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup returns the nested snapshot recorded for value and whether value
// is active at all.
func (s Snapshot) Lookup(value any) (Snapshot, bool) {
	for _, e := range s.entries {
		if e.Value == value {
			return e.Sub, true
		}
	}
	return Empty, false
}

// Sub returns the nested snapshot recorded for value, or Empty.
func (s Snapshot) Sub(value any) Snapshot {
	sub, _ := s.Lookup(value)
	return sub
}

// Equal reports structural equality. Order of active values is ignored.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for _, e := range s.entries {
		sub, ok := other.Lookup(e.Value)
		if !ok || !e.Sub.Equal(sub) {
			return false
		}
	}
	return true
}

// BelongsTo reports whether s describes a level whose state values are of
// type S. The empty snapshot never belongs to a level, which makes the
// engine materialize initial states for it.
func BelongsTo[S any](s Snapshot) bool {
	if s.IsEmpty() {
		return false
	}
	_, ok := s.entries[0].Value.(S)
	return ok
}

// String renders s on one line, e.g. {RED: {WALK}, GREEN}.
func (s Snapshot) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Snapshot) write(b *strings.Builder) {
	b.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(b, e.Value)
		if !e.Sub.IsEmpty() {
			b.WriteString(": ")
			e.Sub.write(b)
		}
	}
	b.WriteByte('}')
}

// MarshalYAML renders s as an ordered mapping. Nested empty snapshots
// render as null.
func (s Snapshot) MarshalYAML() (any, error) {
	return s.yamlNode(), nil
}

func (s Snapshot) yamlNode() *yaml.Node {
	if s.IsEmpty() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range s.entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(e.Value)}
		node.Content = append(node.Content, key, e.Sub.yamlNode())
	}
	return node
}
