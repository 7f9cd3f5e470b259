package demo

import (
	"fmt"
	"sort"
	"strings"

	sc "github.com/comalice/statechart"
)

// Entry is a named demo chart and the events it understands, by name.
type Entry struct {
	Name        string
	Description string
	Root        func() sc.Def[*Journal]
	Events      map[string]any
}

var catalog = []Entry{
	{
		Name:        "simple-traffic",
		Description: "traffic light cycling RED -> YELLOW -> GREEN",
		Root:        func() sc.Def[*Journal] { return SimpleTraffic() },
		Events:      map[string]any{"timer": Timer{}},
	},
	{
		Name:        "traffic",
		Description: "traffic light with a pedestrian signal nested under RED",
		Root:        func() sc.Def[*Journal] { return Traffic() },
		Events:      map[string]any{"timer": Timer{}, "pedtimer": PedTimer{}},
	},
	{
		Name:        "word",
		Description: "parallel list/underline/bold/italic formatting toggles",
		Root:        func() sc.Def[*Journal] { return Word() },
		Events: map[string]any{
			"none":      SetNone{},
			"bullets":   SetBullets{},
			"numbers":   SetNumbers{},
			"underline": ToggleUnderline{},
			"bold":      ToggleBold{},
			"italic":    ToggleItalic{},
		},
	},
}

// Catalog returns all demo charts.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Find returns the demo chart called name.
func Find(name string) (Entry, bool) {
	for _, e := range catalog {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Build compiles the chart with j as its shared context.
func (e Entry) Build(j *Journal, opts ...sc.Option) (*sc.Chart[*Journal], error) {
	opts = append([]sc.Option{sc.WithName(e.Name)}, opts...)
	return sc.New(j, e.Root(), opts...)
}

// EventNames returns the known event names, sorted.
func (e Entry) EventNames() []string {
	names := make([]string, 0, len(e.Events))
	for name := range e.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseEvent resolves an event by case-insensitive name.
func (e Entry) ParseEvent(name string) (any, error) {
	ev, ok := e.Events[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("chart %s: unknown event %q (known: %s)", e.Name, name, strings.Join(e.EventNames(), ", "))
	}
	return ev, nil
}
