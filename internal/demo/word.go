package demo

import sc "github.com/comalice/statechart"

// Format is a formatting aspect of a word. All aspects are active at once.
type Format int

const (
	FormatList Format = iota
	FormatUnderline
	FormatBold
	FormatItalic
)

func (f Format) String() string {
	switch f {
	case FormatList:
		return "LIST"
	case FormatUnderline:
		return "UNDERLINE"
	case FormatBold:
		return "BOLD"
	case FormatItalic:
		return "ITALIC"
	}
	return "Format(?)"
}

// ListStyle is the list marker in front of a word.
type ListStyle int

const (
	ListNone ListStyle = iota
	ListBullets
	ListNumbers
)

func (l ListStyle) String() string {
	switch l {
	case ListNone:
		return "NONE"
	case ListBullets:
		return "BULLETS"
	case ListNumbers:
		return "NUMBERS"
	}
	return "ListStyle(?)"
}

// UnderlineState, BoldState and ItalicState are distinct types so each
// toggle level recognizes only its own snapshots.
type (
	UnderlineState int
	BoldState      int
	ItalicState    int
)

const (
	UnderlineOff UnderlineState = iota
	UnderlineOn
)

const (
	BoldOff BoldState = iota
	BoldOn
)

const (
	ItalicOff ItalicState = iota
	ItalicOn
)

func onOff(v int) string {
	if v == 0 {
		return "OFF"
	}
	return "ON"
}

func (s UnderlineState) String() string { return onOff(int(s)) }
func (s BoldState) String() string      { return onOff(int(s)) }
func (s ItalicState) String() string    { return onOff(int(s)) }

// WordEvent is the closed set of word formatting events.
type WordEvent interface {
	wordEvent()
}

// ListEvent selects a list style.
type ListEvent interface {
	WordEvent
	listEvent()
}

// UnderlineEvent, BoldEvent and ItalicEvent flip their toggle.
type (
	UnderlineEvent interface {
		WordEvent
		underlineEvent()
	}
	BoldEvent interface {
		WordEvent
		boldEvent()
	}
	ItalicEvent interface {
		WordEvent
		italicEvent()
	}
)

type (
	SetNone         struct{}
	SetBullets      struct{}
	SetNumbers      struct{}
	ToggleUnderline struct{}
	ToggleBold      struct{}
	ToggleItalic    struct{}
)

func (SetNone) wordEvent()              {}
func (SetNone) listEvent()              {}
func (SetBullets) wordEvent()           {}
func (SetBullets) listEvent()           {}
func (SetNumbers) wordEvent()           {}
func (SetNumbers) listEvent()           {}
func (ToggleUnderline) wordEvent()      {}
func (ToggleUnderline) underlineEvent() {}
func (ToggleBold) wordEvent()           {}
func (ToggleBold) boldEvent()           {}
func (ToggleItalic) wordEvent()         {}
func (ToggleItalic) italicEvent()       {}

// Word is a parallel chart of the four formatting aspects.
func Word() *sc.LevelDef[*Journal, Format, WordEvent] {
	return sc.Level[*Journal, Format, WordEvent](FormatList, FormatUnderline, FormatBold, FormatItalic).
		Sub(FormatList, List()).
		Sub(FormatUnderline, toggle[UnderlineState, UnderlineEvent]("underline", UnderlineOff, UnderlineOn)).
		Sub(FormatBold, toggle[BoldState, BoldEvent]("bold", BoldOff, BoldOn)).
		Sub(FormatItalic, toggle[ItalicState, ItalicEvent]("italic", ItalicOff, ItalicOn))
}

// List picks a list style; selecting the current style is a no-op.
func List() *sc.LevelDef[*Journal, ListStyle, ListEvent] {
	return sc.Level[*Journal, ListStyle, ListEvent](ListNone, ListBullets, ListNumbers).
		Initial(ListNone).
		On(func(j *Journal, state ListStyle, event ListEvent) (sc.Next[ListStyle], bool) {
			var to ListStyle
			switch event.(type) {
			case SetNone:
				to = ListNone
			case SetBullets:
				to = ListBullets
			case SetNumbers:
				to = ListNumbers
			default:
				return sc.Next[ListStyle]{}, false
			}
			if to == state {
				return sc.Next[ListStyle]{}, false
			}
			return sc.Goto(to).Then(func() { j.Record("list: switched to %v", to) }), true
		})
}

// toggle builds a two-state level starting at off that flips on every
// event of type E.
func toggle[S comparable, E any](name string, off, on S) *sc.LevelDef[*Journal, S, E] {
	return sc.Level[*Journal, S, E](off, on).
		Initial(off).
		On(func(j *Journal, state S, _ E) (sc.Next[S], bool) {
			to := on
			if state == on {
				to = off
			}
			return sc.Goto(to).Then(func() { j.Record("%s: switched to %v", name, to) }), true
		})
}
