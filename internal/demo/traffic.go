// Package demo holds the charts driven by chartctl and the examples: a
// plain traffic light, a traffic light with a pedestrian signal nested under
// RED, and a word formatter made of four parallel toggles.
package demo

import sc "github.com/comalice/statechart"

// Light is the state of a road signal.
type Light int

const (
	Red Light = iota
	Yellow
	Green
)

func (l Light) String() string {
	switch l {
	case Red:
		return "RED"
	case Yellow:
		return "YELLOW"
	case Green:
		return "GREEN"
	}
	return "Light(?)"
}

// Crossing is the state of the pedestrian signal shown while the road is RED.
type Crossing int

const (
	Walk Crossing = iota
	Wait
	Stop
)

func (c Crossing) String() string {
	switch c {
	case Walk:
		return "WALK"
	case Wait:
		return "WAIT"
	case Stop:
		return "STOP"
	}
	return "Crossing(?)"
}

// SignalEvent is the closed set of events understood by traffic charts.
type SignalEvent interface {
	signalEvent()
}

// Timer advances the road signal.
type Timer struct{}

// PedTimer advances the pedestrian signal.
type PedTimer struct{}

func (Timer) signalEvent()    {}
func (PedTimer) signalEvent() {}

// SimpleTraffic cycles RED -> YELLOW -> GREEN -> RED on Timer, starting RED.
func SimpleTraffic() *sc.LevelDef[*Journal, Light, SignalEvent] {
	return sc.Level[*Journal, Light, SignalEvent](Red, Yellow, Green).
		Initial(Red).
		On(func(j *Journal, state Light, event SignalEvent) (sc.Next[Light], bool) {
			if _, ok := event.(Timer); !ok {
				return sc.Next[Light]{}, false
			}
			var to Light
			switch state {
			case Red:
				to = Yellow
			case Yellow:
				to = Green
			case Green:
				to = Red
			default:
				return sc.Next[Light]{}, false
			}
			return sc.Goto(to).Then(func() { j.Record("road: switched to %v", to) }), true
		})
}

// Traffic cycles GREEN -> YELLOW -> RED -> GREEN on Timer, starting GREEN.
// While RED, a pedestrian signal runs WALK -> WAIT -> STOP on PedTimer.
func Traffic() *sc.LevelDef[*Journal, Light, SignalEvent] {
	return sc.Level[*Journal, Light, SignalEvent](Red, Yellow, Green).
		Initial(Green).
		Sub(Red, Pedestrian()).
		On(func(j *Journal, state Light, event SignalEvent) (sc.Next[Light], bool) {
			if _, ok := event.(Timer); !ok {
				return sc.Next[Light]{}, false
			}
			var to Light
			switch state {
			case Green:
				to = Yellow
			case Yellow:
				to = Red
			case Red:
				to = Green
			default:
				return sc.Next[Light]{}, false
			}
			return sc.Goto(to).Then(func() { j.Record("road: switched to %v", to) }), true
		})
}

// Pedestrian is the crossing signal nested under RED. STOP is terminal.
func Pedestrian() *sc.LevelDef[*Journal, Crossing, SignalEvent] {
	return sc.Level[*Journal, Crossing, SignalEvent](Walk, Wait, Stop).
		Initial(Walk).
		On(func(j *Journal, state Crossing, event SignalEvent) (sc.Next[Crossing], bool) {
			if _, ok := event.(PedTimer); !ok {
				return sc.Next[Crossing]{}, false
			}
			switch state {
			case Walk:
				return sc.Goto(Wait).Then(func() { j.Record("crossing: switched to %v", Wait) }), true
			case Wait:
				return sc.Goto(Stop).Then(func() { j.Record("crossing: switched to %v", Stop) }), true
			}
			return sc.Next[Crossing]{}, false
		})
}
