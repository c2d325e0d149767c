// Package wizard drives the profile form: a fixed sequence of input steps,
// college selection, and the results view.
package wizard

import "fmt"

// State is a wizard screen. The numeric value is the step index shown to
// the user.
type State int

const (
	StateLanding State = iota
	StateAcademics
	StateScores
	StateExtracurriculars
	StateDemographics
	StateCollegeSelect
	StateResults
)

var stateNames = map[State]string{
	StateLanding:          "landing",
	StateAcademics:        "academics",
	StateScores:           "scores",
	StateExtracurriculars: "extracurriculars",
	StateDemographics:     "demographics",
	StateCollegeSelect:    "college_select",
	StateResults:          "results",
}

var stateTitles = map[State]string{
	StateLanding:          "Welcome",
	StateAcademics:        "Academics",
	StateScores:           "Test Scores",
	StateExtracurriculars: "Extracurriculars",
	StateDemographics:     "Demographics",
	StateCollegeSelect:    "Choose a College",
	StateResults:          "Your Results",
}

// InputSteps are the states that collect profile fields, in order.
var InputSteps = []State{StateAcademics, StateScores, StateExtracurriculars, StateDemographics}

// Index returns the step number (0..6).
func (s State) Index() int { return int(s) }

// IsInputStep reports whether s collects profile fields.
func (s State) IsInputStep() bool {
	return s >= StateAcademics && s <= StateDemographics
}

// Title is the human-readable screen heading.
func (s State) Title() string { return stateTitles[s] }

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for st, name := range stateNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown wizard state %q", text)
}

// Event is a user action.
type Event int

const (
	EventStart Event = iota
	EventNext
	EventPrevious
	EventSelectCollege
	EventTryAnother
	EventReset
)

var eventNames = map[Event]string{
	EventStart:         "start",
	EventNext:          "next",
	EventPrevious:      "previous",
	EventSelectCollege: "select",
	EventTryAnother:    "try-another",
	EventReset:         "reset",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ParseEvent maps a name like "next" or "try-another" to an Event.
func ParseEvent(name string) (Event, error) {
	for e, n := range eventNames {
		if n == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown wizard event %q", name)
}

// transitions lists every legal move. Reset is handled separately since it
// applies from every state.
var transitions = map[State]map[Event]State{
	StateLanding: {
		EventStart: StateAcademics,
	},
	StateAcademics: {
		EventNext:     StateScores,
		EventPrevious: StateAcademics,
	},
	StateScores: {
		EventNext:     StateExtracurriculars,
		EventPrevious: StateAcademics,
	},
	StateExtracurriculars: {
		EventNext:     StateDemographics,
		EventPrevious: StateScores,
	},
	StateDemographics: {
		EventNext:     StateCollegeSelect,
		EventPrevious: StateExtracurriculars,
	},
	StateCollegeSelect: {
		EventSelectCollege: StateResults,
		EventPrevious:      StateDemographics,
	},
	StateResults: {
		EventTryAnother: StateCollegeSelect,
	},
}

// Next returns where e leads from s, and whether e is legal there. Illegal
// events leave the state unchanged.
func Next(s State, e Event) (State, bool) {
	if e == EventReset {
		return StateLanding, true
	}
	to, ok := transitions[s][e]
	if !ok {
		return s, false
	}
	return to, true
}

// Machine holds the current state. It never fails: illegal events are
// ignored.
type Machine struct {
	state State
}

// NewMachine starts on the landing screen.
func NewMachine() *Machine {
	return &Machine{state: StateLanding}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Fire applies e and reports the new state and whether it changed.
func (m *Machine) Fire(e Event) (State, bool) {
	to, ok := Next(m.state, e)
	if !ok {
		return m.state, false
	}
	changed := to != m.state
	m.state = to
	return to, changed
}
