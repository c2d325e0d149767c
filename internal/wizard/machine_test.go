package wizard

import (
	"testing"
)

func TestMachine_FiveNextsReachCollegeSelect(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	m.Fire(EventStart)
	if m.State() != StateAcademics || m.State().Index() != 1 {
		t.Fatalf("expected step 1 after start, got %v", m.State())
	}
	for i := 0; i < 5; i++ {
		m.Fire(EventNext)
	}
	if m.State() != StateCollegeSelect || m.State().Index() != 5 {
		t.Fatalf("expected college select (5), got %v (%d)", m.State(), m.State().Index())
	}
}

func TestMachine_PreviousFloorsAtFirstStep(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	m.Fire(EventStart)
	state, changed := m.Fire(EventPrevious)
	if state != StateAcademics {
		t.Errorf("expected academics, got %v", state)
	}
	if changed {
		t.Error("previous on the first step should not report a change")
	}
}

func TestMachine_IllegalEventsAreNoOps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from  State
		event Event
	}{
		{StateLanding, EventNext},
		{StateLanding, EventPrevious},
		{StateAcademics, EventStart},
		{StateDemographics, EventSelectCollege},
		{StateCollegeSelect, EventNext},
		{StateCollegeSelect, EventTryAnother},
		{StateResults, EventNext},
		{StateResults, EventSelectCollege},
		{StateResults, EventPrevious},
	}
	for _, tt := range tests {
		got, ok := Next(tt.from, tt.event)
		if ok || got != tt.from {
			t.Errorf("Next(%v, %v) = %v, %v; want %v, false", tt.from, tt.event, got, ok, tt.from)
		}
	}
}

func TestMachine_FullFlow(t *testing.T) {
	t.Parallel()

	steps := []struct {
		event Event
		want  State
	}{
		{EventStart, StateAcademics},
		{EventNext, StateScores},
		{EventPrevious, StateAcademics},
		{EventNext, StateScores},
		{EventNext, StateExtracurriculars},
		{EventNext, StateDemographics},
		{EventNext, StateCollegeSelect},
		{EventPrevious, StateDemographics},
		{EventNext, StateCollegeSelect},
		{EventSelectCollege, StateResults},
		{EventTryAnother, StateCollegeSelect},
		{EventSelectCollege, StateResults},
		{EventReset, StateLanding},
	}
	m := NewMachine()
	for i, s := range steps {
		if got, _ := m.Fire(s.event); got != s.want {
			t.Fatalf("step %d: %v led to %v, want %v", i, s.event, got, s.want)
		}
	}
}

func TestMachine_ResetFromEveryState(t *testing.T) {
	t.Parallel()

	for st := StateLanding; st <= StateResults; st++ {
		if got, ok := Next(st, EventReset); !ok || got != StateLanding {
			t.Errorf("reset from %v = %v, %v", st, got, ok)
		}
	}
}

func TestState_TextRoundTrip(t *testing.T) {
	t.Parallel()

	for st := StateLanding; st <= StateResults; st++ {
		text, err := st.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back State
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != st {
			t.Errorf("round trip %v -> %s -> %v", st, text, back)
		}
		if st.Title() == "" {
			t.Errorf("%v has no title", st)
		}
	}
	var s State
	if err := s.UnmarshalText([]byte("nowhere")); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	for e := EventStart; e <= EventReset; e++ {
		got, err := ParseEvent(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEvent(%q) = %v, %v", e.String(), got, err)
		}
	}
	if _, err := ParseEvent("jump"); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestState_IsInputStep(t *testing.T) {
	t.Parallel()

	for _, st := range InputSteps {
		if !st.IsInputStep() {
			t.Errorf("%v should be an input step", st)
		}
	}
	for _, st := range []State{StateLanding, StateCollegeSelect, StateResults} {
		if st.IsInputStep() {
			t.Errorf("%v should not be an input step", st)
		}
	}
}
