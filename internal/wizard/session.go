package wizard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"admitcast/internal/chat"
	"admitcast/internal/college"
	"admitcast/internal/predict"
	"admitcast/internal/profile"

	"go.uber.org/zap"
)

// ErrNotSelecting is returned when a college is picked before the profile
// steps are complete.
var ErrNotSelecting = errors.New("college selection is not open")

// ErrNoCollegeSelected is returned by operations that need a prior pick.
var ErrNoCollegeSelected = errors.New("no college selected")

// Deps are the collaborators a Session scores and chats with.
type Deps struct {
	Catalog   *college.Catalog
	Predictor *predict.Predictor
	Chat      *chat.Stub
	Logger    *zap.SugaredLogger
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID      string           `json:"id"`
	State   State            `json:"state"`
	Step    int              `json:"step"`
	Profile profile.Profile  `json:"profile"`
	College *college.College `json:"college,omitempty"`
	Result  *predict.Result  `json:"result,omitempty"`
	Chat    []chat.Message   `json:"chat,omitempty"`
}

// Session is one user's pass through the wizard. All state is in memory and
// is lost when the session is dropped. Safe for concurrent use.
type Session struct {
	id   string
	deps Deps
	log  *zap.SugaredLogger

	mu         sync.Mutex
	machine    *Machine
	builder    *profile.Builder
	college    *college.College
	result     *predict.Result
	transcript chat.Transcript
	pending    map[uint64]*time.Timer // unfired reply timers
	nextTimer  uint64
}

// NewSession returns a session on the landing screen.
func NewSession(id string, deps Deps) *Session {
	if deps.Chat == nil {
		deps.Chat = chat.NewStub(chat.DefaultDelay)
	}
	if deps.Predictor == nil {
		deps.Predictor = predict.New(nil)
	}
	if deps.Catalog == nil {
		deps.Catalog = college.NewCatalog(college.Fallback())
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		id:      id,
		deps:    deps,
		log:     log.With("session", id),
		machine: NewMachine(),
		builder: profile.NewBuilder(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Catalog returns the colleges on offer.
func (s *Session) Catalog() *college.Catalog { return s.deps.Catalog }

// State returns the current screen.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Start leaves the landing screen.
func (s *Session) Start() State { return s.fire(EventStart) }

// Next advances one input step; from the last input step it opens college
// selection.
func (s *Session) Next() State { return s.fire(EventNext) }

// Previous goes back one input step, never before the first.
func (s *Session) Previous() State { return s.fire(EventPrevious) }

// TryAnother returns from results to college selection. The profile and the
// last result are kept.
func (s *Session) TryAnother() State { return s.fire(EventTryAnother) }

// Fire applies a navigation event by value. SelectCollege needs an id and is
// ignored here; use SelectCollege.
func (s *Session) Fire(e Event) State {
	switch e {
	case EventReset:
		return s.Reset()
	case EventSelectCollege:
		return s.State()
	default:
		return s.fire(e)
	}
}

func (s *Session) fire(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.machine.State()
	to, changed := s.machine.Fire(e)
	if changed {
		s.log.Debugw("wizard transition", "event", e.String(), "from", from.String(), "to", to.String())
	}
	return to
}

// Reset returns to the landing screen and forgets everything.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPendingLocked()
	s.machine.Fire(EventReset)
	s.builder.Reset()
	s.college = nil
	s.result = nil
	s.transcript.Clear()
	s.log.Debugw("wizard reset")
	return s.machine.State()
}

// SetAcademics replaces the academics group.
func (s *Session) SetAcademics(a profile.Academics) { s.builder.SetAcademics(a) }

// SetScores replaces the test score group.
func (s *Session) SetScores(sc profile.Scores) { s.builder.SetScores(sc) }

// SetExtracurriculars replaces the activity list.
func (s *Session) SetExtracurriculars(e profile.Extracurriculars) { s.builder.SetExtracurriculars(e) }

// SetDemographics merges the demographics group.
func (s *Session) SetDemographics(d profile.Demographics) { s.builder.SetDemographics(d) }

// Profile returns the profile collected so far.
func (s *Session) Profile() profile.Profile { return s.builder.Profile() }

// SelectCollege scores the profile against the college with the given id
// and moves to the results screen.
func (s *Session) SelectCollege(id string) (predict.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.machine.State()
	if _, ok := Next(state, EventSelectCollege); !ok {
		return predict.Result{}, fmt.Errorf("%w (on %s)", ErrNotSelecting, state)
	}
	col, err := s.deps.Catalog.Get(id)
	if err != nil {
		return predict.Result{}, err
	}

	res := s.deps.Predictor.Predict(col, s.builder.Profile())
	s.college = &col
	s.result = &res
	s.machine.Fire(EventSelectCollege)
	s.log.Infow("prediction", "college", col.ID, "probability", res.Probability, "category", res.Category.String())
	return res, nil
}

// UpdateProfile merges an edit made on the results screen and, when a
// college has been picked, scores again.
func (s *Session) UpdateProfile(u profile.Update) (*predict.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.builder.Patch(u)
	if s.college == nil {
		return nil, ErrNoCollegeSelected
	}
	res := s.deps.Predictor.Predict(*s.college, s.builder.Profile())
	s.result = &res
	s.log.Infow("prediction refreshed", "college", s.college.ID, "probability", res.Probability)
	out := res
	return &out, nil
}

// Result returns the latest prediction, if any.
func (s *Session) Result() (predict.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return predict.Result{}, false
	}
	return *s.result, true
}

// Ask posts a question to the scripted assistant. The reply lands in the
// transcript after the stub's delay.
func (s *Session) Ask(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = make(map[uint64]*time.Timer)
	}
	id := s.nextTimer
	s.nextTimer++
	s.pending[id] = s.deps.Chat.Ask(&s.transcript, text, func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	})
}

// Transcript returns the chat log.
func (s *Session) Transcript() []chat.Message {
	return s.transcript.Messages()
}

// Close drops pending chat replies.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPendingLocked()
}

func (s *Session) stopPendingLocked() {
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}

// Snapshot returns a consistent copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:      s.id,
		State:   s.machine.State(),
		Step:    s.machine.State().Index(),
		Profile: s.builder.Profile(),
		Chat:    s.transcript.Messages(),
	}
	if s.college != nil {
		c := *s.college
		snap.College = &c
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
