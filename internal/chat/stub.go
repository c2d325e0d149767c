// Package chat is a scripted stand-in for an admissions assistant. Replies are
// canned strings picked by exact question match; nothing is generated.
package chat

import (
	"sync"
	"time"

	"admitcast/internal/logging"

	"go.uber.org/zap"
)

// Roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultDelay is how long the stub "thinks" before replying.
const DefaultDelay = time.Second

// Canned questions the stub recognises.
const (
	QuestionImprove   = "How can I improve my chances?"
	QuestionStrengths = "What are my strengths?"
)

var canned = map[string]string{
	QuestionImprove: "Focus on raising your SAT above the school's upper range and taking more " +
		"rigorous courses. Leadership roles in your strongest activities help too.",
	QuestionStrengths: "Your GPA and test scores are the two factors that moved your estimate " +
		"the most. Check the factor weights above for the details.",
}

const fallbackReply = "That's a great question! Focus on your academics, test scores and " +
	"meaningful extracurriculars to strengthen your application."

// SuggestedQuestions returns the questions with a scripted answer.
func SuggestedQuestions() []string {
	return []string{QuestionImprove, QuestionStrengths}
}

// Message is one transcript entry.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Stub picks replies and delivers them after Delay.
type Stub struct {
	Delay time.Duration
	Now   func() time.Time
	Log   *zap.SugaredLogger
}

// NewStub returns a stub with the given delay.
func NewStub(delay time.Duration) *Stub {
	return &Stub{Delay: delay, Now: time.Now, Log: logging.Get(logging.CategoryChat)}
}

// Respond returns the canned reply for text.
func (s *Stub) Respond(text string) string {
	if reply, ok := canned[text]; ok {
		return reply
	}
	return fallbackReply
}

// Ask appends the user's message right away and the reply after Delay. The
// returned timer can be stopped to drop a pending reply. A reply whose
// transcript was cleared in the meantime is dropped. done, if set, runs
// once the timer has fired.
func (s *Stub) Ask(t *Transcript, text string, done func()) *time.Timer {
	gen := t.Append(Message{Role: RoleUser, Content: text, Time: s.now()})
	reply := s.Respond(text)
	_, scripted := canned[text]
	return time.AfterFunc(s.Delay, func() {
		if done != nil {
			defer done()
		}
		if !t.appendIfGeneration(gen, Message{Role: RoleAssistant, Content: reply, Time: s.now()}) {
			s.logger().Debugw("reply dropped, transcript cleared")
			return
		}
		s.logger().Debugw("reply delivered", "scripted", scripted)
	})
}

func (s *Stub) logger() *zap.SugaredLogger {
	if s.Log == nil {
		return zap.NewNop().Sugar()
	}
	return s.Log
}

func (s *Stub) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Transcript is a concurrency-safe message log. Every Clear starts a new
// generation.
type Transcript struct {
	mu   sync.RWMutex
	msgs []Message
	gen  uint64
}

// Append adds a message and returns the generation it landed in.
func (t *Transcript) Append(m Message) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgs = append(t.msgs, m)
	return t.gen
}

func (t *Transcript) appendIfGeneration(gen uint64, m Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		return false
	}
	t.msgs = append(t.msgs, m)
	return true
}

// Messages returns a copy of the log.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Message(nil), t.msgs...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.msgs)
}

// Clear empties the log.
func (t *Transcript) Clear() {
	t.mu.Lock()
	t.msgs = nil
	t.gen++
	t.mu.Unlock()
}
