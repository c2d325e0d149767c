// Package tui is the interactive terminal wizard behind `admit`.
package tui

import (
	"fmt"
	"strings"
	"time"

	"admitcast/cmd/admit/ui"
	"admitcast/internal/chat"
	"admitcast/internal/wizard"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// chatPollInterval is how often the results screen checks for a reply.
const chatPollInterval = 200 * time.Millisecond

type chatTickMsg struct{}

func chatTick() tea.Cmd {
	return tea.Tick(chatPollInterval, func(time.Time) tea.Msg { return chatTickMsg{} })
}

// Model drives one wizard session from the keyboard.
type Model struct {
	session  *wizard.Session
	styles   ui.Styles
	renderer *glamour.TermRenderer

	fields []field
	focus  int
	cursor int // college list

	chatInput textinput.Model
	chatting  bool
	editing   bool // results screen edit card

	err   string
	width int
}

// New returns a model on the landing screen.
func New(session *wizard.Session, styles ui.Styles) Model {
	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStandardStyle("light"),
			glamour.WithWordWrap(80),
		)
	}

	ci := textinput.New()
	ci.Placeholder = "Ask about your results..."
	ci.Prompt = "› "
	ci.CharLimit = 500

	return Model{
		session:   session,
		styles:    styles,
		renderer:  renderer,
		chatInput: ci,
		width:     80,
	}
}

// Session returns the underlying wizard session.
func (m Model) Session() *wizard.Session { return m.session }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case chatTickMsg:
		// Keep polling while a question is waiting for its answer.
		if awaitingReply(m.session.Transcript()) {
			return m, chatTick()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.session.Close()
		return m, tea.Quit
	case "ctrl+r":
		m.session.Reset()
		m.chatting = false
		m.editing = false
		m.err = ""
		m.cursor = 0
		m.loadFields()
		return m, nil
	}

	m.err = ""
	state := m.session.State()
	switch {
	case state == wizard.StateLanding:
		if msg.Type == tea.KeyEnter {
			m.session.Start()
			m.loadFields()
		}
		return m, nil
	case state.IsInputStep():
		return m.handleInputKey(msg)
	case state == wizard.StateCollegeSelect:
		return m.handleSelectKey(msg)
	case state == wizard.StateResults:
		return m.handleResultsKey(msg)
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.session.State()
	switch msg.String() {
	case "enter":
		commit(m.session, state, m.fields)
		m.session.Next()
		m.loadFields()
		return m, nil
	case "ctrl+b", "esc":
		commit(m.session, state, m.fields)
		m.session.Previous()
		m.loadFields()
		return m, nil
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	}

	if len(m.fields) == 0 {
		return m, nil
	}
	f := &m.fields[m.focus]
	if f.isChoice() {
		switch msg.String() {
		case "left", "h":
			f.cycle(-1)
		case "right", "l", " ":
			f.cycle(1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return m, cmd
}

func (m Model) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	colleges := m.session.Catalog().All()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(colleges)-1 {
			m.cursor++
		}
	case "ctrl+b", "esc":
		m.session.Previous()
		m.loadFields()
	case "enter":
		if len(colleges) == 0 {
			return m, nil
		}
		if _, err := m.session.SelectCollege(colleges[m.cursor].ID); err != nil {
			m.err = err.Error()
		}
	}
	return m, nil
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.chatting {
		switch msg.String() {
		case "esc":
			m.chatting = false
			m.chatInput.Blur()
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.chatInput.Value())
			if text == "" {
				return m, nil
			}
			m.chatInput.SetValue("")
			m.session.Ask(text)
			return m, chatTick()
		}
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "t":
		m.session.TryAnother()
	case "e":
		m.editing = true
		m.fields = editFields(m.session.Profile())
		m.setFocus(0)
		return m, nil
	case "?":
		m.chatting = true
		return m, m.chatInput.Focus()
	case "1", "2":
		qs := chat.SuggestedQuestions()
		i := int(msg.Runes[0] - '1')
		if i < len(qs) {
			m.session.Ask(qs[i])
			return m, chatTick()
		}
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.fields = nil
		return m, nil
	case "enter":
		u, err := editUpdate(m.fields)
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		if _, err := m.session.UpdateProfile(u); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.editing = false
		m.fields = nil
		return m, nil
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	}
	if len(m.fields) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

// awaitingReply reports whether a question is still unanswered.
func awaitingReply(msgs []chat.Message) bool {
	pending := 0
	for _, msg := range msgs {
		if msg.Role == chat.RoleUser {
			pending++
		} else {
			pending--
		}
	}
	return pending > 0
}

func (m *Model) loadFields() {
	m.fields = fieldsFor(m.session.State(), m.session.Profile())
	m.focus = 0
	m.setFocus(0)
}

func (m *Model) setFocus(i int) {
	if len(m.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(m.fields) - 1
	}
	if i >= len(m.fields) {
		i = 0
	}
	for j := range m.fields {
		m.fields[j].input.Blur()
	}
	m.focus = i
	if !m.fields[i].isChoice() {
		m.fields[i].input.Focus()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	state := m.session.State()

	var body string
	switch {
	case state == wizard.StateLanding:
		body = m.viewLanding()
	case state.IsInputStep():
		body = m.viewInputStep(state)
	case state == wizard.StateCollegeSelect:
		body = m.viewCollegeSelect()
	case state == wizard.StateResults:
		body = m.viewResults()
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("AdmitCast · " + state.Title()))
	b.WriteString("\n")
	b.WriteString(m.styles.Content.Render(body))
	if m.err != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.err))
	}
	b.WriteString("\n" + m.styles.Footer.Render(m.help(state)))
	return b.String()
}

func (m Model) viewLanding() string {
	return m.styles.Title.Render("Estimate your admission odds") + "\n" +
		m.styles.Body.Render("Answer four short sections about your academics, scores,\n"+
			"activities and background, then pick a college.") + "\n\n" +
		m.styles.Subtitle.Render("Estimates are illustrative and include random variation.") + "\n\n" +
		m.styles.Selected.Render("Press enter to start")
}

func (m Model) viewInputStep(state wizard.State) string {
	var b strings.Builder
	total := len(wizard.InputSteps)
	fmt.Fprintf(&b, "%s  %s\n\n",
		m.styles.ProgressBar(state.Index(), total, 20),
		m.styles.Steps.Render(fmt.Sprintf("Step %d of %d", state.Index(), total)))
	b.WriteString(m.styles.Title.Render(state.Title()))
	b.WriteString("\n")
	b.WriteString(m.viewFields())
	return b.String()
}

func (m Model) viewFields() string {
	var b strings.Builder
	for i, f := range m.fields {
		label := m.styles.Label.Render(f.label)
		if i == m.focus {
			label = m.styles.ActiveLabel.Render(f.label)
		}
		var value string
		if f.isChoice() {
			v := f.value()
			if v == "" {
				v = "(not set)"
			}
			value = "‹ " + v + " ›"
			if i == m.focus {
				value = m.styles.Selected.Render(value)
			}
		} else {
			value = f.input.View()
		}
		b.WriteString(label + value + "\n")
	}
	return b.String()
}

func (m Model) viewCollegeSelect() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Which college are you considering?"))
	b.WriteString("\n")
	for i, c := range m.session.Catalog().All() {
		line := fmt.Sprintf("%-14s %4.0f%% admit · median GPA %.2f · SAT %.0f-%.0f",
			c.Name, c.AcceptanceRate*100, c.MedianGPA, c.SATRange.Low, c.SATRange.High)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("› " + line))
		} else {
			b.WriteString("  " + m.styles.Body.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewResults() string {
	snap := m.session.Snapshot()
	if snap.College == nil || snap.Result == nil {
		return m.styles.Muted.Render("No result yet.")
	}

	md := resultMarkdown(*snap.College, *snap.Result, snap.Profile)
	rendered := md
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			rendered = out
		}
	}

	var b strings.Builder
	b.WriteString(m.styles.CategoryBadge(snap.Result.Category))
	b.WriteString("\n")
	b.WriteString(rendered)

	if m.editing {
		card := m.styles.Title.Render("Edit profile") + "\n" + m.viewFields() +
			m.styles.Hint.Render("Empty boxes keep their current value.")
		b.WriteString(m.styles.Card.Render(card))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Title.Render("Ask the assistant"))
	b.WriteString("\n")
	for i, q := range chat.SuggestedQuestions() {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("[%d] %s", i+1, q)))
		b.WriteString("\n")
	}
	for _, msg := range snap.Chat {
		if msg.Role == chat.RoleUser {
			b.WriteString(m.styles.Selected.Render("You: ") + msg.Content + "\n")
		} else {
			b.WriteString(m.styles.Bubble.Render(msg.Content) + "\n")
		}
	}
	if awaitingReply(snap.Chat) {
		b.WriteString(m.styles.Muted.Render("  ...") + "\n")
	}
	if m.chatting {
		b.WriteString(m.chatInput.View())
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 40)).Render(b.String())
}

func (m Model) help(state wizard.State) string {
	switch {
	case state == wizard.StateLanding:
		return "enter start · ctrl+c quit"
	case state.IsInputStep():
		return "enter next · esc back · tab/↑↓ move · ←→ choose · ctrl+r reset · ctrl+c quit"
	case state == wizard.StateCollegeSelect:
		return "↑↓ choose · enter predict · esc edit profile · ctrl+r reset"
	case m.editing:
		return "enter rescore · tab move · esc cancel"
	case m.chatting:
		return "enter send · esc close chat"
	default:
		return "t try another college · e edit profile · ? ask · 1/2 suggested question · ctrl+r start over · ctrl+c quit"
	}
}
