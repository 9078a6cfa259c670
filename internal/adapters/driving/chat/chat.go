// Package chat implements an interactive terminal chat over the corpus.
// Questions typed into the prompt are answered by the answer service and
// shown in a scrolling transcript together with their sources.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driving"
)

// maxTranscript caps how many exchanges are kept on screen.
const maxTranscript = 50

// AnswerReceived is sent when answer generation finishes.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
	Err      error
}

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   domain.Answer
	err      error
}

// Model is the bubbletea model for the chat view.
type Model struct {
	styles *Styles
	keymap KeyMap
	input  textinput.Model

	answers driving.AnswerService
	opts    domain.SearchOptions

	transcript []exchange
	waiting    bool
	width      int
	height     int
	ready      bool
}

// New creates a chat model using the given answer service and retrieval
// options.
func New(answers driving.AnswerService, opts domain.SearchOptions) *Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the nanofab..."
	ti.CharLimit = 500
	ti.Focus()

	return &Model{
		styles:  DefaultStyles(),
		keymap:  DefaultKeyMap(),
		input:   ti,
		answers: answers,
		opts:    opts,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 6
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Clear):
			m.transcript = nil
			return m, nil

		case key.Matches(msg, m.keymap.Submit):
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			return m, m.ask(question)
		}

	case AnswerReceived:
		m.waiting = false
		m.transcript = append(m.transcript, exchange{
			question: msg.Question,
			answer:   msg.Answer,
			err:      msg.Err,
		})
		if len(m.transcript) > maxTranscript {
			m.transcript = m.transcript[len(m.transcript)-maxTranscript:]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask returns a command that generates an answer for the question.
func (m *Model) ask(question string) tea.Cmd {
	answers := m.answers
	opts := m.opts
	return func() tea.Msg {
		answer, err := answers.Answer(context.Background(), question, opts)
		return AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sections := []string{
		m.styles.Title.Render("UCSB Nanofab Chat"),
		"",
	}

	for _, ex := range m.transcript {
		sections = append(sections, m.renderExchange(ex), "")
	}

	if m.waiting {
		sections = append(sections, m.styles.Source.Render("Thinking..."), "")
	}

	sections = append(sections,
		m.styles.InputField.Render(m.input.View()),
		m.renderHelp(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderExchange(ex exchange) string {
	lines := []string{
		m.styles.Question.Render("You: ") + ex.question,
	}

	if ex.err != nil {
		lines = append(lines, m.styles.Error.Render(fmt.Sprintf("Error: %v", ex.err)))
		if len(ex.answer.Sources) > 0 {
			lines = append(lines, m.renderSources(ex.answer.Sources))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, m.styles.Answer.Render(m.wrap(ex.answer.Text)))
	if len(ex.answer.Sources) > 0 {
		lines = append(lines, m.renderSources(ex.answer.Sources))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderSources(sources []domain.SourceRecord) string {
	lines := make([]string, 0, len(sources)+1)
	lines = append(lines, m.styles.Source.Render("Sources:"))
	for _, src := range sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		lines = append(lines, m.styles.Source.Render(
			fmt.Sprintf("  • %s (%s)", title, src.URL)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	var parts []string
	for _, b := range m.keymap.ShortHelp() {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}

// wrap soft-wraps answer text to the terminal width.
func (m *Model) wrap(text string) string {
	width := m.width - 2
	if width < 20 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
