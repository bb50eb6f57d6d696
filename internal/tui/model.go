package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/repl"
)

// QAPort is the TUI-facing subset of the question answering service.
type QAPort interface {
	AskWithSources(ctx context.Context, question string) (string, []domain.SearchResult, error)
}

type turn struct {
	question string
	answer   string
	sources  []domain.SearchResult
	err      error
	pending  bool
}

type answerMsg struct {
	answer  string
	sources []domain.SearchResult
	err     error
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx         context.Context
	service     QAPort
	input       textinput.Model
	viewport    viewport.Model
	turns       []turn
	title       string
	overview    string
	status      string
	busy        bool
	showSources bool
	ready       bool
}

// New creates a chat view over service. title names the loaded document and
// overview is shown under it.
func New(ctx context.Context, service QAPort, title, overview string) Model {
	ti := textinput.New()
	ti.Prompt = repl.Prompt
	ti.Placeholder = `Ask a question, "exit" to quit`
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		service:  service,
		input:    ti,
		viewport: vp,
		title:    title,
		overview: overview,
		status:   "Ready. Tab toggles sources.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header and overview, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.input.Width = max(10, msg.Width-4)
		m.refresh()
		return m, nil
	case answerMsg:
		m.busy = false
		last := &m.turns[len(m.turns)-1]
		last.answer, last.sources, last.err = msg.answer, msg.sources, msg.err
		last.pending = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Answered from %d chunks.", len(msg.sources))
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if repl.IsExit(q) {
				return m, tea.Quit
			}
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.turns = append(m.turns, turn{question: q, pending: true})
			m.busy = true
			m.status = "Thinking..."
			m.refresh()
			return m, m.ask(q)
		case "tab":
			m.showSources = !m.showSources
			m.refresh()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		answer, sources, err := svc.AskWithSources(ctx, question)
		return answerMsg{answer: answer, sources: sources, err: err}
	}
}

// View renders the header, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.title)
	overview := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.overview)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + overview + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(questionStyle.Render(repl.Prompt + t.question))
		b.WriteString("\n")
		switch {
		case t.err != nil:
			b.WriteString(errorStyle.Render("Error: " + t.err.Error()))
		case t.pending:
			b.WriteString("...")
		default:
			b.WriteString("Answer: " + t.answer)
		}
		b.WriteString("\n")
		if m.showSources && len(t.sources) > 0 {
			b.WriteString(m.renderSources(t))
		}
	}
	return b.String()
}

func (m Model) renderSources(t turn) string {
	var b strings.Builder
	for i, r := range t.sources {
		title := fmt.Sprintf("Source %d/%d  %s  score=%.3f", i+1, len(t.sources), r.Chunk.ID, r.Score)
		b.WriteString(sourceTitleStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(highlightBestSentence(r.Chunk.Text, t.question))
		b.WriteString("\n")
	}
	return b.String()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sourceTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe      = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe         = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
