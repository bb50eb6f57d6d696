package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

type fakeQA struct {
	questions []string
	err       error
}

func (f *fakeQA) AskWithSources(_ context.Context, q string) (string, []domain.SearchResult, error) {
	f.questions = append(f.questions, q)
	if f.err != nil {
		return "", nil, f.err
	}
	return "It indexes markdown.", []domain.SearchResult{
		{Chunk: domain.Chunk{ID: "d:0", Text: "Docqa indexes markdown. It is small."}, Score: 0.9},
	}, nil
}

func sized(t *testing.T, qa QAPort) Model {
	t.Helper()
	m := New(context.Background(), qa, "README.md", "An overview.")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func enter(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestView_BeforeSize(t *testing.T) {
	m := New(context.Background(), &fakeQA{}, "t", "o")
	assert.Equal(t, "Loading...", m.View())
}

func TestAskFlow(t *testing.T) {
	qa := &fakeQA{}
	m := typeText(sized(t, qa), "what does it do?")

	m, cmd := enter(t, m)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Contains(t, m.renderTranscript(), "...")

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.busy)
	assert.Equal(t, []string{"what does it do?"}, qa.questions)
	assert.Contains(t, m.renderTranscript(), "Answer: It indexes markdown.")
	assert.NotContains(t, m.renderTranscript(), "Source 1/1")
	assert.Equal(t, "Answered from 1 chunks.", m.status)
	assert.Contains(t, m.View(), "README.md")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Contains(t, m.renderTranscript(), "Source 1/1  d:0")
}

func TestAskError(t *testing.T) {
	m := typeText(sized(t, &fakeQA{err: errors.New("chat down")}), "q")
	m, cmd := enter(t, m)
	next, _ := m.Update(cmd())
	m = next.(Model)

	assert.Equal(t, "Error: chat down", m.status)
	assert.Contains(t, m.renderTranscript(), "Error: chat down")
}

func TestEnterIgnoredWhileBusyOrEmpty(t *testing.T) {
	qa := &fakeQA{}
	m := sized(t, qa)

	m, cmd := enter(t, m)
	assert.Nil(t, cmd)

	m = typeText(m, "first")
	m, _ = enter(t, m)
	m = typeText(m, "second")
	_, cmd = enter(t, m)
	assert.Nil(t, cmd)
}

func TestQuit(t *testing.T) {
	m := typeText(sized(t, &fakeQA{}), " Exit ")
	_, cmd := enter(t, m)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = sized(t, &fakeQA{}).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHighlightBestSentence(t *testing.T) {
	out := highlightBestSentence("Alpha beta. Qdrant stores vectors. Gamma.", "where are vectors")
	assert.Contains(t, out, "Alpha beta.")
	assert.Contains(t, out, "Qdrant stores vectors.")
	assert.Equal(t, "", highlightBestSentence("", "q"))
}
