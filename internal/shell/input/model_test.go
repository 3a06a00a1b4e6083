package input

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCompleter []string

func (s staticCompleter) Complete(line string, pos int) []string {
	return s
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelSubmit(t *testing.T) {
	m := New(Config{Prompt: ">>> "})
	m = typeText(m, "add(1, 2)")
	assert.Equal(t, "add(1, 2)", m.Value())
	assert.Equal(t, ResultNone, m.Result().Type)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, Result{Type: ResultSubmit, Value: "add(1, 2)"}, m.Result())
	assert.Contains(t, m.View(), "add(1, 2)")
}

func TestModelInterrupt(t *testing.T) {
	m := typeText(New(Config{}), "oops")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, ResultInterrupt, m.Result().Type)
	assert.Contains(t, m.View(), "^C")
}

func TestModelCtrlD(t *testing.T) {
	t.Run("deletes forward on a non-empty line", func(t *testing.T) {
		m := typeText(New(Config{}), "ab")
		m = press(m, tea.KeyMsg{Type: tea.KeyCtrlA})
		m = press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
		assert.Equal(t, "b", m.Value())
		assert.Equal(t, ResultNone, m.Result().Type)
	})

	t.Run("ends input on an empty line", func(t *testing.T) {
		m := press(New(Config{}), tea.KeyMsg{Type: tea.KeyCtrlD})
		assert.Equal(t, ResultEOF, m.Result().Type)
	})
}

func TestModelHistoryNavigation(t *testing.T) {
	m := New(Config{History: []string{"newest", "older"}})
	m = typeText(m, "draft")

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "newest", m.Value())
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "older", m.Value())
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "older", m.Value())

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "newest", m.Value())
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "draft", m.Value())
}

func TestModelCompletion(t *testing.T) {
	t.Run("single candidate is inserted", func(t *testing.T) {
		m := New(Config{Completer: staticCompleter{"group"}})
		m = typeText(m, "gr")
		m = press(m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "group", m.Value())
		assert.False(t, m.Completion().IsActive())
	})

	t.Run("tab cycles and esc restores", func(t *testing.T) {
		m := New(Config{Completer: staticCompleter{"chain", "chord"}})
		m = typeText(m, "ch")
		m = press(m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "chain", m.Value())
		assert.Contains(t, m.View(), "chord")

		m = press(m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "chord", m.Value())

		m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, "ch", m.Value())
		assert.False(t, m.Completion().IsActive())
	})

	t.Run("typing accepts the selection", func(t *testing.T) {
		m := New(Config{Completer: staticCompleter{"chain", "chord"}})
		m = typeText(m, "ch")
		m = press(m, tea.KeyMsg{Type: tea.KeyTab})
		m = typeText(m, "(")
		assert.Equal(t, "chain(", m.Value())
		assert.False(t, m.Completion().IsActive())
	})
}

func TestSanitizeRunes(t *testing.T) {
	assert.Equal(t, []rune("a b c"), sanitizeRunes([]rune("a\tb\nc")))
}

func TestModelSuggestionColumns(t *testing.T) {
	m := New(Config{Completer: staticCompleter{"chain", "chord", "chunks"}})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 16, Height: 10})
	m = next.(Model)
	m = typeText(m, "ch")
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})

	view := m.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 3, view)
	assert.Contains(t, lines[1], "chain")
	assert.Contains(t, lines[1], "chord")
	assert.Contains(t, lines[2], "chunks")
}
