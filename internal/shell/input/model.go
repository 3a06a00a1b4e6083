// Package input is the line editor used by the rich shell. Each Model
// reads exactly one line and then quits its Bubble Tea program; the caller
// evaluates the line and starts a fresh Model for the next one.
package input

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/ansi"
	"go.uber.org/zap"
)

// ResultType indicates how an input session ended.
type ResultType int

const (
	// ResultNone means the user is still editing.
	ResultNone ResultType = iota
	ResultSubmit
	ResultInterrupt
	ResultEOF
)

// Result is the outcome of an input session.
type Result struct {
	Type  ResultType
	Value string
}

// Styles controls rendering.
type Styles struct {
	Prompt     lipgloss.Style
	Text       lipgloss.Style
	Cursor     lipgloss.Style
	Suggestion lipgloss.Style
	Selected   lipgloss.Style
}

// DefaultStyles returns the shell's default palette.
func DefaultStyles() Styles {
	return Styles{
		Prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Text:       lipgloss.NewStyle(),
		Cursor:     lipgloss.NewStyle().Reverse(true),
		Suggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
}

// Config holds configuration for creating a new Model.
type Config struct {
	Prompt string

	// History is navigated with Up/Down. Index 0 is the most recent line.
	History []string

	Completer Completer

	// KeyMap defaults to DefaultKeyMap.
	KeyMap *KeyMap

	// Styles defaults to DefaultStyles.
	Styles *Styles

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// Model is the Bubble Tea model for a single line of input.
type Model struct {
	buffer *Buffer
	keymap KeyMap
	styles Styles
	prompt string

	history      []string
	historyIndex int // 0 = current input, 1+ = history entries
	savedInput   string

	completion *CompletionState
	completer  Completer

	width  int
	result Result
	logger *zap.Logger
}

// New creates a new input Model with the given configuration.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	keymap := DefaultKeyMap()
	if cfg.KeyMap != nil {
		keymap = *cfg.KeyMap
	}
	styles := DefaultStyles()
	if cfg.Styles != nil {
		styles = *cfg.Styles
	}

	return Model{
		buffer:     NewBuffer(),
		keymap:     keymap,
		styles:     styles,
		prompt:     cfg.Prompt,
		history:    cfg.History,
		completion: NewCompletionState(),
		completer:  cfg.Completer,
		width:      80,
		logger:     logger,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case pasteMsg:
		m.buffer.InsertRunes(sanitizeRunes([]rune(msg)))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap

	if m.completion.IsActive() {
		switch {
		case key.Matches(msg, km.Complete):
			m.applySuggestion(m.completion.Next())
			return m, nil
		case key.Matches(msg, km.CompleteRev):
			m.applySuggestion(m.completion.Prev())
			return m, nil
		case key.Matches(msg, km.Cancel):
			m.buffer.SetText(m.completion.Cancel())
			return m, nil
		}
		m.completion.Reset()
	}

	switch {
	case key.Matches(msg, km.Submit):
		return m.finish(ResultSubmit, m.buffer.Text())
	case key.Matches(msg, km.Interrupt):
		return m.finish(ResultInterrupt, "")
	case key.Matches(msg, km.EOF):
		if m.buffer.Len() == 0 {
			return m.finish(ResultEOF, "")
		}
		m.buffer.DeleteForward()
	case key.Matches(msg, km.Complete):
		m.startCompletion()
	case key.Matches(msg, km.Left):
		m.buffer.SetPos(m.buffer.Pos() - 1)
	case key.Matches(msg, km.Right):
		m.buffer.SetPos(m.buffer.Pos() + 1)
	case key.Matches(msg, km.WordLeft):
		m.buffer.WordBackward()
	case key.Matches(msg, km.WordRight):
		m.buffer.WordForward()
	case key.Matches(msg, km.Home):
		m.buffer.SetPos(0)
	case key.Matches(msg, km.End):
		m.buffer.SetPos(m.buffer.Len())
	case key.Matches(msg, km.Backspace):
		m.buffer.DeleteBackward()
	case key.Matches(msg, km.Delete):
		m.buffer.DeleteForward()
	case key.Matches(msg, km.DeleteWord):
		m.buffer.DeleteWordBackward()
	case key.Matches(msg, km.KillToEnd):
		m.buffer.KillToEnd()
	case key.Matches(msg, km.KillToStart):
		m.buffer.KillToStart()
	case key.Matches(msg, km.HistoryPrev):
		m.historyPrev()
	case key.Matches(msg, km.HistoryNext):
		m.historyNext()
	case key.Matches(msg, km.Paste):
		return m, Paste
	case key.Matches(msg, km.ClearScreen):
		return m, tea.ClearScreen
	default:
		if len(msg.Runes) > 0 {
			m.buffer.InsertRunes(sanitizeRunes(msg.Runes))
			m.historyIndex = 0
		}
	}
	return m, nil
}

func (m Model) finish(t ResultType, value string) (tea.Model, tea.Cmd) {
	m.result = Result{Type: t, Value: value}
	return m, tea.Quit
}

func (m *Model) historyPrev() {
	if m.historyIndex >= len(m.history) {
		return
	}
	if m.historyIndex == 0 {
		m.savedInput = m.buffer.Text()
	}
	m.historyIndex++
	m.buffer.SetText(m.history[m.historyIndex-1])
}

func (m *Model) historyNext() {
	if m.historyIndex == 0 {
		return
	}
	m.historyIndex--
	if m.historyIndex == 0 {
		m.buffer.SetText(m.savedInput)
		return
	}
	m.buffer.SetText(m.history[m.historyIndex-1])
}

func (m *Model) startCompletion() {
	if m.completer == nil {
		return
	}
	text, pos := m.buffer.Text(), m.buffer.Pos()
	suggestions := m.completer.Complete(text, pos)
	if len(suggestions) == 0 {
		return
	}
	start, end := WordBoundary(text, pos)
	m.completion.Activate(suggestions, text, start, end)
	m.applySuggestion(m.completion.Next())
	if len(suggestions) == 1 {
		m.completion.Reset()
	}
	m.logger.Debug("completion", zap.Int("candidates", len(suggestions)))
}

func (m *Model) applySuggestion(s string) {
	if s == "" {
		return
	}
	text, pos := m.completion.Apply(s)
	m.buffer.SetText(text)
	m.buffer.SetPos(pos)
}

func (m Model) View() string {
	if m.result.Type != ResultNone {
		if m.result.Type == ResultInterrupt {
			return m.styles.Prompt.Render(m.prompt) + m.buffer.Text() + "^C\n"
		}
		return m.styles.Prompt.Render(m.prompt) + m.styles.Text.Render(m.buffer.Text()) + "\n"
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Prompt.Render(m.prompt))

	runes := []rune(m.buffer.Text())
	pos := m.buffer.Pos()
	sb.WriteString(m.styles.Text.Render(string(runes[:pos])))
	if pos < len(runes) {
		sb.WriteString(m.styles.Cursor.Render(string(runes[pos])))
		sb.WriteString(m.styles.Text.Render(string(runes[pos+1:])))
	} else {
		sb.WriteString(m.styles.Cursor.Render(" "))
	}

	if m.completion.IsActive() && len(m.completion.Suggestions()) > 1 {
		sb.WriteString("\n")
		sb.WriteString(m.renderSuggestions())
	}
	return sb.String()
}

// renderSuggestions lays the candidates out in columns that fit the
// terminal width.
func (m Model) renderSuggestions() string {
	suggestions := m.completion.Suggestions()
	colWidth := 0
	for _, s := range suggestions {
		colWidth = max(colWidth, ansi.PrintableRuneWidth(s))
	}
	colWidth += 2
	perLine := max(1, m.width/colWidth)

	var sb strings.Builder
	for i, s := range suggestions {
		style := m.styles.Suggestion
		if i == m.completion.Selected() {
			style = m.styles.Selected
		}
		cell := style.Render(s)
		sb.WriteString(cell)

		switch {
		case i == len(suggestions)-1:
		case (i+1)%perLine == 0:
			sb.WriteString("\n")
		default:
			sb.WriteString(strings.Repeat(" ", colWidth-ansi.PrintableRuneWidth(cell)))
		}
	}
	return sb.String()
}

// Result returns the current result. Check Type != ResultNone to see if complete.
func (m Model) Result() Result {
	return m.result
}

func (m Model) Value() string {
	return m.buffer.Text()
}

// Completion exposes the completion state for tests.
func (m Model) Completion() *CompletionState {
	return m.completion
}

type pasteMsg string

// Paste reads the clipboard.
func Paste() tea.Msg {
	s, err := clipboard.ReadAll()
	if err != nil {
		return nil
	}
	return pasteMsg(s)
}

// sanitizeRunes turns tabs and newlines into spaces; the editor is single-line.
func sanitizeRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		switch r {
		case '\t', '\n', '\r':
			out[i] = ' '
		default:
			out[i] = r
		}
	}
	return out
}
