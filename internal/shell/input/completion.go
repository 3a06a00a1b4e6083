package input

// Completer supplies completion candidates for the word at pos.
type Completer interface {
	Complete(line string, pos int) []string
}

// CompletionState tracks an in-progress Tab cycle.
type CompletionState struct {
	active      bool
	suggestions []string
	selected    int
	start       int
	end         int
	original    string
}

func NewCompletionState() *CompletionState {
	return &CompletionState{selected: -1}
}

func (cs *CompletionState) Reset() {
	*cs = CompletionState{selected: -1}
}

func (cs *CompletionState) IsActive() bool {
	return cs.active
}

func (cs *CompletionState) Suggestions() []string {
	return cs.suggestions
}

func (cs *CompletionState) Selected() int {
	return cs.selected
}

// Activate starts a cycle replacing runes [start, end) of original.
func (cs *CompletionState) Activate(suggestions []string, original string, start, end int) {
	cs.active = true
	cs.suggestions = suggestions
	cs.selected = -1
	cs.original = original
	cs.start = start
	cs.end = end
}

// Next advances the selection, wrapping around.
func (cs *CompletionState) Next() string {
	if !cs.active || len(cs.suggestions) == 0 {
		return ""
	}
	cs.selected = (cs.selected + 1) % len(cs.suggestions)
	return cs.suggestions[cs.selected]
}

// Prev moves the selection back, wrapping around.
func (cs *CompletionState) Prev() string {
	if !cs.active || len(cs.suggestions) == 0 {
		return ""
	}
	cs.selected--
	if cs.selected < 0 {
		cs.selected = len(cs.suggestions) - 1
	}
	return cs.suggestions[cs.selected]
}

// Apply returns the original line with the current selection spliced in,
// and the cursor position after it.
func (cs *CompletionState) Apply(suggestion string) (string, int) {
	runes := []rune(cs.original)
	start := min(cs.start, len(runes))
	end := max(start, min(cs.end, len(runes)))
	out := string(runes[:start]) + suggestion + string(runes[end:])
	return out, start + len([]rune(suggestion))
}

// Cancel ends the cycle and returns the line as it was before it began.
func (cs *CompletionState) Cancel() string {
	original := cs.original
	cs.Reset()
	return original
}

// WordBoundary returns the rune range of the identifier ending at pos.
// Dots are part of the word so `add.De` completes as a selector.
func WordBoundary(line string, pos int) (int, int) {
	runes := []rune(line)
	pos = max(0, min(pos, len(runes)))
	start := pos
	for start > 0 && (isWordRune(runes[start-1]) || runes[start-1] == '.') {
		start--
	}
	end := pos
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return start, end
}
