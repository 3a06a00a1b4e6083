package shell

import (
	"sort"
	"strings"

	"github.com/atinylittleshell/taskq/internal/shell/input"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// goKeywords are offered alongside namespace names.
var goKeywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type",
	"var",
}

// NameCompleter completes identifiers from a fixed word list. Prefix
// matches come first in lexical order, then fuzzy matches by score.
type NameCompleter struct {
	words []string
}

var _ input.Completer = (*NameCompleter)(nil)

func NewNameCompleter(names []string) *NameCompleter {
	return &NameCompleter{words: lo.Uniq(append(append([]string(nil), names...), goKeywords...))}
}

// Complete returns candidates for the word ending at pos. Selectors
// (`x.Fo`) are left to the interpreter and yield nothing.
func (c *NameCompleter) Complete(line string, pos int) []string {
	start, _ := input.WordBoundary(line, pos)
	runes := []rune(line)
	word := string(runes[start:min(pos, len(runes))])
	if word == "" || strings.Contains(word, ".") {
		return nil
	}

	prefix := lo.Filter(c.words, func(w string, _ int) bool {
		return strings.HasPrefix(w, word)
	})
	sort.Strings(prefix)
	for _, m := range fuzzy.Find(word, c.words) {
		if !strings.HasPrefix(m.Str, word) {
			prefix = append(prefix, m.Str)
		}
	}
	return prefix
}
