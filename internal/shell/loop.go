package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/term"
)

// lineReader is satisfied by *term.Terminal and promptReader.
type lineReader interface {
	ReadLine() (string, error)
}

// promptReader reads lines from a non-terminal source, printing the
// prompt before each one.
type promptReader struct {
	scanner *bufio.Scanner
	w       io.Writer
	prompt  string
}

func newPromptReader(r io.Reader, w io.Writer, prompt string) *promptReader {
	return &promptReader{scanner: bufio.NewScanner(r), w: w, prompt: prompt}
}

func (r *promptReader) ReadLine() (string, error) {
	fmt.Fprint(r.w, r.prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// recordFunc is called after each evaluated line.
type recordFunc func(line string, failed bool)

// evalLoop reads and evaluates lines until EOF or an exit command.
func evalLoop(ctx context.Context, sess *Session, r lineReader, out, errOut io.Writer, record recordFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isExit(line) {
			return nil
		}

		result, evalErr := sess.Eval(ctx, line)
		if record != nil {
			record(line, evalErr != nil)
		}
		if evalErr != nil {
			printEvalError(errOut, evalErr)
			continue
		}
		printResult(out, result)
	}
}

func isExit(line string) bool {
	switch line {
	case "exit", "quit", "exit()", "quit()":
		return true
	}
	return false
}

// runTerminal puts fd into raw mode and runs evalLoop on an x/term line
// discipline with Tab completion over the session's names.
func runTerminal(ctx context.Context, env *Env, fd int, prompt string) error {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	t, sess, err := newTerminalSession(env, struct {
		io.Reader
		io.Writer
	}{env.Stdin, env.Stdout}, prompt)
	if err != nil {
		return err
	}
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}
	return evalLoop(ctx, sess, t, t, t, nil)
}

// newTerminalSession builds a line discipline over rw and a session whose
// output goes through it, so evaluated code gets CRLF line endings while
// the terminal is raw.
func newTerminalSession(env *Env, rw io.ReadWriter, prompt string) (*term.Terminal, *Session, error) {
	t := term.NewTerminal(rw, prompt)
	sess, err := NewSession(env.Namespace, SessionOptions{
		Stdin:  env.Stdin,
		Stdout: t,
		Stderr: t,
		Logger: env.logger(),
	})
	if err != nil {
		return nil, nil, err
	}

	completer := NewNameCompleter(sess.Names())
	t.AutoCompleteCallback = func(line string, pos int, key rune) (string, int, bool) {
		if key != '\t' {
			return "", 0, false
		}
		return completeLine(completer, line, pos)
	}
	return t, sess, nil
}

// completeLine applies completion at byte offset pos: a single candidate
// is inserted, several prefix matches are reduced to their common prefix.
func completeLine(c *NameCompleter, line string, pos int) (string, int, bool) {
	runePos := utf8.RuneCountInString(line[:pos])
	candidates := c.Complete(line, runePos)
	if len(candidates) == 0 {
		return "", 0, false
	}

	start := strings.LastIndexFunc(line[:pos], func(r rune) bool {
		return !isIdentRune(r)
	}) + 1
	word := line[start:pos]

	var replacement string
	prefixed := lo.Filter(candidates, func(c string, _ int) bool {
		return strings.HasPrefix(c, word)
	})
	switch {
	case len(prefixed) == 1:
		replacement = prefixed[0]
	case len(prefixed) > 1:
		replacement = commonPrefix(prefixed)
	case len(candidates) == 1:
		replacement = candidates[0]
	}
	if replacement == "" || replacement == word {
		return "", 0, false
	}

	newLine := line[:start] + replacement + line[pos:]
	return newLine, start + len(replacement), true
}

func isIdentRune(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= utf8.RuneSelf
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
