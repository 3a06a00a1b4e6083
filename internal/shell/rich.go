//go:build !taskq_norich

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atinylittleshell/taskq/internal/history"
	"github.com/atinylittleshell/taskq/internal/shell/input"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

func init() {
	Register(newRichBackend())
}

const (
	historyNavigationLimit = 500
	historyListLimit       = 20
)

// Strategy is one way of starting the rich shell. Strategies are tried in
// order; one that returns an error matching ErrStrategyUnavailable hands
// over to the next.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// strategyUnavailable is a reason matching ErrStrategyUnavailable.
type strategyUnavailable string

func (e strategyUnavailable) Error() string {
	return string(e)
}

func (e strategyUnavailable) Is(target error) bool {
	return target == ErrStrategyUnavailable
}

type richBackend struct {
	strategies []Strategy
}

func newRichBackend() *richBackend {
	return &richBackend{strategies: []Strategy{
		{Name: "persistent", Run: runPersistent},
		{Name: "ephemeral", Run: runEphemeral},
		{Name: "terminal", Run: runStyledTerminal},
		{Name: "none", Run: func(context.Context, *Env) error {
			return strategyUnavailable("no suitable rich shell found")
		}},
	}}
}

func (*richBackend) Name() string {
	return BackendRich
}

func (*richBackend) Available(env *Env) error {
	if _, ok := terminalFd(env.Stdin); !ok {
		return unavailable(BackendRich, "stdin is not a terminal")
	}
	if os.Getenv("TERM") == "dumb" {
		return unavailable(BackendRich, "terminal does not support line editing (TERM=dumb)")
	}
	return nil
}

func (r *richBackend) Run(ctx context.Context, env *Env) error {
	var last error = strategyUnavailable("no suitable rich shell found")
	for _, s := range r.strategies {
		err := s.Run(ctx, env)
		if !errors.Is(err, ErrStrategyUnavailable) {
			return err
		}
		env.logger().Debug("rich shell strategy unavailable",
			zap.String("strategy", s.Name),
			zap.Error(err))
		last = err
	}
	return unavailable(BackendRich, "%v", last)
}

func requireTerminals(env *Env) error {
	if _, ok := terminalFd(env.Stdin); !ok {
		return strategyUnavailable("stdin is not a terminal")
	}
	if _, ok := terminalFd(env.Stdout); !ok {
		return strategyUnavailable("stdout is not a terminal")
	}
	return nil
}

func runPersistent(ctx context.Context, env *Env) error {
	if err := requireTerminals(env); err != nil {
		return err
	}
	if env.HistoryPath == "" {
		return strategyUnavailable("persistent history is disabled")
	}
	store, err := history.NewManager(env.HistoryPath)
	if err != nil {
		return strategyUnavailable(fmt.Sprintf("cannot open history: %v", err))
	}
	defer store.Close()
	return runEditor(ctx, env, store)
}

func runEphemeral(ctx context.Context, env *Env) error {
	if err := requireTerminals(env); err != nil {
		return err
	}
	return runEditor(ctx, env, history.NewMemory())
}

func runStyledTerminal(ctx context.Context, env *Env) error {
	fd, ok := terminalFd(env.Stdin)
	if !ok {
		return strategyUnavailable("stdin is not a terminal")
	}
	printBanner(env)
	return runTerminal(ctx, env, fd, input.DefaultStyles().Prompt.Render(env.prompt()))
}

// runEditor runs one line-editor program per input line and evaluates
// each submitted line between programs.
func runEditor(ctx context.Context, env *Env, store history.Store) error {
	logger := env.logger()
	sess, err := NewSession(env.Namespace, SessionOptions{
		Stdin:  env.Stdin,
		Stdout: env.Stdout,
		Stderr: env.Stderr,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	printBanner(env)
	completer := NewNameCompleter(sess.Names())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		recent, err := store.RecentCommands(historyNavigationLimit)
		if err != nil {
			logger.Warn("failed to load history", zap.Error(err))
		}

		model := input.New(input.Config{
			Prompt:    env.prompt(),
			History:   recent,
			Completer: completer,
			Logger:    logger,
		})
		final, err := tea.NewProgram(model,
			tea.WithContext(ctx),
			tea.WithInput(env.Stdin),
			tea.WithOutput(env.Stdout),
		).Run()
		if err != nil {
			return fmt.Errorf("line editor failed: %w", err)
		}

		result := final.(input.Model).Result()
		switch result.Type {
		case input.ResultEOF:
			return nil
		case input.ResultInterrupt:
			continue
		}

		line := strings.TrimSpace(result.Value)
		if line == "" {
			continue
		}
		if isExit(line) {
			return nil
		}
		if strings.HasPrefix(line, "%") {
			if err := runMagic(env.Stdout, store, line); err != nil {
				printEvalError(env.Stderr, err)
			}
			continue
		}

		out, evalErr := sess.Eval(ctx, line)
		if err := store.Record(line, BackendRich, evalErr != nil); err != nil {
			logger.Warn("failed to record history", zap.Error(err))
		}
		if evalErr != nil {
			printEvalError(env.Stderr, evalErr)
			continue
		}
		printResult(env.Stdout, out)
	}
}

// runMagic handles the %-prefixed shell commands:
//
//	%history [n]     list the last n lines (default 20)
//	%history clear   forget all lines
func runMagic(w io.Writer, store history.Store, line string) error {
	fields := strings.Fields(strings.TrimPrefix(line, "%"))
	if len(fields) == 0 || fields[0] != "history" {
		return fmt.Errorf("unknown command: %s", line)
	}

	limit := historyListLimit
	if len(fields) > 1 {
		if fields[1] == "clear" {
			return store.Reset()
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: %%history [n|clear]")
		}
		limit = n
	}

	entries, err := store.Entries(limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		marker := " "
		if e.Failed {
			marker = "!"
		}
		fmt.Fprintf(w, "%5d %s %-16s %s\n", e.ID, marker, humanize.Time(e.CreatedAt), e.Line)
	}
	return nil
}
