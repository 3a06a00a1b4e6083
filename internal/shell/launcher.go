// Package shell implements `taskq shell`: it builds the namespace of
// task-queue objects and runs it in one of the registered interpreter
// frontends.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atinylittleshell/taskq/internal/app"
	"github.com/atinylittleshell/taskq/internal/concurrency"
	"github.com/atinylittleshell/taskq/internal/config"
	"github.com/atinylittleshell/taskq/internal/styles"
	"go.uber.org/zap"
)

// autoOrder is the probe order used when no backend is forced.
var autoOrder = []string{BackendRich, BackendYaegi, BackendPlain}

// Options configures a Launcher. Zero values select the process defaults.
type Options struct {
	Registry *Registry
	Pools    *concurrency.Registry

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.Logger

	// Getwd returns the directory prepended to the module search path.
	Getwd func() (string, error)

	Shell   config.ShellConfig
	Version string
}

// Launcher runs shell sessions.
type Launcher struct {
	registry *Registry
	pools    *concurrency.Registry
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   *zap.Logger
	getwd    func() (string, error)
	shell    config.ShellConfig
	version  string
}

func NewLauncher(opts Options) *Launcher {
	l := &Launcher{
		registry: opts.Registry,
		pools:    opts.Pools,
		stdin:    opts.Stdin,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		logger:   opts.Logger,
		getwd:    opts.Getwd,
		shell:    opts.Shell,
		version:  opts.Version,
	}
	if l.registry == nil {
		l.registry = DefaultRegistry
	}
	if l.pools == nil {
		l.pools = concurrency.Default
	}
	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.getwd == nil {
		l.getwd = os.Getwd
	}
	return l
}

// Launch prepares the namespace for a and blocks in the selected backend
// until the user exits. A forced backend that is unavailable is reported
// on stderr and Launch returns nil.
func (l *Launcher) Launch(ctx context.Context, flags Flags, a *app.App) error {
	l.activatePools(flags)

	cwd, err := l.getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	loader := a.Loader().WithSearchPath(cwd)
	l.logger.Debug("importing default modules",
		zap.Strings("search_path", loader.SearchPath()),
		zap.Strings("imports", loader.Imports()))
	if err := loader.ImportDefaultModules(ctx); err != nil {
		return err
	}

	ns := BuildNamespace(a, flags.WithoutTasks)
	env := l.env(a, ns)

	choice := ResolveChoice(flags)
	l.logger.Info("starting shell", zap.Stringer("choice", choice), zap.Int("names", len(ns)))

	switch choice {
	case ChoicePlain:
		return l.runForced(ctx, BackendPlain, env, nil)
	case ChoiceYaegi:
		return l.runForced(ctx, BackendYaegi, env, func(err error) string {
			return fmt.Sprintf("yaegi shell is not available: %v", err)
		})
	case ChoiceRich:
		return l.runForced(ctx, BackendRich, env, nil)
	default:
		return l.runAuto(ctx, env)
	}
}

// activatePools switches to the eventlet or gevent pool before anything
// else runs. Failures are not fatal.
func (l *Launcher) activatePools(flags Flags) {
	for _, p := range []struct {
		name string
		set  bool
	}{
		{concurrency.Eventlet, flags.Eventlet},
		{concurrency.Gevent, flags.Gevent},
	} {
		if !p.set {
			continue
		}
		name := p.name
		if err := l.pools.Activate(name); err != nil {
			l.logger.Debug("failed to activate pool", zap.String("pool", name), zap.Error(err))
		}
	}
}

func (l *Launcher) env(a *app.App, ns Namespace) *Env {
	env := &Env{
		Namespace:   ns,
		Stdin:       l.stdin,
		Stdout:      l.stdout,
		Stderr:      l.stderr,
		Logger:      l.logger,
		Prompt:      l.shell.Prompt,
		HistoryPath: l.shell.History,
	}
	if env.HistoryPath == config.HistoryDisabled {
		env.HistoryPath = ""
	}
	if l.shell.ShowBanner() {
		env.Banner = RenderBanner(BannerInfo{App: a.Name(), Version: l.version, Names: ns.Names()})
	}
	return env
}

// runForced runs the named backend without falling back. describe turns
// an unavailability error into the reported message.
func (l *Launcher) runForced(ctx context.Context, name string, env *Env, describe func(error) string) error {
	b, err := l.registry.Probe(name, env)
	if err == nil {
		err = b.Run(ctx, env)
	}
	if errors.Is(err, ErrBackendUnavailable) {
		msg := err.Error()
		if describe != nil {
			msg = describe(err)
		}
		l.echoError(msg)
		return nil
	}
	return err
}

func (l *Launcher) runAuto(ctx context.Context, env *Env) error {
	for _, name := range autoOrder {
		b, err := l.registry.Probe(name, env)
		if err != nil {
			l.logger.Debug("backend unavailable", zap.String("backend", name), zap.Error(err))
			continue
		}
		err = b.Run(ctx, env)
		if errors.Is(err, ErrBackendUnavailable) {
			l.logger.Debug("backend failed to start", zap.String("backend", name), zap.Error(err))
			continue
		}
		return err
	}
	return ErrNoBackend
}

func (l *Launcher) echoError(msg string) {
	fmt.Fprintf(l.stderr, "%s: %s\n", styles.ERROR("ERROR"), msg)
}
