package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Backend identifiers.
const (
	BackendRich  = "rich"
	BackendYaegi = "yaegi"
	BackendPlain = "plain"
)

// Backend is an interactive interpreter frontend.
type Backend interface {
	Name() string

	// Available reports whether the backend can run with env. A non-nil
	// error wraps ErrBackendUnavailable.
	Available(env *Env) error

	// Run blocks until the session ends.
	Run(ctx context.Context, env *Env) error
}

// Env is what a backend receives from the launcher.
type Env struct {
	Namespace Namespace

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.Logger

	Prompt string

	// HistoryPath is the sqlite history file. Empty disables persistence.
	HistoryPath string

	// Banner is printed when the session starts, if non-empty.
	Banner string
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Env) prompt() string {
	if e.Prompt == "" {
		return ">>> "
	}
	return e.Prompt
}

// Registry holds the compiled-in backends. Backends register themselves
// from init functions, so a backend excluded by build tags is simply
// missing.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

func NewRegistry() *Registry {
	return &Registry{backends: map[string]Backend{}}
}

// DefaultRegistry is populated by the backend init functions.
var DefaultRegistry = NewRegistry()

// Register adds b to the default registry.
func Register(b Backend) {
	DefaultRegistry.Register(b)
}

// Register adds b, replacing any backend with the same name.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
}

func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Probe returns the named backend if it is registered and available.
func (r *Registry) Probe(name string, env *Env) (Backend, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s support is not compiled in", ErrBackendUnavailable, name)
	}
	if err := b.Available(env); err != nil {
		return nil, err
	}
	return b, nil
}

// terminalFd returns the file descriptor behind v if it is a terminal.
func terminalFd(v any) (int, bool) {
	f, ok := v.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

func unavailable(backend string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrBackendUnavailable, backend, fmt.Sprintf(format, args...))
}
