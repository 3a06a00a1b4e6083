// Package app holds the task-queue application handle: the task registry,
// the module loader and the canvas primitives used to compose tasks.
package app

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/atinylittleshell/taskq/internal/concurrency"
	"go.uber.org/zap"
)

// ReservedPrefix marks tasks that belong to taskq itself.
const ReservedPrefix = "taskq."

// Options configures a new App.
type Options struct {
	// Imports are the task modules loaded by ImportDefaultModules.
	Imports []string
	// Include is the base module search path.
	Include []string
	// Pool is the pool name used by Delay when no pool was activated.
	Pool string
	// Pools defaults to concurrency.Default.
	Pools *concurrency.Registry
	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// App is the application handle exposed to the shell as `app`.
type App struct {
	name   string
	logger *zap.Logger

	mu    sync.RWMutex
	tasks map[string]*Task

	loader *Loader

	pools    *concurrency.Registry
	poolName string
	poolOnce sync.Once
	pool     *concurrency.Pool

	importedMu sync.Mutex
	imported   map[string]string
}

// New creates an App with the builtin tasks registered.
func New(name string, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pools := opts.Pools
	if pools == nil {
		pools = concurrency.Default
	}
	poolName := opts.Pool
	if poolName == "" {
		poolName = concurrency.Solo
	}

	a := &App{
		name:     name,
		logger:   logger,
		tasks:    map[string]*Task{},
		pools:    pools,
		poolName: poolName,
		imported: map[string]string{},
	}
	a.loader = &Loader{
		app:        a,
		imports:    append([]string(nil), opts.Imports...),
		searchPath: append([]string(nil), opts.Include...),
		logger:     logger,
	}
	registerBuiltins(a)
	return a
}

func (a *App) Name() string {
	return a.name
}

func (a *App) String() string {
	return fmt.Sprintf("<App %s: %d tasks>", a.name, len(a.TaskNames()))
}

// Loader returns the app's module loader.
func (a *App) Loader() *Loader {
	return a.loader
}

// Register adds a task under its qualified name, replacing any previous
// task with the same name.
func (a *App) Register(name string, fn Func) *Task {
	t := &Task{Name: name, fn: fn, app: a}
	a.mu.Lock()
	a.tasks[name] = t
	a.mu.Unlock()
	a.logger.Debug("task registered", zap.String("task", name))
	return t
}

// Lookup returns the task registered under the qualified name.
func (a *App) Lookup(name string) (*Task, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	t, ok := a.tasks[name]
	return t, ok
}

// Tasks returns a snapshot of the registry keyed by qualified name.
func (a *App) Tasks() map[string]*Task {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snapshot := make(map[string]*Task, len(a.tasks))
	for name, t := range a.tasks {
		snapshot[name] = t
	}
	return snapshot
}

// TaskNames returns the qualified task names, sorted.
func (a *App) TaskNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.tasks))
	for name := range a.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsReserved reports whether a qualified task name is internal to taskq.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}

// Pool returns the pool Delay runs on. An activated pool takes precedence
// over the configured one. The choice is fixed on first use.
func (a *App) Pool() *concurrency.Pool {
	a.poolOnce.Do(func() {
		name := a.pools.Activated()
		if name == "" {
			name = a.poolName
		}
		pool, err := a.pools.Get(name)
		if err != nil {
			a.logger.Warn("falling back to solo pool", zap.String("pool", name), zap.Error(err))
			pool, _ = a.pools.Get(concurrency.Solo)
		}
		a.pool = pool
	})
	return a.pool
}

func (a *App) isImported(module string) bool {
	a.importedMu.Lock()
	defer a.importedMu.Unlock()
	_, ok := a.imported[module]
	return ok
}

func (a *App) markImported(module string, path string) {
	a.importedMu.Lock()
	defer a.importedMu.Unlock()
	a.imported[module] = path
}

// ImportedModules returns module name -> manifest path for loaded modules.
func (a *App) ImportedModules() map[string]string {
	a.importedMu.Lock()
	defer a.importedMu.Unlock()
	out := make(map[string]string, len(a.imported))
	for k, v := range a.imported {
		out[k] = v
	}
	return out
}
