// Package concurrency provides the named execution pools tasks run on.
//
// Pools are registered by name in a Registry. One pool may be activated per
// process before anything else runs (the --eventlet and --gevent shell
// flags); activation only records the choice, pools are built lazily.
package concurrency

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Built-in pool names.
const (
	Solo     = "solo"
	Threads  = "threads"
	Eventlet = "eventlet"
	Gevent   = "gevent"
)

// ErrUnknownPool is returned for names that were never registered.
var ErrUnknownPool = errors.New("unknown pool")

// Pool runs functions on a bounded set of goroutines. Functions submitted
// while every goroutine is busy wait in a FIFO backlog.
type Pool struct {
	name  string
	limit int
	group *errgroup.Group

	mu      sync.Mutex
	running int
	backlog []func()
}

func newPool(name string, limit int) *Pool {
	g := &errgroup.Group{}
	g.SetLimit(limit)
	return &Pool{name: name, limit: limit, group: g}
}

func (p *Pool) Name() string {
	return p.name
}

func (p *Pool) Limit() int {
	return p.limit
}

// Go schedules fn and returns without waiting for a free goroutine.
func (p *Pool) Go(fn func()) {
	p.mu.Lock()
	if p.running >= p.limit {
		p.backlog = append(p.backlog, fn)
		p.mu.Unlock()
		return
	}
	p.running++
	p.mu.Unlock()

	p.group.Go(func() error {
		for fn != nil {
			fn()
			fn = p.next()
		}
		return nil
	})
}

// next pops the backlog, or releases the caller's slot when it is empty.
func (p *Pool) next() func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.backlog) == 0 {
		p.running--
		return nil
	}
	fn := p.backlog[0]
	p.backlog = p.backlog[1:]
	return fn
}

// Pending returns the number of functions waiting for a goroutine.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.backlog)
}

// Wait blocks until every scheduled function has returned.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}

// Registry maps pool names to lazily built pools.
type Registry struct {
	mu        sync.Mutex
	limits    map[string]int
	pools     map[string]*Pool
	once      map[string]*sync.Once
	activated string
}

// Default is the process-wide registry.
var Default = NewRegistry()

// NewRegistry returns a registry with the built-in pools.
func NewRegistry() *Registry {
	r := &Registry{
		limits: map[string]int{},
		pools:  map[string]*Pool{},
		once:   map[string]*sync.Once{},
	}
	r.Register(Solo, 1)
	r.Register(Threads, runtime.NumCPU())
	r.Register(Eventlet, 1000)
	r.Register(Gevent, 1000)
	return r
}

// Register adds or replaces a pool definition. Replacing a pool that was
// already built has no effect on the built instance.
func (r *Registry) Register(name string, limit int) {
	if limit < 1 {
		limit = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits[name] = limit
	if _, ok := r.once[name]; !ok {
		r.once[name] = &sync.Once{}
	}
}

// Names returns the registered pool names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.limits))
	for name := range r.limits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the pool with the given name, building it on first use.
func (r *Registry) Get(name string) (*Pool, error) {
	r.mu.Lock()
	limit, ok := r.limits[name]
	once := r.once[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPool, name)
	}

	once.Do(func() {
		pool := newPool(name, limit)
		r.mu.Lock()
		r.pools[name] = pool
		r.mu.Unlock()
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pools[name], nil
}

// Activate makes name the pool used by tasks that did not pick one
// explicitly. Activating the same pool twice is a no-op.
func (r *Registry) Activate(name string) error {
	if _, err := r.Get(name); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activated = name
	return nil
}

// Activated returns the activated pool name, or "" if none.
func (r *Registry) Activated() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activated
}
