package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Signature is a task bound to arguments.
type Signature struct {
	Task *Task
	Args []any
}

// Signature builds a signature for t. Exposed in the shell as `signature`
// and `subtask`.
func (a *App) Signature(t *Task, args ...any) *Signature {
	return t.S(args...)
}

// Clone returns a copy with extra arguments appended.
func (s *Signature) Clone(args ...any) *Signature {
	merged := append(append([]any(nil), s.Args...), args...)
	return &Signature{Task: s.Task, Args: merged}
}

func (s *Signature) Apply() *AsyncResult {
	return s.Task.Apply(s.Args...)
}

func (s *Signature) Delay() *AsyncResult {
	return s.Task.Delay(s.Args...)
}

func (s *Signature) String() string {
	args := make([]string, len(s.Args))
	for i, arg := range s.Args {
		args[i] = fmt.Sprintf("%#v", arg)
	}
	return fmt.Sprintf("%s(%s)", s.Task.Name, strings.Join(args, ", "))
}

// Group runs its members in parallel.
type Group struct {
	Tasks []*Signature
}

func (a *App) Group(sigs ...*Signature) *Group {
	return &Group{Tasks: sigs}
}

func (g *Group) Delay() *GroupResult {
	res := &GroupResult{ID: uuid.NewString()}
	for _, s := range g.Tasks {
		res.Results = append(res.Results, s.Delay())
	}
	return res
}

func (g *Group) Apply() *GroupResult {
	res := &GroupResult{ID: uuid.NewString()}
	for _, s := range g.Tasks {
		res.Results = append(res.Results, s.Apply())
	}
	return res
}

func (g *Group) String() string {
	parts := make([]string, len(g.Tasks))
	for i, s := range g.Tasks {
		parts[i] = s.String()
	}
	return "group(" + strings.Join(parts, ", ") + ")"
}

// Chain runs its members in order, passing each result as the first
// argument of the next member.
type Chain struct {
	Tasks []*Signature
	app   *App
}

func (a *App) Chain(sigs ...*Signature) *Chain {
	return &Chain{Tasks: sigs, app: a}
}

func (c *Chain) Apply() *AsyncResult {
	r := newAsyncResult("chain")
	r.resolve(c.run(context.Background()))
	return r
}

func (c *Chain) Delay() *AsyncResult {
	r := newAsyncResult("chain")
	c.app.Pool().Go(func() {
		r.resolve(c.run(context.Background()))
	})
	return r
}

func (c *Chain) run(ctx context.Context) (any, error) {
	var prev any
	for i, s := range c.Tasks {
		args := s.Args
		if i > 0 {
			args = append([]any{prev}, s.Args...)
		}
		v, err := s.Task.run(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("chain step %d (%s): %w", i, s.Task.Name, err)
		}
		prev = v
	}
	return prev, nil
}

func (c *Chain) String() string {
	parts := make([]string, len(c.Tasks))
	for i, s := range c.Tasks {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

// Chord runs Header as a group and then Body with the list of header
// results as its first argument.
type Chord struct {
	Header *Group
	Body   *Signature
	app    *App
}

func (a *App) Chord(header *Group, body *Signature) *Chord {
	return &Chord{Header: header, Body: body, app: a}
}

func (c *Chord) Delay() *AsyncResult {
	r := newAsyncResult("chord")
	header := c.Header.Delay()
	// The wait stays off the pool so a full pool cannot starve the header.
	go func() {
		values, err := header.Get()
		if err != nil {
			r.resolve(nil, fmt.Errorf("chord header: %w", err))
			return
		}
		c.app.Pool().Go(func() {
			r.resolve(c.Body.Task.run(context.Background(), append([]any{values}, c.Body.Args...)))
		})
	}()
	return r
}

func (c *Chord) Apply() *AsyncResult {
	r := newAsyncResult("chord")
	values, err := c.Header.Apply().Get()
	if err != nil {
		r.resolve(nil, fmt.Errorf("chord header: %w", err))
		return r
	}
	r.resolve(c.Body.Task.run(context.Background(), append([]any{values}, c.Body.Args...)))
	return r
}

// XMap returns a signature applying t to every item.
func (a *App) XMap(t *Task, items []any) *Signature {
	mapTask, _ := a.Lookup(ReservedPrefix + "map")
	return mapTask.S(t, items)
}

// XStarMap returns a signature applying t to every argument list.
func (a *App) XStarMap(t *Task, items [][]any) *Signature {
	starmapTask, _ := a.Lookup(ReservedPrefix + "starmap")
	return starmapTask.S(t, items)
}

// Chunks splits items into groups of size n, each run as one starmap.
func (a *App) Chunks(t *Task, items [][]any, n int) *Group {
	if n < 1 {
		n = 1
	}
	g := &Group{}
	for start := 0; start < len(items); start += n {
		end := min(start+n, len(items))
		g.Tasks = append(g.Tasks, a.XStarMap(t, items[start:end]))
	}
	return g
}
