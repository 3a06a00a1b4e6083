package app

import (
	"context"
	"fmt"
	"strings"
)

// Func is the body of a task.
type Func func(ctx context.Context, args ...any) (any, error)

// Task is a named, callable unit of work.
type Task struct {
	// Name is the qualified name, e.g. "proj.tasks.add".
	Name string
	// Doc is a one-line description.
	Doc string

	fn  Func
	app *App
}

// ShortName is the last dotted component of Name. It is the key the task
// gets in the shell namespace.
func (t *Task) ShortName() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

func (t *Task) String() string {
	return fmt.Sprintf("<@task: %s of %s>", t.Name, t.app.Name())
}

// Call runs the task body inline and returns its result.
func (t *Task) Call(args ...any) (any, error) {
	return t.run(context.Background(), args)
}

// Apply runs the task inline and returns a resolved result.
func (t *Task) Apply(args ...any) *AsyncResult {
	r := newAsyncResult(t.Name)
	r.resolve(t.run(context.Background(), args))
	return r
}

// Delay schedules the task on the app's pool.
func (t *Task) Delay(args ...any) *AsyncResult {
	r := newAsyncResult(t.Name)
	t.app.Pool().Go(func() {
		r.resolve(t.run(context.Background(), args))
	})
	return r
}

// S returns a signature binding the given arguments.
func (t *Task) S(args ...any) *Signature {
	return &Signature{Task: t, Args: args}
}

func (t *Task) run(ctx context.Context, args []any) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task %s panicked: %v", t.Name, p)
		}
	}()
	return t.fn(ctx, args...)
}
