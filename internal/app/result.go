package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Result states.
const (
	StatePending = "PENDING"
	StateSuccess = "SUCCESS"
	StateFailure = "FAILURE"
)

// AsyncResult is the handle returned by Delay and Apply.
type AsyncResult struct {
	ID   string
	Task string

	done  chan struct{}
	value any
	err   error
}

func newAsyncResult(task string) *AsyncResult {
	return &AsyncResult{
		ID:   uuid.NewString(),
		Task: task,
		done: make(chan struct{}),
	}
}

func (r *AsyncResult) resolve(value any, err error) {
	r.value = value
	r.err = err
	close(r.done)
}

// Get blocks until the task finished.
func (r *AsyncResult) Get() (any, error) {
	<-r.done
	return r.value, r.err
}

// Wait is Get bounded by ctx.
func (r *AsyncResult) Wait(ctx context.Context) (any, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *AsyncResult) Ready() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

func (r *AsyncResult) State() string {
	if !r.Ready() {
		return StatePending
	}
	if r.err != nil {
		return StateFailure
	}
	return StateSuccess
}

func (r *AsyncResult) String() string {
	return fmt.Sprintf("<AsyncResult: %s %s>", r.ID, r.State())
}

// GroupResult collects the results of a group.
type GroupResult struct {
	ID      string
	Results []*AsyncResult
}

// Get waits for every member and returns the values in order. The first
// error encountered is returned.
func (g *GroupResult) Get() ([]any, error) {
	values := make([]any, len(g.Results))
	var firstErr error
	for i, r := range g.Results {
		v, err := r.Get()
		values[i] = v
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return values, firstErr
}

func (g *GroupResult) Ready() bool {
	return g.Completed() == len(g.Results)
}

// Completed returns how many members have finished.
func (g *GroupResult) Completed() int {
	n := 0
	for _, r := range g.Results {
		if r.Ready() {
			n++
		}
	}
	return n
}

func (g *GroupResult) String() string {
	return fmt.Sprintf("<GroupResult: %s %d/%d>", g.ID, g.Completed(), len(g.Results))
}
