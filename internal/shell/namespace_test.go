package shell

import (
	"context"
	"testing"

	"github.com/atinylittleshell/taskq/internal/app"
	"github.com/atinylittleshell/taskq/internal/concurrency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNames = []string{
	"Task", "app", "chain", "chord", "chunks", "group",
	"signature", "subtask", "taskq", "xmap", "xstarmap",
}

func noop(context.Context, ...any) (any, error) {
	return nil, nil
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	return app.New("proj", app.Options{Pools: concurrency.NewRegistry()})
}

func TestBuildNamespace_FixedEntries(t *testing.T) {
	a := newTestApp(t)
	ns := BuildNamespace(a, true)

	assert.Equal(t, fixedNames, ns.Names())
	assert.Same(t, a, ns["app"])
	assert.Same(t, a, ns["taskq"])
}

func TestBuildNamespace_Tasks(t *testing.T) {
	a := newTestApp(t)
	add := a.Register("proj.math.add", noop)
	group := a.Register("proj.group", noop)

	ns := BuildNamespace(a, false)

	assert.Same(t, add, ns["add"])
	assert.Same(t, group, ns["group"], "tasks replace fixed entries")
	assert.Same(t, a, ns["app"])

	for _, name := range a.TaskNames() {
		if app.IsReserved(name) {
			t.Run(name, func(t *testing.T) {
				short, _ := a.Lookup(name)
				_, present := ns[short.ShortName()]
				assert.False(t, present)
			})
		}
	}
	require.NotEmpty(t, a.TaskNames())
}

func TestBuildNamespace_WithoutTasks(t *testing.T) {
	a := newTestApp(t)
	a.Register("proj.math.add", noop)

	ns := BuildNamespace(a, true)
	assert.NotContains(t, ns, "add")
	assert.Len(t, ns, len(fixedNames))
}

func TestBuildNamespace_ShortNameCollision(t *testing.T) {
	a := newTestApp(t)
	a.Register("alpha.add", noop)
	last := a.Register("beta.add", noop)

	assert.Same(t, last, BuildNamespace(a, false)["add"])
}
