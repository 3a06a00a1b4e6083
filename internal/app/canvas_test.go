package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_CloneAppendsArgs(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)

	partial := a.Signature(task, 1)
	full := partial.Clone(2)

	assert.Equal(t, []any{1}, partial.Args)
	assert.Equal(t, []any{1, 2}, full.Args)
	assert.Equal(t, "proj.tasks.add(1, 2)", full.String())

	v, err := full.Apply().Get()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestGroup_Delay(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)

	res := a.Group(task.S(1, 1), task.S(2, 2), task.S(3, 3)).Delay()
	values, err := res.Get()
	require.NoError(t, err)
	assert.Equal(t, []any{2, 4, 6}, values)
	assert.True(t, res.Ready())
	assert.Equal(t, 3, res.Completed())
}

func TestGroup_ReportsFirstError(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)

	_, err := a.Group(task.S(1), task.S("x")).Apply().Get()
	assert.Error(t, err)
}

func TestChain_PassesResultForward(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)

	v, err := a.Chain(task.S(1, 1), task.S(10), task.S(100)).Delay().Get()
	require.NoError(t, err)
	assert.Equal(t, 112, v)
	assert.Equal(t, "proj.tasks.add(1, 1) | proj.tasks.add(10) | proj.tasks.add(100)", a.Chain(task.S(1, 1), task.S(10), task.S(100)).String())
}

func TestChain_StopsOnError(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)
	fail := a.Register("proj.tasks.fail", func(ctx context.Context, args ...any) (any, error) {
		return nil, errors.New("nope")
	})

	_, err := a.Chain(task.S(1), fail.S(), task.S(1)).Apply().Get()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain step 1")
}

func TestChord_BodyReceivesHeaderResults(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)
	count := a.Register("proj.tasks.count", func(ctx context.Context, args ...any) (any, error) {
		return len(args[0].([]any)), nil
	})

	header := a.Group(task.S(1, 2), task.S(3, 4))

	v, err := a.Chord(header, count.S()).Delay().Get()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = a.Chord(header, count.S()).Apply().Get()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestChord_BodyRunsOnPool(t *testing.T) {
	a := newTestApp(t)
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(label string) Func {
		return func(ctx context.Context, args ...any) (any, error) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, label)
			return label, nil
		}
	}
	release := make(chan struct{})
	blocker := a.Register("proj.tasks.block", func(ctx context.Context, args ...any) (any, error) {
		<-release
		return nil, nil
	})
	header := a.Register("proj.tasks.header", record("header"))
	marker := a.Register("proj.tasks.marker", record("marker"))
	body := a.Register("proj.tasks.body", record("body"))

	blocker.Delay()
	chord := a.Chord(a.Group(header.S(), header.S()), body.S()).Delay()
	marker.Delay()
	close(release)

	v, err := chord.Get()
	require.NoError(t, err)
	assert.Equal(t, "body", v)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"header", "header", "marker", "body"}, order)
}

func TestXMapAndXStarMap(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)

	v, err := a.XMap(task, []any{1, 2, 3}).Apply().Get()
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, v)

	v, err = a.XStarMap(task, [][]any{{1, 2}, {3, 4}}).Apply().Get()
	require.NoError(t, err)
	assert.Equal(t, []any{3, 7}, v)
}

func TestChunks_SplitsIntoGroups(t *testing.T) {
	a := newTestApp(t)
	task := a.Register("proj.tasks.add", add)

	items := [][]any{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	g := a.Chunks(task, items, 2)
	require.Len(t, g.Tasks, 3)

	values, err := g.Apply().Get()
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{2, 4}, []any{6, 8}, []any{10}}, values)
}

func TestMapBuiltin_RejectsBadArguments(t *testing.T) {
	a := newTestApp(t)
	mapTask, ok := a.Lookup("taskq.map")
	require.True(t, ok)

	_, err := mapTask.Call("not a task", []any{})
	assert.Error(t, err)
	_, err = mapTask.Call()
	assert.Error(t, err)
}
