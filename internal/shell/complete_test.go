package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameCompleter(t *testing.T) {
	c := NewNameCompleter([]string{"add", "app", "chain", "chord", "chunks", "group"})

	got := c.Complete("ch", 2)
	assert.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, []string{"chain", "chan", "chord", "chunks"}, got[:4])

	assert.Equal(t, []string{"group"}, c.Complete("x := gro", 8)[:1])
	assert.Nil(t, c.Complete("app.Na", 6))
	assert.Nil(t, c.Complete("", 0))
	assert.Nil(t, c.Complete("add(", 4))
}

func TestNameCompleter_FuzzyAfterPrefix(t *testing.T) {
	c := NewNameCompleter([]string{"xstarmap", "xmap"})

	got := c.Complete("xmp", 3)
	assert.Contains(t, got, "xmap")
	assert.Contains(t, got, "xstarmap")
}

func TestCompleteLine(t *testing.T) {
	c := NewNameCompleter([]string{"add", "app", "chain", "chord", "group"})

	line, pos, ok := completeLine(c, "gro", 3)
	assert.True(t, ok)
	assert.Equal(t, "group", line)
	assert.Equal(t, 5, pos)

	line, pos, ok = completeLine(c, "x := chai(1)", 9)
	assert.True(t, ok)
	assert.Equal(t, "x := chain(1)", line)
	assert.Equal(t, 10, pos)

	_, _, ok = completeLine(c, "ch", 2)
	assert.False(t, ok, "ambiguous prefix with nothing to add")

	line, _, ok = completeLine(c, "a", 1)
	assert.False(t, ok, "add and app share only the typed prefix")
	assert.Empty(t, line)
}

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, "ch", commonPrefix([]string{"chain", "chord", "chunks"}))
	assert.Equal(t, "xmap", commonPrefix([]string{"xmap"}))
}
