package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordBoundary(t *testing.T) {
	tests := []struct {
		line       string
		pos        int
		start, end int
	}{
		{"", 0, 0, 0},
		{"gro", 3, 0, 3},
		{"x := gro", 8, 5, 8},
		{"add.De", 6, 0, 6},
		{"chain(ad)", 8, 6, 8},
		{"chain(ad)", 7, 6, 8},
	}
	for _, tt := range tests {
		start, end := WordBoundary(tt.line, tt.pos)
		assert.Equal(t, tt.start, start, "start of %q@%d", tt.line, tt.pos)
		assert.Equal(t, tt.end, end, "end of %q@%d", tt.line, tt.pos)
	}
}

func TestCompletionStateCycles(t *testing.T) {
	cs := NewCompletionState()
	assert.False(t, cs.IsActive())
	assert.Equal(t, "", cs.Next())

	cs.Activate([]string{"chain", "chord", "chunks"}, "x := ch", 5, 7)
	assert.True(t, cs.IsActive())

	assert.Equal(t, "chain", cs.Next())
	assert.Equal(t, "chord", cs.Next())
	assert.Equal(t, "chunks", cs.Next())
	assert.Equal(t, "chain", cs.Next())
	assert.Equal(t, "chunks", cs.Prev())

	line, pos := cs.Apply("chord")
	assert.Equal(t, "x := chord", line)
	assert.Equal(t, 10, pos)

	assert.Equal(t, "x := ch", cs.Cancel())
	assert.False(t, cs.IsActive())
}
