package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsHonourTaskqHome(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("TASKQ_HOME", dir)
	ResetPaths()
	t.Cleanup(ResetPaths)

	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, "taskq.log"), LogFile())
	assert.Equal(t, filepath.Join(dir, "shell_history.db"), HistoryFile())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), ConfigFile())
	assert.DirExists(t, dir)
	require.NotEmpty(t, HomeDir())
}
