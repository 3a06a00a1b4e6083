package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	manager, err := NewManager(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	return map[string]Store{
		"sqlite": manager,
		"memory": NewMemory(),
	}
}

func TestStores_RecentCommandsNewestFirstAndDistinct(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Record("add.Delay(1, 2)", "rich", false))
			require.NoError(t, s.Record("app", "rich", false))
			require.NoError(t, s.Record("add.Delay(1, 2)", "rich", false))
			require.NoError(t, s.Record("bogus(", "rich", true))

			recent, err := s.RecentCommands(10)
			require.NoError(t, err)
			assert.Equal(t, []string{"bogus(", "add.Delay(1, 2)", "app"}, recent)

			recent, err = s.RecentCommands(2)
			require.NoError(t, err)
			assert.Equal(t, []string{"bogus(", "add.Delay(1, 2)"}, recent)
		})
	}
}

func TestStores_EntriesOldestFirst(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Record("one", "rich", false))
			require.NoError(t, s.Record("two", "plain", true))
			require.NoError(t, s.Record("three", "rich", false))

			entries, err := s.Entries(2)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "two", entries[0].Line)
			assert.Equal(t, "plain", entries[0].Backend)
			assert.True(t, entries[0].Failed)
			assert.Equal(t, "three", entries[1].Line)
		})
	}
}

func TestStores_Reset(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Record("app", "rich", false))
			require.NoError(t, s.Reset())

			entries, err := s.Entries(10)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestManager_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, first.Record("app.Name()", "rich", false))
	require.NoError(t, first.Close())

	second, err := NewManager(path)
	require.NoError(t, err)
	defer second.Close()

	recent, err := second.RecentCommands(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.Name()"}, recent)
}

func TestNewManager_BadPath(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "missing", "dir", "history.db"))
	assert.Error(t, err)
}
