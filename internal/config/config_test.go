package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "taskq", cfg.App)
	assert.Equal(t, "solo", cfg.Pool)
	assert.Equal(t, ">>> ", cfg.Shell.Prompt)
	assert.True(t, cfg.Shell.ShowBanner())
	assert.Empty(t, cfg.Imports)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Level(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	cfg.LogLevel = "chatty"
	_, err = cfg.Level()
	assert.Error(t, err)
}

func TestConfig_ValidateRejectsEmptyApp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App = ""
	assert.Error(t, cfg.Validate())
}

func TestShellConfig_ShowBanner(t *testing.T) {
	off := false
	assert.False(t, ShellConfig{Banner: &off}.ShowBanner())
	assert.True(t, ShellConfig{}.ShowBanner())
}
