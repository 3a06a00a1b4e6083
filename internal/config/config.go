// Package config provides configuration management for taskq.
// Configuration is read from a YAML file and then overridden by TASKQ_*
// environment variables.
package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds the application and shell configuration.
type Config struct {
	// App is the application name shown in the shell banner and task reprs.
	App string `yaml:"app" toml:"app" env:"APP"`

	// Imports lists the task modules loaded by ImportDefaultModules,
	// in dotted form ("proj.tasks" resolves to proj/tasks.yaml).
	Imports []string `yaml:"imports" toml:"imports" env:"IMPORTS" envSeparator:","`

	// Include lists extra directories searched for task modules.
	Include []string `yaml:"include" toml:"include" env:"INCLUDE" envSeparator:":"`

	// Pool is the execution pool used by Task.Delay unless another pool
	// has been activated.
	Pool string `yaml:"pool" toml:"pool" env:"POOL"`

	LogLevel string `yaml:"log_level" toml:"log_level" env:"LOG_LEVEL"`
	LogFile  string `yaml:"log_file" toml:"log_file" env:"LOG_FILE"`

	Shell ShellConfig `yaml:"shell" toml:"shell" envPrefix:"SHELL_"`
}

// ShellConfig holds settings for the interactive shell.
type ShellConfig struct {
	Prompt string `yaml:"prompt" toml:"prompt" env:"PROMPT"`

	// History is the sqlite file used by the rich shell. "off" disables
	// persistent history.
	History string `yaml:"history" toml:"history" env:"HISTORY"`

	// Banner toggles the namespace listing printed on startup.
	Banner *bool `yaml:"banner" toml:"banner" env:"BANNER"`
}

// HistoryDisabled is the History value that turns persistence off.
const HistoryDisabled = "off"

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		App:      "taskq",
		Imports:  []string{},
		Include:  []string{},
		Pool:     "solo",
		LogLevel: "info",
		Shell: ShellConfig{
			Prompt: ">>> ",
		},
	}
}

// ShowBanner reports whether the startup banner is enabled.
func (c ShellConfig) ShowBanner() bool {
	return c.Banner == nil || *c.Banner
}

// Level parses LogLevel into a zap level.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Validate checks fields that cannot be defaulted.
func (c *Config) Validate() error {
	if c.App == "" {
		return fmt.Errorf("app name must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}
