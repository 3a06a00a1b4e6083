package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/atinylittleshell/taskq/internal/core"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TASKQ_"

// LocalConfigFile is looked up in the working directory, then
// LocalTOMLConfigFile.
const (
	LocalConfigFile     = "taskq.yaml"
	LocalTOMLConfigFile = "taskq.toml"
)

// Loader reads configuration files and applies environment overrides.
type Loader struct {
	logger *zap.Logger

	// environ replaces the process environment when set (tests).
	environ map[string]string
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
	}
}

// WithEnviron makes the loader read overrides from the given map instead of
// the process environment.
func (l *Loader) WithEnviron(environ map[string]string) *Loader {
	clone := *l
	clone.environ = environ
	return &clone
}

// Load resolves the configuration file and loads it. An explicit path must
// exist; otherwise ./taskq.yaml and then ~/.taskq/config.yaml are tried, and
// if neither exists the defaults are used.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return l.LoadFromFile(explicitPath)
	}

	candidates := []string{LocalConfigFile, LocalTOMLConfigFile, core.ConfigFile()}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return l.LoadFromFile(candidate)
		}
	}

	l.logger.Debug("no config file found, using defaults", zap.Strings("candidates", candidates))
	return l.LoadFromBytes(nil, "")
}

// LoadFromFile loads configuration from a YAML file, or a TOML file when
// the name ends in .toml. If the file doesn't exist, returns the default
// configuration.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.LoadFromBytes(nil, "")
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return l.LoadFromTOML(content, filepath.Dir(abs))
	}
	return l.LoadFromBytes(content, filepath.Dir(abs))
}

// LoadFromBytes parses YAML content on top of the defaults. Relative include
// directories are resolved against baseDir when it is set.
func (l *Loader) LoadFromBytes(content []byte, baseDir string) (*Config, error) {
	return l.load(content, baseDir, yaml.Unmarshal)
}

// LoadFromTOML is LoadFromBytes for TOML content.
func (l *Loader) LoadFromTOML(content []byte, baseDir string) (*Config, error) {
	return l.load(content, baseDir, toml.Unmarshal)
}

func (l *Loader) load(content []byte, baseDir string, unmarshal func([]byte, any) error) (*Config, error) {
	cfg := DefaultConfig()

	if len(content) > 0 {
		if err := unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if l.environ != nil {
		opts.Environment = l.environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	if baseDir != "" {
		for i, dir := range cfg.Include {
			if !filepath.IsAbs(dir) {
				cfg.Include[i] = filepath.Join(baseDir, dir)
			}
		}
	}

	if cfg.Shell.History == "" {
		cfg.Shell.History = core.HistoryFile()
	}
	if cfg.LogFile == "" {
		cfg.LogFile = core.LogFile()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l.logger.Debug("config loaded",
		zap.String("app", cfg.App),
		zap.Strings("imports", cfg.Imports),
		zap.Strings("include", cfg.Include))

	return cfg, nil
}
