package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinylittleshell/taskq/internal/bash"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrModuleNotFound is returned when a module is not on the search path.
var ErrModuleNotFound = errors.New("module not found")

// manifestExts are tried in order for each search path entry.
var manifestExts = []string{".yaml", ".yml"}

// Manifest is the on-disk form of a task module.
type Manifest struct {
	Tasks []TaskSpec `yaml:"tasks"`
}

// TaskSpec declares one task. Run is a bash script; task arguments become
// its positional parameters and trimmed stdout is the result.
type TaskSpec struct {
	Name string            `yaml:"name"`
	Doc  string            `yaml:"doc"`
	Run  string            `yaml:"run"`
	Env  map[string]string `yaml:"env"`
}

// Loader resolves dotted module names to manifests on a search path and
// registers their tasks with the app. A Loader is cheap to copy; derived
// loaders share the app and its record of imported modules.
type Loader struct {
	app        *App
	imports    []string
	searchPath []string
	logger     *zap.Logger
}

// WithSearchPath returns a loader whose search path is dirs followed by
// the receiver's path. The receiver is not modified.
func (l *Loader) WithSearchPath(dirs ...string) *Loader {
	clone := *l
	clone.searchPath = lo.Uniq(append(append([]string(nil), dirs...), l.searchPath...))
	return &clone
}

// SearchPath returns the directories searched for modules, in order.
func (l *Loader) SearchPath() []string {
	return append([]string(nil), l.searchPath...)
}

// Imports returns the configured default modules.
func (l *Loader) Imports() []string {
	return append([]string(nil), l.imports...)
}

// ImportDefaultModules imports every configured module. Modules that were
// already imported are skipped.
func (l *Loader) ImportDefaultModules(ctx context.Context) error {
	for _, module := range l.imports {
		if err := l.ImportModule(ctx, module); err != nil {
			return err
		}
	}
	return nil
}

// ImportModule resolves and registers a single module.
func (l *Loader) ImportModule(ctx context.Context, module string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := l.resolve(module)
	if err != nil {
		return err
	}

	if l.app.isImported(module) {
		l.logger.Debug("module already imported", zap.String("module", module))
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read module %s: %w", module, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return fmt.Errorf("failed to parse module %s: %w", module, err)
	}

	dir := filepath.Dir(path)
	for _, spec := range manifest.Tasks {
		if spec.Name == "" {
			return fmt.Errorf("module %s: task without a name", module)
		}
		if spec.Run == "" {
			return fmt.Errorf("module %s: task %s has no run script", module, spec.Name)
		}
		t := l.app.Register(module+"."+spec.Name, scriptTask(module+"."+spec.Name, spec, dir))
		t.Doc = spec.Doc
	}
	l.app.markImported(module, path)

	l.logger.Debug("module imported",
		zap.String("module", module),
		zap.String("path", path),
		zap.Int("tasks", len(manifest.Tasks)))
	return nil
}

func (l *Loader) resolve(module string) (string, error) {
	rel := filepath.Join(strings.Split(module, ".")...)
	for _, dir := range l.searchPath {
		for _, ext := range manifestExts {
			candidate := filepath.Join(dir, rel+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrModuleNotFound, module, strings.Join(l.searchPath, string(os.PathListSeparator)))
}

func scriptTask(name string, spec TaskSpec, dir string) Func {
	env := lo.MapToSlice(spec.Env, func(k string, v string) string {
		return k + "=" + v
	})
	return func(ctx context.Context, args ...any) (any, error) {
		strArgs := lo.Map(args, func(arg any, _ int) string {
			return fmt.Sprint(arg)
		})
		stdout, stderr, exitCode, err := bash.RunScript(ctx, spec.Run, bash.ScriptOptions{
			Name: name,
			Dir:  dir,
			Args: strArgs,
			Env:  env,
		})
		if err != nil {
			return nil, err
		}
		if exitCode != 0 {
			return nil, fmt.Errorf("task %s exited with status %d: %s", name, exitCode, strings.TrimSpace(stderr))
		}
		return strings.TrimSpace(stdout), nil
	}
}
