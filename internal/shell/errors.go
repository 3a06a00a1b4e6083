package shell

import "errors"

var (
	// ErrBackendUnavailable is wrapped by every backend probe or run failure
	// that means "this interpreter frontend cannot be used here".
	ErrBackendUnavailable = errors.New("shell backend unavailable")

	// ErrStrategyUnavailable is returned by a rich shell strategy that cannot
	// run in the current environment. The next strategy is tried.
	ErrStrategyUnavailable = errors.New("strategy unavailable")

	// ErrNoBackend is returned in auto mode when the registry has nothing
	// that can run.
	ErrNoBackend = errors.New("no shell backend available")
)
