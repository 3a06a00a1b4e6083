//go:build !taskq_noyaegi

package shell

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

func init() {
	Register(yaegiBackend{})
}

// yaegiBackend hands the session to the interpreter's own REPL.
type yaegiBackend struct{}

func (yaegiBackend) Name() string {
	return BackendYaegi
}

func (yaegiBackend) Available(env *Env) error {
	if env.Stdin == nil {
		return unavailable(BackendYaegi, "no input stream")
	}
	return nil
}

func (yaegiBackend) Run(_ context.Context, env *Env) error {
	sess, err := NewSession(env.Namespace, SessionOptions{
		Stdin:  env.Stdin,
		Stdout: env.Stdout,
		Stderr: env.Stderr,
		Logger: env.logger(),
	})
	if err != nil {
		return fmt.Errorf("failed to start yaegi session: %w", err)
	}
	// REPL returns the error of the last evaluated line, which it has
	// already printed.
	if _, err := sess.Interpreter().REPL(); err != nil {
		env.logger().Debug("yaegi repl ended", zap.Error(err))
	}
	return nil
}
