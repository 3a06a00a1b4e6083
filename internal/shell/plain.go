package shell

import (
	"context"
	"fmt"
)

func printBanner(env *Env) {
	if env.Banner != "" {
		fmt.Fprint(env.Stdout, env.Banner)
	}
}

func init() {
	Register(plainBackend{})
}

// plainBackend is the fallback shell. It has no dependency beyond the
// interpreter and is always available.
type plainBackend struct{}

func (plainBackend) Name() string {
	return BackendPlain
}

func (plainBackend) Available(*Env) error {
	return nil
}

func (plainBackend) Run(ctx context.Context, env *Env) error {
	if fd, ok := terminalFd(env.Stdin); ok {
		if _, ok := terminalFd(env.Stdout); ok {
			env.logger().Debug("plain shell using terminal line discipline")
			printBanner(env)
			return runTerminal(ctx, env, fd, env.prompt())
		}
	}

	sess, err := NewSession(env.Namespace, SessionOptions{
		Stdin:  env.Stdin,
		Stdout: env.Stdout,
		Stderr: env.Stderr,
		Logger: env.logger(),
	})
	if err != nil {
		return err
	}
	printBanner(env)
	return evalLoop(ctx, sess, newPromptReader(env.Stdin, env.Stdout, env.prompt()), env.Stdout, env.Stderr, nil)
}
