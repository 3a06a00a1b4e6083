package bash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ScriptOptions configures a single script run.
type ScriptOptions struct {
	// Name is used in parse error messages.
	Name string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Args become the positional parameters $1..$n.
	Args []string
	// Env is appended to the process environment.
	Env []string
}

// RunScript parses and runs a bash script in a fresh runner and captures
// stdout/stderr. A non-zero exit code is NOT treated as an error; check the
// exit code separately.
func RunScript(ctx context.Context, script string, opts ScriptOptions) (string, string, int, error) {
	name := opts.Name
	if name == "" {
		name = "taskq"
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return "", "", 1, fmt.Errorf("failed to parse bash script: %w", err)
	}

	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}

	runnerOpts := []interp.RunnerOption{
		interp.StdIO(nil, outBuf, errBuf),
		interp.Env(expand.ListEnviron(append(os.Environ(), opts.Env...)...)),
		interp.Params(append([]string{"--"}, opts.Args...)...),
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return "", "", 1, fmt.Errorf("failed to create bash runner: %w", err)
	}

	err = runner.Run(ctx, prog)

	exitCode := 0
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			exitCode = int(exitStatus)
			return outBuf.String(), errBuf.String(), exitCode, nil
		}
		return outBuf.String(), errBuf.String(), 1, err
	}

	return outBuf.String(), errBuf.String(), exitCode, nil
}

type threadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}
