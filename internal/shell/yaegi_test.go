//go:build !taskq_noyaegi

package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYaegiBackend_Registered(t *testing.T) {
	b, ok := DefaultRegistry.Lookup(BackendYaegi)
	require.True(t, ok)
	assert.NoError(t, b.Available(&Env{Stdin: strings.NewReader("")}))
	assert.ErrorIs(t, b.Available(&Env{}), ErrBackendUnavailable)
}

func TestYaegiBackend_RunsREPL(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := &Env{
		Namespace: Namespace{"answer": 41},
		Stdin:     strings.NewReader("fmt.Println(answer + 1)\nnope\n"),
		Stdout:    &stdout,
		Stderr:    &stderr,
	}
	require.NoError(t, yaegiBackend{}.Run(context.Background(), env))
	assert.Contains(t, stdout.String(), "42")
	assert.Contains(t, stderr.String(), "undefined")
}

func TestYaegiBackend_TaskNamedMain(t *testing.T) {
	a := newTestApp(t)
	a.Register("proj.tasks.main", sum)

	var stdout, stderr bytes.Buffer
	env := &Env{
		Namespace: BuildNamespace(a, false),
		Stdin:     strings.NewReader("fmt.Println(app.Name())\n"),
		Stdout:    &stdout,
		Stderr:    &stderr,
	}
	require.NoError(t, yaegiBackend{}.Run(context.Background(), env))
	assert.Contains(t, stdout.String(), "proj")
}
