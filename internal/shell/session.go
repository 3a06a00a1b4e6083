package shell

import (
	"context"
	"fmt"
	"go/token"
	"io"
	"reflect"
	"strconv"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"
)

// nsPackage is the import path under which the namespace is exported to
// the interpreter before each name is bound as a top-level variable.
const nsPackage = "taskq/shellns"

// reservedNames cannot be declared as package-level variables in the
// interpreter's main package.
var reservedNames = map[string]bool{
	"main":    true,
	"shellns": true,
}

// SessionOptions wires interpreter I/O.
type SessionOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// Session is a yaegi interpreter with a Namespace predeclared.
type Session struct {
	interp *interp.Interpreter
	names  []string
}

// NewSession creates an interpreter and binds every valid identifier in ns
// as a variable of the same name. A name the interpreter refuses is logged
// and left out of the session.
func NewSession(ns Namespace, opts SessionOptions) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	i := interp.New(interp.Options{
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}

	names := bindableNames(ns)
	symbols := make(map[string]reflect.Value, len(names))
	for _, name := range names {
		v := ns[name]
		rv := reflect.New(reflect.TypeOf(v)).Elem()
		rv.Set(reflect.ValueOf(v))
		symbols[exportName(name)] = rv
	}
	if err := i.Use(interp.Exports{nsPackage + "/shellns": symbols}); err != nil {
		return nil, fmt.Errorf("failed to export namespace: %w", err)
	}

	var bound []string
	if len(names) > 0 {
		if _, err := i.Eval(`import "` + nsPackage + `"`); err != nil {
			return nil, fmt.Errorf("failed to import namespace: %w", err)
		}
		for _, name := range names {
			if err := bind(i, name); err != nil {
				logger.Warn("failed to bind namespace name", zap.String("name", name), zap.Error(err))
				continue
			}
			bound = append(bound, name)
		}
	}

	// Make every stdlib package usable without an import, as the yaegi
	// command does in REPL mode.
	i.ImportUsed()

	return &Session{interp: i, names: bound}, nil
}

func bind(i *interp.Interpreter, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	_, err = i.Eval(fmt.Sprintf("var %s = shellns.%s", name, exportName(name)))
	return err
}

// Names returns the names bound in the session, sorted.
func (s *Session) Names() []string {
	return append([]string(nil), s.names...)
}

// Interpreter exposes the underlying interpreter.
func (s *Session) Interpreter() *interp.Interpreter {
	return s.interp
}

// Eval evaluates src and returns its formatted result, or "" when the
// statement produced no value.
func (s *Session) Eval(ctx context.Context, src string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	v, err := s.interp.EvalWithContext(ctx, src)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

// Format renders an evaluation result the way the shells print it.
func Format(v reflect.Value) string {
	if !v.IsValid() || !v.CanInterface() {
		return ""
	}
	switch v.Kind() {
	case reflect.Func:
		return ""
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return "nil"
		}
	}
	return fmt.Sprintf("%v", v.Interface())
}

// bindableNames filters ns down to names the interpreter can declare.
func bindableNames(ns Namespace) []string {
	var names []string
	for _, name := range ns.Names() {
		if !token.IsIdentifier(name) || reservedNames[name] || ns[name] == nil {
			continue
		}
		names = append(names, name)
	}
	return names
}

func exportName(name string) string {
	return "V_" + name
}
