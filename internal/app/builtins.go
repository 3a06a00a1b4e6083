package app

import (
	"context"
	"fmt"
)

func registerBuiltins(a *App) {
	a.Register(ReservedPrefix+"ping", func(ctx context.Context, args ...any) (any, error) {
		return "pong", nil
	}).Doc = "Reply with pong."

	a.Register(ReservedPrefix+"accumulate", func(ctx context.Context, args ...any) (any, error) {
		return append([]any(nil), args...), nil
	}).Doc = "Return the arguments as a list."

	a.Register(ReservedPrefix+"backend_cleanup", func(ctx context.Context, args ...any) (any, error) {
		return nil, nil
	}).Doc = "Expire stored results. Results are kept in memory, so this is a no-op."

	a.Register(ReservedPrefix+"map", func(ctx context.Context, args ...any) (any, error) {
		t, items, err := mapArgs[any](args)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := t.run(ctx, []any{item})
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}).Doc = "Apply a task to each item."

	a.Register(ReservedPrefix+"starmap", func(ctx context.Context, args ...any) (any, error) {
		t, items, err := mapArgs[[]any](args)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := t.run(ctx, item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}).Doc = "Apply a task to each argument list."
}

func mapArgs[T any](args []any) (*Task, []T, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("expected (task, items), got %d arguments", len(args))
	}
	t, ok := args[0].(*Task)
	if !ok {
		return nil, nil, fmt.Errorf("expected a task, got %T", args[0])
	}
	items, ok := args[1].([]T)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected items type %T", args[1])
	}
	return t, items, nil
}
