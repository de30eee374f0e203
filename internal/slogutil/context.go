package slogutil

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

type contextAttrs map[string]slog.Attr

type contextAttrsKey struct{}

// With returns a new context carrying the given key-value pairs. Later
// values replace earlier ones with the same key.
func With(ctx context.Context, kvargs ...any) context.Context {
	if len(kvargs) == 0 {
		return ctx
	}

	attrs := cloneAttrs(ctx)

	var r slog.Record
	r.Add(kvargs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a
		return true
	})

	return context.WithValue(ctx, contextAttrsKey{}, attrs)
}

// Attrs returns the attributes stored in ctx, sorted by key.
func Attrs(ctx context.Context) []slog.Attr {
	attrs, ok := ctx.Value(contextAttrsKey{}).(contextAttrs)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, attrs[k])
	}

	return out
}

func cloneAttrs(ctx context.Context) contextAttrs {
	attrs, ok := ctx.Value(contextAttrsKey{}).(contextAttrs)
	if !ok {
		return contextAttrs{}
	}

	return maps.Clone(attrs)
}

type contextAttrsHook struct{}

func (contextAttrsHook) Run(ctx context.Context, r *slog.Record) {
	r.AddAttrs(Attrs(ctx)...)
}
