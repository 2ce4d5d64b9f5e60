package cache

import "context"

type bypassContextKey struct{}

// WithBypass marks ctx so reads skip cache lookups. Fetched values are still
// written back.
func WithBypass(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, bypassContextKey{}, true)
}

// Bypassed reports whether WithBypass was applied to ctx.
func Bypassed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(bypassContextKey{}).(bool)
	return v
}
