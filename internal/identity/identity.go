// Package identity carries the resolved caller of a request.
package identity

import "context"

// Caller is the user on whose behalf a request runs. The zero value is the
// anonymous caller.
type Caller struct {
	// ID is the user identifier; 0 for anonymous callers.
	ID int64
	// Username is the login name of the user, if known.
	Username string
}

// Anonymous is the caller of unauthenticated requests.
var Anonymous = Caller{}

// Authenticated reports whether the caller was resolved to a user.
func (c Caller) Authenticated() bool {
	return c.ID != 0
}

type ctxKey struct{}

// WithCaller returns a copy of ctx carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the caller stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Caller {
	if c, ok := ctx.Value(ctxKey{}).(Caller); ok {
		return c
	}
	return Anonymous
}
