package session

import "context"

type contextKey struct{}

type contextValue struct {
	id      string
	session *Session
}

// NewContext returns a copy of ctx carrying the browser's session id and
// hydrated session.
func NewContext(ctx context.Context, id string, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, contextValue{id: id, session: sess})
}

// FromContext returns the session stored in ctx, or the anonymous session.
func FromContext(ctx context.Context) *Session {
	if v, ok := ctx.Value(contextKey{}).(contextValue); ok && v.session != nil {
		return v.session
	}
	return Anonymous()
}

// IDFromContext returns the session id stored in ctx.
func IDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(contextValue); ok {
		return v.id
	}
	return ""
}
