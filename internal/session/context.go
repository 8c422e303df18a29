package session

import "context"

type ctxKey struct{}

// ContextWith seeds the request context with the authenticated session.
func ContextWith(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session attached by the auth middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || sess == nil {
		return nil, false
	}
	return sess, true
}

// TokenFromContext returns the upstream bearer token for the request, if any.
// Public catalog calls run without one.
func TokenFromContext(ctx context.Context) (string, bool) {
	sess, ok := FromContext(ctx)
	if !ok || sess.UpstreamToken == "" {
		return "", false
	}
	return sess.UpstreamToken, true
}

// IDFromContext returns the gateway session id for the request.
func IDFromContext(ctx context.Context) (string, bool) {
	sess, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return sess.ID, true
}
