package auth

import "context"

// Unexported struct key so no other package can collide with or spoof the
// authenticated subject.
type subjectKey struct{}

// WithSubject records the authenticated user id on the context. Set by
// JWTMiddleware and OptionalJWT only.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the authenticated user id, or "" for an
// anonymous request.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
