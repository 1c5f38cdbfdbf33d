package middleware

import (
	"context"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// principalKey is the key used to store the authenticated principal in the
// request context.
const principalKey = contextKey("principal")

// GetPrincipalFromCtx retrieves the authenticated principal from the
// context. It returns the principal and a boolean indicating if it was
// found.
func GetPrincipalFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal. Exposed for
// tests and internal jobs that act on behalf of a system identity.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
