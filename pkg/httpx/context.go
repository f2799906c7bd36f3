package httpx

import "context"

type ctxKey string

// CtxKeyIdentity carries the authenticated identity through the request
// context, set by AuthnMiddleware and read by protected handlers.
const CtxKeyIdentity ctxKey = "identity"

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UserID   string
	Username string
}

// IdentityFromContext returns the authenticated identity, or false when the
// request did not pass through AuthnMiddleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(Identity)
	return id, ok
}
