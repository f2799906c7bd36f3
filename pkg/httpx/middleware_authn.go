package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/webloom/blog/pkg/slogx"
)

// Authenticate resolves a raw bearer token to an identity. Implementations
// validate the token and confirm the account still exists; any failure must
// surface as a single generic error.
type Authenticate func(ctx context.Context, token string) (Identity, error)

// AuthnMiddleware guards mutating endpoints. It extracts the bearer token
// from the Authorization header, resolves it, and injects the identity into
// the request context. Every failure is the same 401 with a bearer challenge;
// the reason is logged server-side only.
func AuthnMiddleware(authenticate Authenticate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			identity, err := authenticate(ctx, raw)
			if err != nil {
				log.Warn("bearer authentication failed", "err", err)
				writeBearerError(w)
				return
			}

			ctx = context.WithValue(ctx, CtxKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 bearer challenge. Deliberately does not say which check failed.
func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": "could not validate credentials",
	})
}
