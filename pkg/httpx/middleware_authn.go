package httpx

import (
	"net/http"
	"strings"

	"github.com/karyasoft/backoffice/pkg/jwtx"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (jwtx.Claims, error)
}

// AuthnMiddleware authenticates requests carrying a Bearer access token and
// injects the principal into the request context. Requests without a valid
// token are rejected with 401.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "authentication required")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

// RFC 6750-style 401 with the API's {"detail": ...} body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteDetail(w, http.StatusUnauthorized, desc)
}
