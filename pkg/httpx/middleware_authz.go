package httpx

import "net/http"

// PermissionFunc decides whether a role may perform an action on a resource.
// It is supplied by the policy package so httpx stays policy-agnostic.
type PermissionFunc func(role, resource, action string) bool

// RequirePermission enforces the role policy for a single (resource, action)
// pair. It must run after AuthnMiddleware; anonymous requests are denied.
func RequirePermission(allowed PermissionFunc, resource, action string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !allowed(role, resource, action) {
				WriteDetail(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
