package http

import (
	"net/http"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/pkg/httpx"
)

// actorFromContext reconstructs the acting principal from the verified
// access token claims. Role parsing failures yield an empty role, which the
// policy table denies everywhere.
func actorFromContext(r *http.Request) domain.User {
	ctx := r.Context()
	role, _ := domain.ParseRole(httpx.RoleFromContext(ctx))
	return domain.User{
		ID:       httpx.UserIDFromContext(ctx),
		Username: httpx.UsernameFromContext(ctx),
		Role:     role,
	}
}
