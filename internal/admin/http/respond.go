// Package http exposes the administrative API over HTTP. Handlers decode
// requests, delegate to the service layer and translate its sentinel errors
// into status codes with {"detail": ...} bodies.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/pkg/httpx"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

// decode reads a JSON request body into dst. A malformed body is a client
// error, reported inline.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// respondError maps service errors onto HTTP responses. Invitation lookup
// failures deliberately collapse into 400 so callers cannot probe which
// tokens exist.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidRefresh),
		errors.Is(err, service.ErrInvitationNotFound),
		errors.Is(err, service.ErrInvitationInvalid),
		errors.Is(err, service.ErrInvitationUsed),
		errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteDetail(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrForbidden):
		httpx.WriteDetail(w, http.StatusForbidden, "Forbidden")

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		httpx.WriteDetail(w, http.StatusNotFound, err.Error())

	default:
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
	}
}
