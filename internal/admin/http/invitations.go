package http

import (
	"net/http"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/pkg/httpx"
)

type InvitationHandler struct {
	Invitations *service.InvitationService
}

type invitationResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	InviterID string     `json:"inviter_id,omitempty"`
	Used      bool       `json:"used"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Token is only present on creation; afterwards only its fingerprint
	// exists server-side.
	Token string `json:"token,omitempty"`
}

func toInvitationResponse(inv domain.Invitation, token string) invitationResponse {
	return invitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role.String(),
		InviterID: inv.InviterID,
		Used:      inv.Used,
		CreatedAt: inv.CreatedAt,
		ExpiresAt: inv.ExpiresAt,
		Token:     token,
	}
}

type createInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *InvitationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if !decode(w, r, &req) {
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid role")
		return
	}

	inv, token, err := h.Invitations.Create(r.Context(), actorFromContext(r), req.Email, role)
	if err != nil {
		respondError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInvitationResponse(inv, token))
}

func (h *InvitationHandler) list(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Invitations.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]invitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvitationResponse(inv, ""))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *InvitationHandler) get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Invitations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv, ""))
}

type acceptRequest struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *InvitationHandler) accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if !decode(w, r, &req) {
		return
	}

	_, err := h.Invitations.Accept(r.Context(), req.Token, req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, r, err)
		return
	}

	httpx.WriteDetail(w, http.StatusCreated, "account created")
}

func (h *InvitationHandler) revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.Invitations.Revoke(r.Context(), actorFromContext(r), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteDetail(w, http.StatusOK, "invitation revoked")
}
