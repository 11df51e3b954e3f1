package http

import (
	"net/http"

	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/pkg/httpx"
)

type AuthHandler struct {
	Tokens *service.TokenService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access      string `json:"access"`
	Refresh     string `json:"refresh"`
	ExpiresIn   int64  `json:"expires_in"`
	Profile     string `json:"profile"`
	Permissions string `json:"permissions"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.Tokens.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Access:      res.AccessToken,
		Refresh:     res.RefreshToken,
		ExpiresIn:   res.ExpiresIn,
		Profile:     res.Profile,
		Permissions: res.Permissions,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.Tokens.Refresh(r.Context(), req.Refresh)
	if err != nil {
		respondError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.Tokens.Logout(r.Context(), req.Refresh); err != nil {
		respondError(w, r, err)
		return
	}

	// 205 tells the client to reset its view; no body is allowed.
	w.WriteHeader(http.StatusResetContent)
}
