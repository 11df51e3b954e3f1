package http

import (
	"net/http"

	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/pkg/httpx"
)

type SystemHandler struct {
	Store store.Store
}

func (h *SystemHandler) livez(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteDetail(w, http.StatusOK, "ok")
}

func (h *SystemHandler) readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		httpx.WriteDetail(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	httpx.WriteDetail(w, http.StatusOK, "ok")
}
