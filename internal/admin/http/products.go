package http

import (
	"net/http"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/pkg/httpx"
)

type ProductHandler struct {
	Products *service.ProductService
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int64     `json:"stock"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.String(),
		Stock:     p.Stock,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type createProductRequest struct {
	Name   string `json:"name"`
	Price  string `json:"price"`
	Stock  int64  `json:"stock"`
	Active *bool  `json:"active"`
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decode(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	product, err := h.Products.Create(r.Context(), service.ProductParams{
		Name:   req.Name,
		Price:  req.Price,
		Stock:  req.Stock,
		Active: active,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	product, err := h.Products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

type updateProductRequest struct {
	Name   *string `json:"name"`
	Price  *string `json:"price"`
	Stock  *int64  `json:"stock"`
	Active *bool   `json:"active"`
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if !decode(w, r, &req) {
		return
	}

	product, err := h.Products.Update(r.Context(), r.PathValue("id"), service.ProductUpdateParams{
		Name:   req.Name,
		Price:  req.Price,
		Stock:  req.Stock,
		Active: req.Active,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Products.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
