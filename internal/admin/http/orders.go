package http

import (
	"net/http"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/pkg/httpx"
)

type OrderHandler struct {
	Orders *service.OrderService
}

type orderResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	CustomerName string    `json:"customer_name"`
	Quantity     int64     `json:"quantity"`
	TotalPrice   string    `json:"total_price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:           o.ID,
		ProductID:    o.ProductID,
		CustomerName: o.CustomerName,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice.String(),
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

type createOrderRequest struct {
	ProductID    string `json:"product_id"`
	CustomerName string `json:"customer_name"`
	Quantity     int64  `json:"quantity"`
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decode(w, r, &req) {
		return
	}

	order, err := h.Orders.Create(r.Context(), service.OrderParams{
		ProductID:    req.ProductID,
		CustomerName: req.CustomerName,
		Quantity:     req.Quantity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateOrderRequest struct {
	CustomerName *string `json:"customer_name"`
	Status       *string `json:"status"`
}

func (h *OrderHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if !decode(w, r, &req) {
		return
	}

	order, err := h.Orders.Update(r.Context(), r.PathValue("id"), service.OrderUpdateParams{
		CustomerName: req.CustomerName,
		Status:       req.Status,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
