package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/pkg/idx"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

type OrderService struct {
	Store store.Store
}

type OrderParams struct {
	ProductID    string
	CustomerName string
	Quantity     int64
}

// Create records a new order. The total price is derived from the current
// product price at creation time and does not change with later product
// updates.
func (s *OrderService) Create(ctx context.Context, p OrderParams) (domain.Order, error) {
	if p.ProductID == "" || p.CustomerName == "" {
		return domain.Order{}, ErrMissingFields
	}
	if p.Quantity < 1 {
		return domain.Order{}, ErrInvalidQuantity
	}

	product, err := s.Store.Products().GetProductByID(ctx, p.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrProductNotFound
		}
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:           idx.New().String(),
		ProductID:    product.ID,
		CustomerName: p.CustomerName,
		Quantity:     p.Quantity,
		TotalPrice:   product.Price.Mul(decimal.NewFromInt(p.Quantity)),
		Status:       domain.OrderStatusPending,
	}
	if err := s.Store.Orders().CreateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}

	slogx.FromContext(ctx).Info("order created",
		slog.String("order_id", order.ID),
		slog.String("product_id", order.ProductID),
	)
	return s.Store.Orders().GetOrderByID(ctx, order.ID)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.Store.Orders().ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.Store.Orders().GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	return order, nil
}

type OrderUpdateParams struct {
	CustomerName *string
	Status       *string
}

func (s *OrderService) Update(ctx context.Context, id string, p OrderUpdateParams) (domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if p.CustomerName != nil {
		if *p.CustomerName == "" {
			return domain.Order{}, ErrMissingFields
		}
		order.CustomerName = *p.CustomerName
	}
	if p.Status != nil {
		if *p.Status == "" {
			return domain.Order{}, ErrMissingFields
		}
		order.Status = *p.Status
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.Store.Orders().UpdateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	return s.Get(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Orders().DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("order deleted", slog.String("order_id", id))
	return nil
}
