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
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidStock    = errors.New("invalid stock")
)

type ProductService struct {
	Store store.Store
}

type ProductParams struct {
	Name   string
	Price  string
	Stock  int64
	Active bool
}

func (s *ProductService) Create(ctx context.Context, p ProductParams) (domain.Product, error) {
	if p.Name == "" {
		return domain.Product{}, ErrMissingFields
	}
	price, err := parsePrice(p.Price)
	if err != nil {
		return domain.Product{}, err
	}
	if p.Stock < 0 {
		return domain.Product{}, ErrInvalidStock
	}

	product := domain.Product{
		ID:     idx.New().String(),
		Name:   p.Name,
		Price:  price,
		Stock:  p.Stock,
		Active: p.Active,
	}
	if err := s.Store.Products().CreateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}

	slogx.FromContext(ctx).Info("product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return s.Store.Products().GetProductByID(ctx, product.ID)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.Store.Products().GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return product, nil
}

type ProductUpdateParams struct {
	Name   *string
	Price  *string
	Stock  *int64
	Active *bool
}

func (s *ProductService) Update(ctx context.Context, id string, p ProductUpdateParams) (domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if p.Name != nil {
		if *p.Name == "" {
			return domain.Product{}, ErrMissingFields
		}
		product.Name = *p.Name
	}
	if p.Price != nil {
		price, err := parsePrice(*p.Price)
		if err != nil {
			return domain.Product{}, err
		}
		product.Price = price
	}
	if p.Stock != nil {
		if *p.Stock < 0 {
			return domain.Product{}, ErrInvalidStock
		}
		product.Stock = *p.Stock
	}
	if p.Active != nil {
		product.Active = *p.Active
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.Store.Products().UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return s.Get(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Products().DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("product deleted", slog.String("product_id", id))
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return price, nil
}
