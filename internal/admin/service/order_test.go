package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/internal/admin/store"
)

func seedProduct(t *testing.T, st store.Store, name, price string, stock int64) domain.Product {
	t.Helper()

	svc := &service.ProductService{Store: st}
	product, err := svc.Create(context.Background(), service.ProductParams{
		Name:   name,
		Price:  price,
		Stock:  stock,
		Active: true,
	})
	require.NoError(t, err)
	return product
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.ProductService{Store: st}

	product := seedProduct(t, st, "Espresso", "3.50", 100)
	assert.Equal(t, "3.5", product.Price.String())

	name := "Doppio"
	price := "4.20"
	updated, err := svc.Update(ctx, product.ID, service.ProductUpdateParams{
		Name:  &name,
		Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Doppio", updated.Name)
	assert.Equal(t, "4.2", updated.Price.String())
	assert.Equal(t, int64(100), updated.Stock)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, product.ID))
	_, err = svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProductValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.ProductService{Store: st}

	_, err := svc.Create(ctx, service.ProductParams{Name: "", Price: "1.00"})
	assert.ErrorIs(t, err, service.ErrMissingFields)

	_, err = svc.Create(ctx, service.ProductParams{Name: "Bad", Price: "not a number"})
	assert.ErrorIs(t, err, service.ErrInvalidPrice)

	_, err = svc.Create(ctx, service.ProductParams{Name: "Bad", Price: "-1.00"})
	assert.ErrorIs(t, err, service.ErrInvalidPrice)

	_, err = svc.Create(ctx, service.ProductParams{Name: "Bad", Price: "1.00", Stock: -1})
	assert.ErrorIs(t, err, service.ErrInvalidStock)
}

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.OrderService{Store: st}

	product := seedProduct(t, st, "Espresso", "3.50", 100)

	order, err := svc.Create(ctx, service.OrderParams{
		ProductID:    product.ID,
		CustomerName: "Dana",
		Quantity:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.5", order.TotalPrice.String())
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	// A later price change does not reprice existing orders.
	price := "99.00"
	_, err = (&service.ProductService{Store: st}).Update(ctx, product.ID, service.ProductUpdateParams{Price: &price})
	require.NoError(t, err)

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.5", got.TotalPrice.String())
}

func TestOrderValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.OrderService{Store: st}

	product := seedProduct(t, st, "Espresso", "3.50", 100)

	_, err := svc.Create(ctx, service.OrderParams{ProductID: product.ID, CustomerName: "Dana", Quantity: 0})
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	_, err = svc.Create(ctx, service.OrderParams{ProductID: "", CustomerName: "Dana", Quantity: 1})
	assert.ErrorIs(t, err, service.ErrMissingFields)

	_, err = svc.Create(ctx, service.OrderParams{
		ProductID:    "01XXXXXXXXXXXXXXXXXXXXXXXX",
		CustomerName: "Dana",
		Quantity:     1,
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestOrderUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &service.OrderService{Store: st}

	product := seedProduct(t, st, "Espresso", "3.50", 100)
	order, err := svc.Create(ctx, service.OrderParams{
		ProductID:    product.ID,
		CustomerName: "Dana",
		Quantity:     1,
	})
	require.NoError(t, err)

	status := "Shipped"
	updated, err := svc.Update(ctx, order.ID, service.OrderUpdateParams{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Shipped", updated.Status)
	assert.Equal(t, "Dana", updated.CustomerName)

	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err = svc.Get(ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}
