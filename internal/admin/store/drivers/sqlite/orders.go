package sqlite

import (
	"context"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/shopspring/decimal"
)

type ordersRepo struct {
	db dbtx
}

const orderColumns = `id, product_id, customer_name, quantity, total_price, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	var total string
	err := row.Scan(
		&o.ID, &o.ProductID, &o.CustomerName, &o.Quantity,
		&total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.TotalPrice, err = decimal.NewFromString(total)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *ordersRepo) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, mapNotFound(err)
	}
	return o, nil
}

func (r *ordersRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, product_id, customer_name, quantity, total_price, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ProductID, o.CustomerName, o.Quantity,
		o.TotalPrice.String(), o.Status, now, now,
	)
	return mapConstraint(err)
}

func (r *ordersRepo) UpdateOrder(ctx context.Context, o domain.Order) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET customer_name = ?, quantity = ?, total_price = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		o.CustomerName, o.Quantity, o.TotalPrice.String(), o.Status, time.Now().UTC(), o.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ordersRepo) DeleteOrder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
