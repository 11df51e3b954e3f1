package sqlite

import (
	"context"
	"time"

	"github.com/karyasoft/backoffice/internal/admin/domain"
	"github.com/shopspring/decimal"
)

type productsRepo struct {
	db dbtx
}

const productColumns = `id, name, price, stock, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var p domain.Product
	var price string
	err := row.Scan(&p.ID, &p.Name, &price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *productsRepo) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, mapNotFound(err)
	}
	return p, nil
}

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, price, stock, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Price.String(), p.Stock, p.Active, now, now,
	)
	return mapConstraint(err)
}

func (r *productsRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, stock = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Price.String(), p.Stock, p.Active, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *productsRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
