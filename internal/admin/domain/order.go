package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "Pending"

type Order struct {
	ID           string
	ProductID    string
	CustomerName string
	Quantity     int64
	TotalPrice   decimal.Decimal // computed server-side: product price x quantity
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
