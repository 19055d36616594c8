package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateStockRequest struct {
	Reference string          `json:"reference" validate:"required,min=1,max=50"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
}

// UpdateStockRequest is a partial update; nil fields are left untouched.
type UpdateStockRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gt=0"`
	Quantity  *int             `json:"quantity" validate:"omitempty,gte=0"`
}

type CreateMovementRequest struct {
	StockID         uint            `json:"stock_id" validate:"required"`
	MovementType    string          `json:"movement_type" validate:"required,oneof=purchase sale"`
	Quantity        int             `json:"quantity" validate:"required,gt=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gte=0,lte=100"`
	Date            *time.Time      `json:"date"`
}

// QuickMovementQuery backs the query-string purchase and sale shortcuts.
type QuickMovementQuery struct {
	StockID         uint    `query:"stock_id"`
	Quantity        int     `query:"quantity"`
	DiscountPercent float64 `query:"discount_percent"`
}

// Movement converts the query into a full movement request of the given type.
func (q QuickMovementQuery) Movement(movementType string) CreateMovementRequest {
	return CreateMovementRequest{
		StockID:         q.StockID,
		MovementType:    movementType,
		Quantity:        q.Quantity,
		DiscountPercent: decimal.NewFromFloat(q.DiscountPercent),
	}
}
