package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Reference  string          `json:"reference" gorm:"size:50;uniqueIndex;not null"`
	Name       string          `json:"name" gorm:"size:200;not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,4);not null"`
	TotalValue decimal.Decimal `json:"total_value" gorm:"type:decimal(18,4);not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (StockItem) TableName() string {
	return "stock_items"
}

// Recalculate refreshes TotalValue from Quantity and UnitPrice.
func (s *StockItem) Recalculate() {
	s.TotalValue = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))).Round(MoneyPlaces)
}
