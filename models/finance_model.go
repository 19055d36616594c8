package models

import (
	"elles-app/controllers/idgen"
	"elles-app/types"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRecord is written exactly once per sale movement and never updated.
// ItemReference and ItemName keep the item's identity after it is deleted.
type SaleRecord struct {
	ID                 types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	StockID            *uint             `json:"stock_id" gorm:"index"`
	Stock              *StockItem        `json:"stock,omitempty" gorm:"foreignKey:StockID;constraint:OnDelete:SET NULL"`
	MovementID         types.SnowflakeID `json:"movement_id" gorm:"uniqueIndex;not null"`
	ItemReference      string            `json:"item_reference" gorm:"size:50"`
	ItemName           string            `json:"item_name" gorm:"size:200"`
	QuantitySold       int               `json:"quantity_sold" gorm:"not null"`
	UnitPrice          decimal.Decimal   `json:"unit_price" gorm:"type:decimal(18,4);not null"`
	DiscountPercent    decimal.Decimal   `json:"discount_percent" gorm:"type:decimal(7,4);not null"`
	PriceAfterDiscount decimal.Decimal   `json:"price_after_discount" gorm:"type:decimal(18,4);not null"`
	TotalRevenue       decimal.Decimal   `json:"total_revenue" gorm:"type:decimal(18,4);not null"`
	Date               time.Time         `json:"date" gorm:"column:occurred_at;index;not null"`
	CreatedAt          time.Time         `json:"created_at"`
}

func (SaleRecord) TableName() string {
	return "sale_records"
}

func (s *SaleRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == 0 {
		s.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// PriceSale fills the pricing fields from a unit price, a discount in
// percent and a quantity.
func (s *SaleRecord) PriceSale(unitPrice, discountPercent decimal.Decimal, quantity int) {
	s.UnitPrice = unitPrice
	s.DiscountPercent = discountPercent
	s.QuantitySold = quantity
	s.PriceAfterDiscount = unitPrice.Mul(hundred.Sub(discountPercent)).Div(hundred).Round(MoneyPlaces)
	s.TotalRevenue = s.PriceAfterDiscount.Mul(decimal.NewFromInt(int64(quantity))).Round(MoneyPlaces)
}
