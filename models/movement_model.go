package models

import (
	"elles-app/controllers/idgen"
	"elles-app/types"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movement is one append-only inventory change. StockID becomes nil once the
// item it belonged to is deleted.
type Movement struct {
	ID              types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	StockID         *uint             `json:"stock_id" gorm:"index"`
	Stock           *StockItem        `json:"stock,omitempty" gorm:"foreignKey:StockID;constraint:OnDelete:SET NULL"`
	MovementType    string            `json:"movement_type" gorm:"size:20;index;not null"`
	Quantity        int               `json:"quantity" gorm:"not null"`
	DiscountPercent decimal.Decimal   `json:"discount_percent" gorm:"type:decimal(7,4);not null"`
	Date            time.Time         `json:"date" gorm:"column:occurred_at;index;not null"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (Movement) TableName() string {
	return "movements"
}

func (m *Movement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == 0 {
		m.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
