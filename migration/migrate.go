package migration

import (
	"elles-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.StockItem{},
		&models.Movement{},
		&models.SaleRecord{},
	)
}
