package seed

import (
	"context"
	"elles-app/models"
	"elles-app/services"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gorm.io/gorm"
)

var demoItems = []models.CreateStockRequest{
	{Reference: "ELL-001", Name: "Silk scarf", UnitPrice: decimal.RequireFromString("24.90"), Quantity: 40},
	{Reference: "ELL-002", Name: "Leather handbag", UnitPrice: decimal.RequireFromString("129.00"), Quantity: 12},
	{Reference: "ELL-003", Name: "Cotton dress", UnitPrice: decimal.RequireFromString("59.50"), Quantity: 25},
	{Reference: "ELL-004", Name: "Gold earrings", UnitPrice: decimal.RequireFromString("89.99"), Quantity: 8},
	{Reference: "ELL-005", Name: "Wool coat", UnitPrice: decimal.RequireFromString("219.00"), Quantity: 5},
}

var demoDiscounts = []int64{0, 0, 5, 10, 15, 20}

type Result struct {
	ItemsCreated     int
	MovementsCreated int
}

// SeedDemo creates the demo catalogue when missing, then records random
// movements spread over the last 90 days through the services.
func SeedDemo(ctx context.Context, db *gorm.DB, log *zap.Logger, movements int, seed uint64) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("seed")

	stock := services.NewStockService(db, log)
	movementService := services.NewMovementService(db, log)

	var result Result
	items := make([]*models.StockItem, 0, len(demoItems))

	for _, req := range demoItems {
		existing, err := stock.GetByReference(ctx, req.Reference)
		if err == nil {
			items = append(items, existing)
			continue
		}
		if !errors.Is(err, services.ErrNotFound) {
			return result, err
		}

		item, err := stock.Create(ctx, req)
		if err != nil {
			return result, fmt.Errorf("create %s: %w", req.Reference, err)
		}
		log.Info("insert stock item", zap.String("reference", item.Reference))
		items = append(items, item)
		result.ItemsCreated++
	}

	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	for i := 0; i < movements; i++ {
		item := items[rng.Intn(len(items))]
		date := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)

		req := models.CreateMovementRequest{
			StockID:      item.ID,
			MovementType: models.MovementSale,
			Quantity:     1 + rng.Intn(5),
			Date:         &date,
		}
		if rng.Intn(3) == 0 {
			req.MovementType = models.MovementPurchase
			req.Quantity = 5 + rng.Intn(20)
		} else {
			req.DiscountPercent = decimal.NewFromInt(demoDiscounts[rng.Intn(len(demoDiscounts))])
		}

		_, err := movementService.Record(ctx, req)
		if errors.Is(err, services.ErrInsufficientStock) {
			req.MovementType = models.MovementPurchase
			req.DiscountPercent = decimal.Zero
			_, err = movementService.Record(ctx, req)
		}
		if err != nil {
			return result, fmt.Errorf("record movement: %w", err)
		}
		result.MovementsCreated++
	}

	log.Info("demo data seeded", zap.Int("items", result.ItemsCreated), zap.Int("movements", result.MovementsCreated))
	return result, nil
}
