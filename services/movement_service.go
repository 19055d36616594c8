package services

import (
	"context"
	"elles-app/models"
	"elles-app/repositories"
	"elles-app/utils"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MovementService struct {
	db        *gorm.DB
	stocks    *repositories.StockRepository
	movements *repositories.MovementRepository
	sales     *repositories.SaleRepository
	log       *zap.Logger

	// Now stamps movements recorded without an explicit date.
	Now func() time.Time
}

func NewMovementService(db *gorm.DB, log *zap.Logger) *MovementService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MovementService{
		db:        db,
		stocks:    repositories.NewStockRepository(db),
		movements: repositories.NewMovementRepository(db),
		sales:     repositories.NewSaleRepository(db),
		log:       log.Named("svc.movement"),
		Now:       time.Now,
	}
}

// Record applies a purchase or sale to its item. The movement, the quantity
// change, the total value and the sale record for a sale are written in one
// transaction; a rejected request leaves everything untouched.
func (s *MovementService) Record(ctx context.Context, req models.CreateMovementRequest) (*models.Movement, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, invalidf("%v", err)
	}
	if req.MovementType == models.MovementPurchase && !req.DiscountPercent.IsZero() {
		return nil, invalidf("discount_percent only applies to sales")
	}

	date := s.Now()
	if req.Date != nil {
		date = *req.Date
	}

	movement := &models.Movement{
		StockID:         &req.StockID,
		MovementType:    req.MovementType,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent.Round(models.MoneyPlaces),
		Date:            date.UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stocks := s.stocks.WithTx(tx)

		item, err := stocks.FindByID(ctx, req.StockID)
		if err != nil {
			return notFound(err, fmt.Sprintf("stock item %d", req.StockID))
		}

		delta := req.Quantity
		if req.MovementType == models.MovementSale {
			if item.Quantity < req.Quantity {
				return insufficient(item.Quantity, req.Quantity)
			}
			delta = -req.Quantity
		}

		affected, err := stocks.AdjustQuantity(ctx, item.ID, delta)
		if err != nil {
			return fmt.Errorf("adjust quantity: %w", err)
		}
		if affected == 0 {
			return insufficient(item.Quantity, req.Quantity)
		}

		item, err = stocks.FindByID(ctx, item.ID)
		if err != nil {
			return err
		}
		item.Recalculate()
		if err := stocks.UpdateTotalValue(ctx, item); err != nil {
			return fmt.Errorf("update total value: %w", err)
		}

		if err := s.movements.WithTx(tx).Create(ctx, movement); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}

		if req.MovementType == models.MovementSale {
			record := &models.SaleRecord{
				StockID:       &item.ID,
				MovementID:    movement.ID,
				ItemReference: item.Reference,
				ItemName:      item.Name,
				Date:          movement.Date,
			}
			record.PriceSale(item.UnitPrice, movement.DiscountPercent, req.Quantity)
			if err := s.sales.WithTx(tx).Create(ctx, record); err != nil {
				return fmt.Errorf("create sale record: %w", err)
			}
		}

		movement.Stock = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("movement recorded",
		zap.String("id", movement.ID.String()),
		zap.String("type", movement.MovementType),
		zap.Uint("stock_id", req.StockID),
		zap.Int("quantity", movement.Quantity),
	)
	return movement, nil
}

func (s *MovementService) List(ctx context.Context, skip, limit int) ([]models.Movement, error) {
	return s.movements.List(ctx, skip, limit)
}

// ListByStock returns every movement of an existing item, newest first.
func (s *MovementService) ListByStock(ctx context.Context, stockID uint) ([]models.Movement, error) {
	if _, err := s.stocks.FindByID(ctx, stockID); err != nil {
		return nil, notFound(err, fmt.Sprintf("stock item %d", stockID))
	}
	return s.movements.ListByStock(ctx, stockID)
}

func (s *MovementService) ListByType(ctx context.Context, movementType string, skip, limit int) ([]models.Movement, error) {
	if !models.IsMovementType(movementType) {
		return nil, invalidf("Movement type must be 'purchase' or 'sale'")
	}
	return s.movements.ListByType(ctx, movementType, skip, limit)
}
