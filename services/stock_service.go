package services

import (
	"context"
	"elles-app/models"
	"elles-app/repositories"
	"elles-app/utils"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StockService struct {
	db        *gorm.DB
	stocks    *repositories.StockRepository
	movements *repositories.MovementRepository
	sales     *repositories.SaleRepository
	log       *zap.Logger
}

func NewStockService(db *gorm.DB, log *zap.Logger) *StockService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StockService{
		db:        db,
		stocks:    repositories.NewStockRepository(db),
		movements: repositories.NewMovementRepository(db),
		sales:     repositories.NewSaleRepository(db),
		log:       log.Named("svc.stock"),
	}
}

func (s *StockService) Create(ctx context.Context, req models.CreateStockRequest) (*models.StockItem, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, invalidf("%v", err)
	}

	exists, err := s.stocks.ReferenceExists(ctx, req.Reference)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, req.Reference)
	}

	item := &models.StockItem{
		Reference: req.Reference,
		Name:      req.Name,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice.Round(models.MoneyPlaces),
	}
	item.Recalculate()

	if err := s.stocks.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, req.Reference)
		}
		return nil, err
	}

	s.log.Info("stock item created", zap.Uint("id", item.ID), zap.String("reference", item.Reference))
	return item, nil
}

func (s *StockService) Get(ctx context.Context, id uint) (*models.StockItem, error) {
	item, err := s.stocks.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("stock item %d", id))
	}
	return item, nil
}

func (s *StockService) GetByReference(ctx context.Context, reference string) (*models.StockItem, error) {
	item, err := s.stocks.FindByReference(ctx, reference)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("stock item %q", reference))
	}
	return item, nil
}

func (s *StockService) List(ctx context.Context, skip, limit int) ([]models.StockItem, error) {
	return s.stocks.List(ctx, skip, limit)
}

func (s *StockService) ListAll(ctx context.Context) ([]models.StockItem, error) {
	return s.stocks.ListAll(ctx)
}

// Update applies the non-nil fields of req and recomputes the total value.
func (s *StockService) Update(ctx context.Context, id uint, req models.UpdateStockRequest) (*models.StockItem, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, invalidf("%v", err)
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.UnitPrice != nil {
		item.UnitPrice = req.UnitPrice.Round(models.MoneyPlaces)
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	item.Recalculate()

	if err := s.stocks.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item. Its movements and sale records stay in place
// with their item reference cleared.
func (s *StockService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stocks := s.stocks.WithTx(tx)
		if _, err := stocks.FindByID(ctx, id); err != nil {
			return notFound(err, fmt.Sprintf("stock item %d", id))
		}
		if err := s.movements.WithTx(tx).DetachStock(ctx, id); err != nil {
			return fmt.Errorf("detach movements: %w", err)
		}
		if err := s.sales.WithTx(tx).DetachStock(ctx, id); err != nil {
			return fmt.Errorf("detach sale records: %w", err)
		}
		_, err := stocks.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info("stock item deleted", zap.Uint("id", id))
	return nil
}

// LowStock returns items with quantity strictly below threshold.
func (s *StockService) LowStock(ctx context.Context, threshold int) ([]models.StockItem, error) {
	if threshold < 1 {
		return nil, invalidf("threshold must be at least 1")
	}
	return s.stocks.ListBelow(ctx, threshold)
}
