package repositories

import (
	"context"
	"elles-app/models"
	"time"

	"gorm.io/gorm"
)

type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) WithTx(tx *gorm.DB) *MovementRepository {
	return &MovementRepository{db: tx}
}

func (r *MovementRepository) Create(ctx context.Context, movement *models.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// newestFirst orders by occurrence, falling back to id for equal timestamps.
func (r *MovementRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Stock").Order("occurred_at DESC").Order("id DESC")
}

func (r *MovementRepository) List(ctx context.Context, skip, limit int) ([]models.Movement, error) {
	movements := []models.Movement{}
	err := r.newestFirst(ctx).Offset(skip).Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *MovementRepository) ListByStock(ctx context.Context, stockID uint) ([]models.Movement, error) {
	movements := []models.Movement{}
	err := r.newestFirst(ctx).Where("stock_id = ?", stockID).Find(&movements).Error
	return movements, err
}

func (r *MovementRepository) ListByType(ctx context.Context, movementType string, skip, limit int) ([]models.Movement, error) {
	movements := []models.Movement{}
	err := r.newestFirst(ctx).Where("movement_type = ?", movementType).Offset(skip).Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *MovementRepository) Recent(ctx context.Context, n int) ([]models.Movement, error) {
	return r.List(ctx, 0, n)
}

func (r *MovementRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Movement{}).Where("occurred_at >= ?", since.UTC()).Count(&count).Error
	return count, err
}

// DetachStock clears the item reference on every movement of stockID.
func (r *MovementRepository) DetachStock(ctx context.Context, stockID uint) error {
	return r.db.WithContext(ctx).Model(&models.Movement{}).
		Where("stock_id = ?", stockID).
		Update("stock_id", nil).Error
}
