package repositories

import (
	"context"
	"elles-app/models"
	"time"

	"gorm.io/gorm"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) WithTx(tx *gorm.DB) *SaleRepository {
	return &SaleRepository{db: tx}
}

func (r *SaleRepository) Create(ctx context.Context, record *models.SaleRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *SaleRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Stock").Order("occurred_at DESC").Order("id DESC")
}

func (r *SaleRepository) List(ctx context.Context, skip, limit int) ([]models.SaleRecord, error) {
	records := []models.SaleRecord{}
	err := r.newestFirst(ctx).Offset(skip).Limit(limit).Find(&records).Error
	return records, err
}

func (r *SaleRepository) Recent(ctx context.Context, n int) ([]models.SaleRecord, error) {
	return r.List(ctx, 0, n)
}

// ListBetween returns sales with start <= date < end, newest first.
func (r *SaleRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error) {
	records := []models.SaleRecord{}
	err := r.newestFirst(ctx).
		Where("occurred_at >= ? AND occurred_at < ?", start.UTC(), end.UTC()).
		Find(&records).Error
	return records, err
}

// ListAll returns every sale in storage order.
func (r *SaleRepository) ListAll(ctx context.Context) ([]models.SaleRecord, error) {
	records := []models.SaleRecord{}
	err := r.db.WithContext(ctx).Preload("Stock").Order("id ASC").Find(&records).Error
	return records, err
}

// ListSince returns sales at or after since in storage order.
func (r *SaleRepository) ListSince(ctx context.Context, since time.Time) ([]models.SaleRecord, error) {
	records := []models.SaleRecord{}
	err := r.db.WithContext(ctx).Where("occurred_at >= ?", since.UTC()).Order("id ASC").Find(&records).Error
	return records, err
}

func (r *SaleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SaleRecord{}).Count(&count).Error
	return count, err
}

func (r *SaleRepository) DetachStock(ctx context.Context, stockID uint) error {
	return r.db.WithContext(ctx).Model(&models.SaleRecord{}).
		Where("stock_id = ?", stockID).
		Update("stock_id", nil).Error
}
