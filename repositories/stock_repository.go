package repositories

import (
	"context"
	"elles-app/models"

	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *StockRepository) WithTx(tx *gorm.DB) *StockRepository {
	return &StockRepository{db: tx}
}

func (r *StockRepository) Create(ctx context.Context, item *models.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *StockRepository) FindByID(ctx context.Context, id uint) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *StockRepository) FindByReference(ctx context.Context, reference string) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *StockRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockItem{}).Where("reference = ?", reference).Count(&count).Error
	return count > 0, err
}

func (r *StockRepository) List(ctx context.Context, skip, limit int) ([]models.StockItem, error) {
	items := []models.StockItem{}
	err := r.db.WithContext(ctx).Order("id ASC").Offset(skip).Limit(limit).Find(&items).Error
	return items, err
}

func (r *StockRepository) ListAll(ctx context.Context) ([]models.StockItem, error) {
	items := []models.StockItem{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

// ListBelow returns items whose quantity is strictly below threshold.
func (r *StockRepository) ListBelow(ctx context.Context, threshold int) ([]models.StockItem, error) {
	items := []models.StockItem{}
	err := r.db.WithContext(ctx).Where("quantity < ?", threshold).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *StockRepository) CountBelow(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockItem{}).Where("quantity < ?", threshold).Count(&count).Error
	return count, err
}

// ListByValueDesc returns items holding any value, most valuable first.
func (r *StockRepository) ListByValueDesc(ctx context.Context) ([]models.StockItem, error) {
	items := []models.StockItem{}
	err := r.db.WithContext(ctx).
		Where("total_value > ?", 0).
		Order("total_value DESC").Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *StockRepository) Save(ctx context.Context, item *models.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// AdjustQuantity adds delta to the item's quantity. A negative delta only
// applies while enough stock remains, so zero rows affected means the item
// is missing or would go negative.
func (r *StockRepository) AdjustQuantity(ctx context.Context, id uint, delta int) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItem{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("quantity >= ?", -delta)
	}
	result := query.Update("quantity", gorm.Expr("quantity + ?", delta))
	return result.RowsAffected, result.Error
}

func (r *StockRepository) UpdateTotalValue(ctx context.Context, item *models.StockItem) error {
	return r.db.WithContext(ctx).Model(item).Update("total_value", item.TotalValue).Error
}

func (r *StockRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.StockItem{}, id)
	return result.RowsAffected, result.Error
}
