package services

import (
	"context"
	"elles-app/config"
	"elles-app/database"
	"elles-app/migration"
	"elles-app/models"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(t, want).Equal(got), "want %s, got %s", want, got)
}

type fixture struct {
	db        *gorm.DB
	stock     *StockService
	movements *MovementService
	finance   *FinanceService
	reports   *ReportService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	db := newTestDB(t)
	f := &fixture{
		db:        db,
		stock:     NewStockService(db, nil),
		movements: NewMovementService(db, nil),
		finance:   NewFinanceService(db, nil),
	}
	f.reports = NewReportService(db, f.finance, nil)

	f.movements.Now = fixedClock(now)
	f.finance.Now = fixedClock(now)
	f.reports.Now = fixedClock(now)
	return f
}

func (f *fixture) item(t *testing.T, reference, price string, quantity int) *models.StockItem {
	t.Helper()
	item, err := f.stock.Create(context.Background(), models.CreateStockRequest{
		Reference: reference,
		Name:      "Item " + reference,
		UnitPrice: dec(t, price),
		Quantity:  quantity,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) sell(t *testing.T, id uint, quantity int, discount string, at time.Time) *models.Movement {
	t.Helper()
	m, err := f.movements.Record(context.Background(), models.CreateMovementRequest{
		StockID:         id,
		MovementType:    models.MovementSale,
		Quantity:        quantity,
		DiscountPercent: dec(t, discount),
		Date:            &at,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) buy(t *testing.T, id uint, quantity int, at time.Time) *models.Movement {
	t.Helper()
	m, err := f.movements.Record(context.Background(), models.CreateMovementRequest{
		StockID:      id,
		MovementType: models.MovementPurchase,
		Quantity:     quantity,
		Date:         &at,
	})
	require.NoError(t, err)
	return m
}
