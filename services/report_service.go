package services

import (
	"context"
	"elles-app/models"
	"elles-app/repositories"
	"elles-app/utils"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DefaultLowStockThreshold marks items as low on stock in summaries.
	DefaultLowStockThreshold = 10
	recentEntries            = 5
	trailingWindow           = 30 * 24 * time.Hour
)

type ReportService struct {
	stocks    *repositories.StockRepository
	movements *repositories.MovementRepository
	sales     *repositories.SaleRepository
	finance   *FinanceService
	log       *zap.Logger

	Now func() time.Time
}

func NewReportService(db *gorm.DB, finance *FinanceService, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	if finance == nil {
		finance = NewFinanceService(db, log)
	}
	return &ReportService{
		stocks:    repositories.NewStockRepository(db),
		movements: repositories.NewMovementRepository(db),
		sales:     repositories.NewSaleRepository(db),
		finance:   finance,
		log:       log.Named("svc.report"),
		Now:       time.Now,
	}
}

func (s *ReportService) StockSummary(ctx context.Context) (*models.StockSummary, error) {
	items, err := s.stocks.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.StockSummary{TotalItems: int64(len(items)), TotalValue: decimal.Zero}
	for _, item := range items {
		summary.TotalValue = summary.TotalValue.Add(item.TotalValue)
		if item.Quantity < DefaultLowStockThreshold {
			summary.LowStockItems++
		}
	}
	return summary, nil
}

func (s *ReportService) FinancialSummary(ctx context.Context) (*models.FinancialSummary, error) {
	records, err := s.sales.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.FinancialSummary{
		TotalRevenue:    sumRevenue(records),
		TotalSales:      int64(len(records)),
		AverageDiscount: averageDiscount(records),
	}
	if sellers := rankSellers(records); len(sellers) > 0 {
		name := sellers[0].ItemName
		summary.BestSellingItem = &name
	}
	return summary, nil
}

func (s *ReportService) Dashboard(ctx context.Context) (*models.DashboardData, error) {
	stock, err := s.StockSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	finance, err := s.FinancialSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("financial summary: %w", err)
	}
	movements, err := s.movements.Recent(ctx, recentEntries)
	if err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}
	sales, err := s.sales.Recent(ctx, recentEntries)
	if err != nil {
		return nil, fmt.Errorf("recent sales: %w", err)
	}

	return &models.DashboardData{
		StockSummary:     *stock,
		FinancialSummary: *finance,
		RecentMovements:  movements,
		RecentSales:      sales,
	}, nil
}

// ValueDistribution lists items holding value, most valuable first.
func (s *ReportService) ValueDistribution(ctx context.Context) (*models.ValueDistribution, error) {
	items, err := s.stocks.ListByValueDesc(ctx)
	if err != nil {
		return nil, err
	}

	dist := &models.ValueDistribution{
		Labels: make([]string, 0, len(items)),
		Values: make([]decimal.Decimal, 0, len(items)),
	}
	for _, item := range items {
		dist.Labels = append(dist.Labels, item.Name)
		dist.Values = append(dist.Values, item.TotalValue)
	}
	return dist, nil
}

func (s *ReportService) QuantityAlerts(ctx context.Context, threshold int) (*models.QuantityAlerts, error) {
	if threshold < 1 {
		return nil, invalidf("threshold must be at least 1")
	}
	items, err := s.stocks.ListBelow(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return &models.QuantityAlerts{Threshold: threshold, AlertCount: len(items), Items: items}, nil
}

type trendBucket struct {
	label      string
	start, end time.Time
}

// SalesTrend sums revenue per period, oldest first. "week" covers the last
// four rolling weeks, "month" the six previous calendar months and "year"
// the five previous calendar years.
func (s *ReportService) SalesTrend(ctx context.Context, period string) (*models.SalesTrend, error) {
	now := s.Now()
	var buckets []trendBucket

	switch period {
	case "week":
		for i := 3; i >= 0; i-- {
			start := now.AddDate(0, 0, -7*(i+1))
			buckets = append(buckets, trendBucket{
				label: fmt.Sprintf("Week %d", 4-i),
				start: start,
				end:   start.AddDate(0, 0, 7),
			})
		}
	case "month":
		current := utils.StartOfMonth(now)
		for i := 6; i >= 1; i-- {
			start := current.AddDate(0, -i, 0)
			buckets = append(buckets, trendBucket{
				label: start.Format("2006-01"),
				start: start,
				end:   start.AddDate(0, 1, 0),
			})
		}
	case "year":
		for i := 5; i >= 1; i-- {
			start := utils.StartOfYear(now.Year()-i, now.Location())
			buckets = append(buckets, trendBucket{
				label: start.Format("2006"),
				start: start,
				end:   start.AddDate(1, 0, 0),
			})
		}
	default:
		return nil, invalidf("Period must be 'week', 'month', or 'year'")
	}

	records, err := s.sales.ListSince(ctx, buckets[0].start)
	if err != nil {
		return nil, err
	}

	trend := &models.SalesTrend{Period: period, TrendData: make([]models.TrendPoint, len(buckets))}
	for i, bucket := range buckets {
		trend.TrendData[i] = models.TrendPoint{Period: bucket.label, Revenue: decimal.Zero}
	}
	for _, record := range records {
		for i, bucket := range buckets {
			if !record.Date.Before(bucket.start) && record.Date.Before(bucket.end) {
				trend.TrendData[i].Revenue = trend.TrendData[i].Revenue.Add(record.TotalRevenue)
				break
			}
		}
	}
	return trend, nil
}

// PerformanceMetrics reports trailing 30 day activity. Turnover is units
// sold in the window over units on hand, in percent, and zero when nothing
// is on hand.
func (s *ReportService) PerformanceMetrics(ctx context.Context) (*models.PerformanceMetrics, error) {
	since := s.Now().Add(-trailingWindow)

	items, err := s.stocks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.sales.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	movements, err := s.movements.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	avg, err := s.finance.AverageDiscount(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &models.PerformanceMetrics{
		TotalStockValue:   decimal.Zero,
		MonthlyRevenue:    sumRevenue(recent),
		MonthlyMovements:  movements,
		AverageDiscount:   avg,
		StockTurnoverRate: decimal.Zero,
	}

	var onHand int64
	for _, item := range items {
		metrics.TotalStockValue = metrics.TotalStockValue.Add(item.TotalValue)
		onHand += int64(item.Quantity)
	}
	for _, record := range recent {
		metrics.ItemsSoldMonth += int64(record.QuantitySold)
	}
	if onHand > 0 {
		metrics.StockTurnoverRate = decimal.NewFromInt(metrics.ItemsSoldMonth).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(onHand)).
			Round(models.MoneyPlaces)
	}
	return metrics, nil
}
