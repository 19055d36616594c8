package services

import (
	"context"
	"elles-app/models"
	"elles-app/repositories"
	"elles-app/utils"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FinanceService struct {
	sales *repositories.SaleRepository
	log   *zap.Logger

	// Now defines the current instant and the local time zone used for
	// week, month and year boundaries.
	Now func() time.Time
}

func NewFinanceService(db *gorm.DB, log *zap.Logger) *FinanceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FinanceService{
		sales: repositories.NewSaleRepository(db),
		log:   log.Named("svc.finance"),
		Now:   time.Now,
	}
}

func (s *FinanceService) ListSales(ctx context.Context, skip, limit int) ([]models.SaleRecord, error) {
	return s.sales.List(ctx, skip, limit)
}

// SalesInRange returns sales between two YYYY-MM-DD dates, both days included.
func (s *FinanceService) SalesInRange(ctx context.Context, startDate, endDate string) ([]models.SaleRecord, error) {
	loc := s.Now().Location()
	start, err := utils.ParseDate(startDate, loc)
	if err != nil {
		return nil, invalidf("Invalid date format. Use YYYY-MM-DD")
	}
	end, err := utils.ParseDate(endDate, loc)
	if err != nil {
		return nil, invalidf("Invalid date format. Use YYYY-MM-DD")
	}
	if start.After(end) {
		return nil, invalidf("Start date must be before end date")
	}
	return s.sales.ListBetween(ctx, start, end.AddDate(0, 0, 1))
}

// SalesThisWeek covers Monday 00:00 local through the following Monday.
func (s *FinanceService) SalesThisWeek(ctx context.Context) ([]models.SaleRecord, error) {
	start := utils.StartOfWeek(s.Now())
	return s.sales.ListBetween(ctx, start, start.AddDate(0, 0, 7))
}

func (s *FinanceService) SalesThisMonth(ctx context.Context) ([]models.SaleRecord, error) {
	start := utils.StartOfMonth(s.Now())
	return s.sales.ListBetween(ctx, start, start.AddDate(0, 1, 0))
}

func (s *FinanceService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	records, err := s.sales.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return sumRevenue(records), nil
}

// MonthlyRevenue buckets the year's revenue by local calendar month.
func (s *FinanceService) MonthlyRevenue(ctx context.Context, year int) (*models.MonthlyRevenue, error) {
	if year < 1 || year > 9999 {
		return nil, invalidf("year must be between 1 and 9999")
	}

	loc := s.Now().Location()
	start := utils.StartOfYear(year, loc)
	records, err := s.sales.ListBetween(ctx, start, start.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	buckets := make(map[int]decimal.Decimal, 12)
	for month := 1; month <= 12; month++ {
		buckets[month] = decimal.Zero
	}
	for _, record := range records {
		month := int(record.Date.In(loc).Month())
		buckets[month] = buckets[month].Add(record.TotalRevenue)
	}

	return &models.MonthlyRevenue{Year: year, MonthlyRevenue: buckets}, nil
}

// AverageDiscount is the all-time mean discount percent, zero without sales.
func (s *FinanceService) AverageDiscount(ctx context.Context) (decimal.Decimal, error) {
	records, err := s.sales.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return averageDiscount(records), nil
}

// BestSellers ranks items by quantity sold. Items with equal quantities keep
// the order in which their first sale was stored.
func (s *FinanceService) BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	if limit < 1 || limit > 50 {
		return nil, invalidf("limit must be between 1 and 50")
	}

	records, err := s.sales.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sellers := rankSellers(records)
	if len(sellers) > limit {
		sellers = sellers[:limit]
	}
	return sellers, nil
}

// BestSellingItem returns the top seller's name, or nil when nothing sold.
func (s *FinanceService) BestSellingItem(ctx context.Context) (*string, error) {
	sellers, err := s.BestSellers(ctx, 1)
	if err != nil || len(sellers) == 0 {
		return nil, err
	}
	name := sellers[0].ItemName
	return &name, nil
}

func sumRevenue(records []models.SaleRecord) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.TotalRevenue)
	}
	return total
}

func averageDiscount(records []models.SaleRecord) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.DiscountPercent)
	}
	return total.Div(decimal.NewFromInt(int64(len(records)))).Round(models.MoneyPlaces)
}

// rankSellers expects records in storage order. Sales of deleted items are
// skipped.
func rankSellers(records []models.SaleRecord) []models.BestSeller {
	index := map[uint]int{}
	var sellers []models.BestSeller

	for _, record := range records {
		if record.StockID == nil {
			continue
		}
		i, ok := index[*record.StockID]
		if !ok {
			name := record.ItemName
			if record.Stock != nil {
				name = record.Stock.Name
			}
			index[*record.StockID] = len(sellers)
			sellers = append(sellers, models.BestSeller{
				StockID:      *record.StockID,
				ItemName:     name,
				TotalRevenue: decimal.Zero,
			})
			i = len(sellers) - 1
		}
		sellers[i].TotalQuantitySold += int64(record.QuantitySold)
		sellers[i].TotalRevenue = sellers[i].TotalRevenue.Add(record.TotalRevenue)
	}

	sort.SliceStable(sellers, func(a, b int) bool {
		return sellers[a].TotalQuantitySold > sellers[b].TotalQuantitySold
	})
	if sellers == nil {
		sellers = []models.BestSeller{}
	}
	return sellers
}
