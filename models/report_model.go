package models

import "github.com/shopspring/decimal"

type StockSummary struct {
	TotalItems    int64           `json:"total_items"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockItems int64           `json:"low_stock_items"`
}

type FinancialSummary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalSales      int64           `json:"total_sales"`
	AverageDiscount decimal.Decimal `json:"average_discount"`
	BestSellingItem *string         `json:"best_selling_item"`
}

type DashboardData struct {
	StockSummary     StockSummary     `json:"stock_summary"`
	FinancialSummary FinancialSummary `json:"financial_summary"`
	RecentMovements  []Movement       `json:"recent_movements"`
	RecentSales      []SaleRecord     `json:"recent_sales"`
}

type BestSeller struct {
	StockID           uint            `json:"stock_id"`
	ItemName          string          `json:"item_name"`
	TotalQuantitySold int64           `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

// MonthlyRevenue always carries twelve buckets keyed 1..12.
type MonthlyRevenue struct {
	Year           int                     `json:"year"`
	MonthlyRevenue map[int]decimal.Decimal `json:"monthly_revenue"`
}

type ValueDistribution struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

type TrendPoint struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesTrend struct {
	Period    string       `json:"period"`
	TrendData []TrendPoint `json:"trend_data"`
}

type QuantityAlerts struct {
	Threshold  int         `json:"threshold"`
	AlertCount int         `json:"alert_count"`
	Items      []StockItem `json:"items"`
}

type PerformanceMetrics struct {
	TotalStockValue   decimal.Decimal `json:"total_stock_value"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue"`
	MonthlyMovements  int64           `json:"monthly_movements"`
	AverageDiscount   decimal.Decimal `json:"average_discount"`
	StockTurnoverRate decimal.Decimal `json:"stock_turnover_rate"`
	ItemsSoldMonth    int64           `json:"items_sold_this_month"`
}
