package controllers

import (
	"elles-app/controllers/helpers"
	"elles-app/services"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service *services.ReportService
}

func NewReportController(service *services.ReportService) *ReportController {
	return &ReportController{Service: service}
}

// reportError keeps client errors as they are and reports everything else
// as a failure to build the named report.
func reportError(ctx *fiber.Ctx, report string, err error) error {
	if errors.Is(err, services.ErrInvalidInput) {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Failure(ctx, fiber.StatusInternalServerError, "Error generating "+report+": "+err.Error())
}

func (c *ReportController) GetDashboard(ctx *fiber.Ctx) error {
	data, err := c.Service.Dashboard(ctx.UserContext())
	if err != nil {
		return reportError(ctx, "dashboard", err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Dashboard retrieved successfully", data)
}

func (c *ReportController) GetStockSummary(ctx *fiber.Ctx) error {
	summary, err := c.Service.StockSummary(ctx.UserContext())
	if err != nil {
		return reportError(ctx, "stock summary", err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Stock summary retrieved successfully", summary)
}

func (c *ReportController) GetFinancialSummary(ctx *fiber.Ctx) error {
	summary, err := c.Service.FinancialSummary(ctx.UserContext())
	if err != nil {
		return reportError(ctx, "financial summary", err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Financial summary retrieved successfully", summary)
}

func (c *ReportController) GetValueDistribution(ctx *fiber.Ctx) error {
	dist, err := c.Service.ValueDistribution(ctx.UserContext())
	if err != nil {
		return reportError(ctx, "value distribution", err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Value distribution retrieved successfully", dist)
}

func (c *ReportController) GetSalesTrend(ctx *fiber.Ctx) error {
	trend, err := c.Service.SalesTrend(ctx.UserContext(), ctx.Query("period", "month"))
	if err != nil {
		return reportError(ctx, "sales trend", err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Sales trend retrieved successfully", trend)
}

func (c *ReportController) GetQuantityAlerts(ctx *fiber.Ctx) error {
	threshold, err := helpers.QueryInt(ctx, "threshold", services.DefaultLowStockThreshold, 1, 1<<31-1)
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	alerts, err := c.Service.QuantityAlerts(ctx.UserContext(), threshold)
	if err != nil {
		return reportError(ctx, "quantity alerts", err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Quantity alerts retrieved successfully", alerts)
}

func (c *ReportController) GetPerformanceMetrics(ctx *fiber.Ctx) error {
	metrics, err := c.Service.PerformanceMetrics(ctx.UserContext())
	if err != nil {
		return reportError(ctx, "performance metrics", err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Performance metrics retrieved successfully", metrics)
}
