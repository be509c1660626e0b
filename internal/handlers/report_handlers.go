package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/reports"
	"github.com/rhanierex/Gym-Management/internal/services"
)

type ReportHandler struct {
	registry *membership.Registry
	cache    *services.RedisCache
}

func NewReportHandler(registry *membership.Registry, cache *services.RedisCache) *ReportHandler {
	return &ReportHandler{registry: registry, cache: cache}
}

func (h *ReportHandler) revenue(c echo.Context) ([]membership.MonthlyRevenue, error) {
	ctx := c.Request().Context()
	if h.cache == nil {
		return h.registry.RevenueByPeriod(ctx)
	}
	return services.GetOrSet(h.cache, ctx, "reports:revenue", 5*time.Minute,
		func() ([]membership.MonthlyRevenue, error) {
			return h.registry.RevenueByPeriod(ctx)
		})
}

// RevenueReport returns revenue grouped by registration month, newest first
func (h *ReportHandler) RevenueReport(c echo.Context) error {
	periods, err := h.revenue(c)
	if err != nil {
		return err
	}

	var grand float64
	for _, p := range periods {
		grand += p.Total
	}
	return c.JSON(http.StatusOK, echo.Map{
		"periods":     periods,
		"grand_total": grand,
	})
}

// ExportRevenue streams the revenue report as an xlsx workbook
func (h *ReportHandler) ExportRevenue(c echo.Context) error {
	periods, err := h.revenue(c)
	if err != nil {
		return err
	}

	now := time.Now()
	buf, err := reports.BuildRevenueWorkbook(periods, now)
	if err != nil {
		return err
	}

	filename := "revenue_" + now.Format("20060102_150405") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
