package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
	"github.com/rhanierex/Gym-Management/internal/services"
)

type DashboardHandler struct {
	registry *membership.Registry
	cache    *services.RedisCache
}

func NewDashboardHandler(registry *membership.Registry, cache *services.RedisCache) *DashboardHandler {
	return &DashboardHandler{registry: registry, cache: cache}
}

type dashboardPayload struct {
	Stats    membership.GymStats `json:"stats"`
	Expiring []models.Member     `json:"expiring"`
	Active   []models.Member     `json:"active"`
}

// Dashboard returns the headline stats plus the members expiring within
// the alert window. Cached briefly since it is polled by the front desk.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	build := func() (dashboardPayload, error) {
		now := time.Now()
		stats, err := h.registry.Stats(ctx, now)
		if err != nil {
			return dashboardPayload{}, err
		}
		expiring, err := h.registry.ListExpiringWithin(ctx, now, membership.DefaultAlertWindow)
		if err != nil {
			return dashboardPayload{}, err
		}
		active, err := h.registry.ListActive(ctx, now)
		if err != nil {
			return dashboardPayload{}, err
		}
		return dashboardPayload{Stats: stats, Expiring: expiring, Active: active}, nil
	}

	var (
		payload dashboardPayload
		err     error
	)
	if h.cache != nil {
		payload, err = services.GetOrSet(h.cache, ctx, "dashboard:stats", time.Minute, build)
	} else {
		payload, err = build()
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payload)
}
