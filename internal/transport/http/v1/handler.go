// Package v1 provides the dashboard-facing HTTP handlers.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/campaignops/internal/hub"
	"github.com/leadpilot/campaignops/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	hub     *hub.Hub
}

// NewHandler creates a new handler. The hub may be nil when the watch socket
// is not served.
func NewHandler(service *service.Service, h *hub.Hub) *Handler {
	return &Handler{
		service: service,
		hub:     h,
	}
}

// RegisterRoutes registers dashboard routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Campaign CRUD
	e.POST("/v1/campaigns", h.CreateCampaign)
	e.GET("/v1/campaigns", h.ListCampaigns)
	e.GET("/v1/campaigns/:campaign_id", h.GetCampaign)
	e.PATCH("/v1/campaigns/:campaign_id", h.UpdateCampaign)
	e.DELETE("/v1/campaigns/:campaign_id", h.DeleteCampaign)

	// Execution
	e.POST("/v1/campaigns/:campaign_id/runs", h.TriggerRun)
	e.GET("/v1/campaigns/:campaign_id/runs", h.ListRuns)
	e.GET("/v1/runs/:run_id/events", h.GetRunEvents)

	// Narrative
	e.GET("/v1/campaigns/:campaign_id/narrative", h.GetNarrative)
	e.GET("/v1/campaigns/:campaign_id/watch", h.WatchNarrative)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
