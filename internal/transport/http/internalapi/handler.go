// Package internalapi provides the backend-facing ingest handlers. The
// campaign backend reports run state and operational events here; nothing on
// this surface is exposed to dashboards.
package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/campaignops/internal/domain"
	"github.com/leadpilot/campaignops/internal/service"
)

// Handler handles internal HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new internal handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.PUT("/internal/v1/runs", h.UpsertRun)
	e.POST("/internal/v1/events", h.IngestEvents)
}

// UpsertRun stores a backend-reported run record, last write wins.
func (h *Handler) UpsertRun(c echo.Context) error {
	var run domain.Run
	if err := c.Bind(&run); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.IngestRun(c.Request().Context(), &run); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, run)
}

// IngestEvents appends a batch of backend-reported operational events.
func (h *Handler) IngestEvents(c echo.Context) error {
	var req domain.EventIngestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.Events) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "events is required"})
	}

	stored, err := h.service.IngestEvents(c.Request().Context(), req.Events)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  err.Error(),
			"stored": stored,
		})
	}
	return c.JSON(http.StatusOK, map[string]int{"stored": stored})
}
