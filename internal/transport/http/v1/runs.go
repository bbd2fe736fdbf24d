package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/campaignops/internal/domain"
)

// TriggerRun requests a new execution of a campaign.
func (h *Handler) TriggerRun(c echo.Context) error {
	run, err := h.service.TriggerRun(c.Request().Context(), c.Param("campaign_id"))
	if err != nil {
		return blockedOrInternal(c, err)
	}
	return c.JSON(http.StatusAccepted, run)
}

// ListRuns lists the run history of a campaign.
func (h *Handler) ListRuns(c echo.Context) error {
	runs, err := h.service.ListRuns(c.Request().Context(), c.Param("campaign_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"runs": runs})
}

// GetRunEvents lists the events of a run in occurrence order.
func (h *Handler) GetRunEvents(c echo.Context) error {
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	events, err := h.service.ListRunEvents(c.Request().Context(), c.Param("run_id"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if events == nil {
		events = []domain.Event{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events})
}
