package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/campaignops/internal/domain"
	"github.com/leadpilot/campaignops/internal/service"
)

// CreateCampaign creates a new campaign.
func (h *Handler) CreateCampaign(c echo.Context) error {
	var req domain.CampaignCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	campaign, err := h.service.CreateCampaign(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns lists all campaigns.
func (h *Handler) ListCampaigns(c echo.Context) error {
	campaigns, err := h.service.ListCampaigns(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"campaigns": campaigns})
}

// GetCampaign retrieves a campaign.
func (h *Handler) GetCampaign(c echo.Context) error {
	campaign, err := h.service.GetCampaign(c.Request().Context(), c.Param("campaign_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if campaign == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "campaign not found"})
	}
	return c.JSON(http.StatusOK, campaign)
}

// UpdateCampaign applies a partial update to a campaign.
func (h *Handler) UpdateCampaign(c echo.Context) error {
	var req domain.CampaignUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	campaign, err := h.service.UpdateCampaign(c.Request().Context(), c.Param("campaign_id"), req)
	if err != nil {
		return blockedOrInternal(c, err)
	}
	if campaign == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "campaign not found"})
	}
	return c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign removes a campaign.
func (h *Handler) DeleteCampaign(c echo.Context) error {
	if err := h.service.DeleteCampaign(c.Request().Context(), c.Param("campaign_id")); err != nil {
		return blockedOrInternal(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// blockedOrInternal maps policy denials to 409 and everything else to 500.
func blockedOrInternal(c echo.Context, err error) error {
	var blocked *service.BlockedError
	if errors.As(err, &blocked) {
		return c.JSON(http.StatusConflict, map[string]string{
			"error":  "blocked by policy",
			"reason": blocked.Reason,
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
