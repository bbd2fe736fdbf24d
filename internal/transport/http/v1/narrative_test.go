package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/campaignops/internal/domain"
	"github.com/leadpilot/campaignops/internal/narrative"
	"github.com/leadpilot/campaignops/internal/service"
	v1 "github.com/leadpilot/campaignops/internal/transport/http/v1"
)

func getNarrative(t *testing.T, handler *v1.Handler, campaignID string) (*httptest.ResponseRecorder, narrative.Narrative) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/campaigns/:campaign_id/narrative")
	c.SetParamNames("campaign_id")
	c.SetParamValues(campaignID)

	require.NoError(t, handler.GetNarrative(c))

	var n narrative.Narrative
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))
	}
	return rec, n
}

func TestGetNarrative(t *testing.T) {
	handler, svc := newTestHandler(t)
	ctx := context.Background()

	campaign := createTestCampaign(t, svc, "Narrated")

	t.Run("Unknown Campaign", func(t *testing.T) {
		rec, _ := getNarrative(t, handler, "camp_missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Idle Before Any Run", func(t *testing.T) {
		rec, n := getNarrative(t, handler, campaign.CampaignID)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, narrative.ModeIdle, n.Mode)
		assert.Equal(t, narrative.HeadlineIdle, n.Headline)
	})

	t.Run("Queued After Trigger", func(t *testing.T) {
		active := domain.CampaignStatusActive
		_, err := svc.UpdateCampaign(ctx, campaign.CampaignID, domain.CampaignUpdateRequest{Status: &active})
		require.NoError(t, err)
		_, err = svc.TriggerRun(ctx, campaign.CampaignID)
		require.NoError(t, err)

		rec, n := getNarrative(t, handler, campaign.CampaignID)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, narrative.ModeQueued, n.Mode)
		assert.Equal(t, narrative.HeadlineQueued, n.Headline)
	})

	t.Run("Running With Stage Progress", func(t *testing.T) {
		ingestRunWithEvents(t, svc, campaign.CampaignID)

		rec, n := getNarrative(t, handler, campaign.CampaignID)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, narrative.ModeRunning, n.Mode)
		assert.Equal(t, narrative.HeadlineRunning, n.Headline)
		assert.False(t, n.IsStalled)
		require.NotNil(t, n.Stage)
		assert.Equal(t, domain.StageOrgSourcing, n.Stage.Name)
	})
}

// ingestRunWithEvents simulates a backend reporting a fresh run that has
// entered org sourcing.
func ingestRunWithEvents(t *testing.T, svc *service.Service, campaignID string) {
	t.Helper()
	ctx := context.Background()
	// Strictly after the queued run created by the trigger, so run selection
	// picks this one.
	started := time.Now().UTC().Add(time.Second)

	run := &domain.Run{
		RunID:      "run_live01",
		CampaignID: campaignID,
		Status:     domain.RunStatusRunning,
		CreatedAt:  started,
		StartedAt:  &started,
	}
	require.NoError(t, svc.IngestRun(ctx, run))

	events := []domain.Event{
		{
			Kind:       domain.EventKindRunStarted,
			RunID:      run.RunID,
			CampaignID: campaignID,
			OccurredAt: started,
		},
		{
			Kind:       domain.EventKindStageBoundary,
			RunID:      run.RunID,
			CampaignID: campaignID,
			OccurredAt: started.Add(time.Second),
			Detail:     json.RawMessage(`{"stage":"org_sourcing","transition":"start"}`),
		},
	}
	stored, err := svc.IngestEvents(ctx, events)
	require.NoError(t, err)
	require.Equal(t, len(events), stored)
}
