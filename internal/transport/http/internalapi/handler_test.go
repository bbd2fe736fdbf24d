package internalapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/campaignops/internal/config"
	"github.com/leadpilot/campaignops/internal/domain"
	"github.com/leadpilot/campaignops/internal/policy"
	"github.com/leadpilot/campaignops/internal/repository"
	"github.com/leadpilot/campaignops/internal/service"
	"github.com/leadpilot/campaignops/internal/transport/http/internalapi"
)

func newTestHandler(t *testing.T) (*internalapi.Handler, *service.Service) {
	t.Helper()

	store, err := repository.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	svc := service.New(store, engine, &config.Config{StallAfter: 30 * time.Minute})
	return internalapi.NewHandler(svc), svc
}

func seedCampaign(t *testing.T, svc *service.Service) *domain.Campaign {
	t.Helper()
	campaign, err := svc.CreateCampaign(context.Background(), domain.CampaignCreateRequest{
		Name:     "Ingest target",
		Keywords: []string{"crm"},
	})
	require.NoError(t, err)
	return campaign
}

func TestUpsertRun(t *testing.T) {
	handler, svc := newTestHandler(t)
	e := echo.New()
	campaign := seedCampaign(t, svc)

	started := time.Now().UTC().Truncate(time.Second)

	t.Run("Create Then Update", func(t *testing.T) {
		run := domain.Run{
			RunID:      "run_ing001",
			CampaignID: campaign.CampaignID,
			Status:     domain.RunStatusRunning,
			CreatedAt:  started,
			StartedAt:  &started,
		}
		body, _ := json.Marshal(run)
		req := httptest.NewRequest(http.MethodPut, "/internal/v1/runs", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, handler.UpsertRun(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		// Same run reported again with a terminal status. Last write wins.
		completed := started.Add(5 * time.Minute)
		run.Status = domain.RunStatusCompleted
		run.CompletedAt = &completed
		body, _ = json.Marshal(run)
		req = httptest.NewRequest(http.MethodPut, "/internal/v1/runs", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec = httptest.NewRecorder()
		require.NoError(t, handler.UpsertRun(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		got, err := svc.GetRun(context.Background(), "run_ing001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.RunStatusCompleted, got.Status)
		require.NotNil(t, got.CompletedAt)
	})

	t.Run("Reject Missing Run ID", func(t *testing.T) {
		body := []byte(`{"campaign_id":"` + campaign.CampaignID + `","status":"running"}`)
		req := httptest.NewRequest(http.MethodPut, "/internal/v1/runs", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, handler.UpsertRun(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestIngestEvents(t *testing.T) {
	handler, svc := newTestHandler(t)
	e := echo.New()
	ctx := context.Background()
	campaign := seedCampaign(t, svc)

	started := time.Now().UTC()
	require.NoError(t, svc.IngestRun(ctx, &domain.Run{
		RunID:      "run_evt001",
		CampaignID: campaign.CampaignID,
		Status:     domain.RunStatusRunning,
		CreatedAt:  started,
		StartedAt:  &started,
	}))

	t.Run("Store Batch", func(t *testing.T) {
		body, _ := json.Marshal(domain.EventIngestRequest{
			Events: []domain.Event{
				{
					Kind:       domain.EventKindRunStarted,
					RunID:      "run_evt001",
					CampaignID: campaign.CampaignID,
					OccurredAt: started,
				},
				{
					Kind:       domain.EventKindStageBoundary,
					RunID:      "run_evt001",
					CampaignID: campaign.CampaignID,
					OccurredAt: started.Add(time.Minute),
					Detail:     json.RawMessage(`{"stage":"org_sourcing","transition":"start"}`),
				},
			},
		})
		req := httptest.NewRequest(http.MethodPost, "/internal/v1/events", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, handler.IngestEvents(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]int
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, 2, resp["stored"])

		events, err := svc.ListRunEvents(ctx, "run_evt001", 0)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("Reject Empty Batch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/internal/v1/events", bytes.NewReader([]byte(`{"events":[]}`)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, handler.IngestEvents(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
