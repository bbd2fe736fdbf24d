package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/campaignops/internal/config"
	"github.com/leadpilot/campaignops/internal/domain"
	"github.com/leadpilot/campaignops/internal/policy"
	"github.com/leadpilot/campaignops/internal/repository"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := repository.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	return New(store, engine, &config.Config{StallAfter: 30 * time.Minute})
}

func activateCampaign(t *testing.T, svc *Service, campaignID string) {
	t.Helper()
	active := domain.CampaignStatusActive
	_, err := svc.UpdateCampaign(context.Background(), campaignID, domain.CampaignUpdateRequest{Status: &active})
	require.NoError(t, err)
}

func TestCampaignCRUD(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	campaign, err := svc.CreateCampaign(ctx, domain.CampaignCreateRequest{
		Name:     "Spring outreach",
		Keywords: []string{"crm", "sales ops"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusDraft, campaign.Status)
	assert.Equal(t, domain.ExecutionModeDryRun, campaign.ExecutionMode)

	got, err := svc.GetCampaign(ctx, campaign.CampaignID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Spring outreach", got.Name)

	name := "Spring outreach v2"
	updated, err := svc.UpdateCampaign(ctx, campaign.CampaignID, domain.CampaignUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	campaigns, err := svc.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, campaigns, 1)

	require.NoError(t, svc.DeleteCampaign(ctx, campaign.CampaignID))
	got, err = svc.GetCampaign(ctx, campaign.CampaignID)
	require.NoError(t, err)
	assert.Nil(t, got)

	t.Run("missing campaign updates return nil", func(t *testing.T) {
		updated, err := svc.UpdateCampaign(ctx, "camp_nope", domain.CampaignUpdateRequest{Name: &name})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.CreateCampaign(ctx, domain.CampaignCreateRequest{})
		assert.Error(t, err)
	})

	t.Run("unknown execution mode rejected", func(t *testing.T) {
		_, err := svc.CreateCampaign(ctx, domain.CampaignCreateRequest{Name: "x", ExecutionMode: "shadow"})
		assert.Error(t, err)
	})
}

func TestPolicyGates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	campaign, err := svc.CreateCampaign(ctx, domain.CampaignCreateRequest{Name: "Gated"})
	require.NoError(t, err)

	t.Run("trigger on draft campaign is blocked", func(t *testing.T) {
		_, err := svc.TriggerRun(ctx, campaign.CampaignID)
		var blocked *BlockedError
		require.ErrorAs(t, err, &blocked)
		assert.Equal(t, "run.trigger", blocked.Action)
	})

	activateCampaign(t, svc, campaign.CampaignID)

	run, err := svc.TriggerRun(ctx, campaign.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusQueued, run.Status)

	t.Run("second trigger blocked while run active", func(t *testing.T) {
		_, err := svc.TriggerRun(ctx, campaign.CampaignID)
		var blocked *BlockedError
		require.ErrorAs(t, err, &blocked)
	})

	t.Run("archive blocked while run active", func(t *testing.T) {
		_, err := svc.ArchiveCampaign(ctx, campaign.CampaignID)
		var blocked *BlockedError
		require.ErrorAs(t, err, &blocked)
		assert.Equal(t, "campaign.archive", blocked.Action)
	})

	t.Run("delete blocked while run active", func(t *testing.T) {
		err := svc.DeleteCampaign(ctx, campaign.CampaignID)
		var blocked *BlockedError
		require.ErrorAs(t, err, &blocked)
	})

	// Backend finishes the run; gates reopen.
	now := time.Now().UTC()
	run.Status = domain.RunStatusCompleted
	run.CompletedAt = &now
	require.NoError(t, svc.IngestRun(ctx, run))

	archived, err := svc.ArchiveCampaign(ctx, campaign.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusArchived, archived.Status)

	t.Run("plain update passes the gate even with history", func(t *testing.T) {
		name := "Gated v2"
		_, err := svc.UpdateCampaign(ctx, campaign.CampaignID, domain.CampaignUpdateRequest{Name: &name})
		assert.NoError(t, err)
		assert.False(t, errors.As(err, new(*BlockedError)))
	})
}
