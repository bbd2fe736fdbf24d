package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/leadpilot/campaignops/internal/domain"
)

// TriggerRun requests a new execution of a campaign. The run is recorded as
// queued; the backend owns it from there and advances it via the internal
// ingest API.
func (s *Service) TriggerRun(ctx context.Context, campaignID string) (*domain.Run, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s not found", campaignID)
	}
	if err := s.checkPolicy(ctx, "run.trigger", campaign); err != nil {
		return nil, err
	}

	run := &domain.Run{
		RunID:         "run_" + uuid.New().String()[:8],
		CampaignID:    campaignID,
		Status:        domain.RunStatusQueued,
		ExecutionMode: campaign.ExecutionMode,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	// Audit trail only. The kind is outside the narrative allow-list, so the
	// mapper will never treat the request itself as execution activity.
	if err := s.recordEvent(ctx, run, "run.requested", nil); err != nil {
		log.Printf("WARN: failed to record run.requested event: %v", err)
	}

	return run, nil
}

// IngestRun stores a backend-owned run record as reported.
func (s *Service) IngestRun(ctx context.Context, run *domain.Run) error {
	if run.RunID == "" {
		return fmt.Errorf("run_id is required")
	}
	if run.CampaignID == "" {
		return fmt.Errorf("campaign_id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now().UTC()
	}
	return s.store.SaveRun(ctx, run)
}

// GetRun retrieves a run; nil when it does not exist.
func (s *Service) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	return s.store.GetRun(ctx, runID)
}

// ListRuns retrieves the run history of a campaign.
func (s *Service) ListRuns(ctx context.Context, campaignID string) ([]domain.Run, error) {
	return s.store.ListRuns(ctx, campaignID)
}
