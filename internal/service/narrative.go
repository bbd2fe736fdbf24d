package service

import (
	"context"
	"fmt"

	"github.com/leadpilot/campaignops/internal/narrative"
)

// ExecutionNarrative loads the campaign's run and event history and projects
// it into the canonical execution narrative. The mapper itself is pure; this
// method supplies the records and the clock.
func (s *Service) ExecutionNarrative(ctx context.Context, campaignID string) (*narrative.Narrative, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, nil
	}

	runs, err := s.store.ListRuns(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	events, err := s.store.ListCampaignEvents(ctx, campaignID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	n := s.mapper.Compose(runs, events, s.now())
	return &n, nil
}
