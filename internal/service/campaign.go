package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/leadpilot/campaignops/internal/domain"
)

// CreateCampaign creates a new campaign in draft status.
func (s *Service) CreateCampaign(ctx context.Context, req domain.CampaignCreateRequest) (*domain.Campaign, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	mode := req.ExecutionMode
	if mode == "" {
		mode = domain.ExecutionModeDryRun
	}
	if mode != domain.ExecutionModeDryRun && mode != domain.ExecutionModeLive {
		return nil, fmt.Errorf("unknown execution_mode %q", mode)
	}

	now := s.now().UTC()
	campaign := &domain.Campaign{
		CampaignID:    "camp_" + uuid.New().String()[:8],
		Name:          req.Name,
		Status:        domain.CampaignStatusDraft,
		ExecutionMode: mode,
		Keywords:      req.Keywords,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

// GetCampaign retrieves a campaign; nil when it does not exist.
func (s *Service) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	return s.store.GetCampaign(ctx, campaignID)
}

// ListCampaigns retrieves all campaigns.
func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.store.ListCampaigns(ctx)
}

// UpdateCampaign applies a partial update. Archiving via status change runs
// through the same policy gate as ArchiveCampaign.
func (s *Service) UpdateCampaign(ctx context.Context, campaignID string, req domain.CampaignUpdateRequest) (*domain.Campaign, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, nil
	}

	action := "campaign.update"
	if req.Status != nil && *req.Status == domain.CampaignStatusArchived {
		action = "campaign.archive"
	}
	if err := s.checkPolicy(ctx, action, campaign); err != nil {
		return nil, err
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.Status != nil {
		campaign.Status = *req.Status
	}
	if req.ExecutionMode != nil {
		campaign.ExecutionMode = *req.ExecutionMode
	}
	if req.Keywords != nil {
		campaign.Keywords = *req.Keywords
	}
	campaign.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

// ArchiveCampaign marks a campaign archived, subject to policy.
func (s *Service) ArchiveCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	archived := domain.CampaignStatusArchived
	return s.UpdateCampaign(ctx, campaignID, domain.CampaignUpdateRequest{Status: &archived})
}

// DeleteCampaign removes the campaign record, subject to policy. Run and
// event history stays untouched.
func (s *Service) DeleteCampaign(ctx context.Context, campaignID string) error {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return nil
	}
	if err := s.checkPolicy(ctx, "campaign.delete", campaign); err != nil {
		return err
	}
	return s.store.DeleteCampaign(ctx, campaignID)
}

// checkPolicy evaluates the governance policy for one mutation and converts a
// block decision into a BlockedError.
func (s *Service) checkPolicy(ctx context.Context, action string, campaign *domain.Campaign) error {
	hasActive, err := s.store.HasActiveRun(ctx, campaign.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to check active runs: %w", err)
	}

	decision, reason, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
		"action":          action,
		"campaign_status": string(campaign.Status),
		"execution_mode":  campaign.ExecutionMode,
		"has_active_run":  hasActive,
	})
	if err != nil {
		return fmt.Errorf("policy evaluation failed: %w", err)
	}
	if decision == "block" {
		return &BlockedError{Action: action, Reason: reason}
	}
	return nil
}
