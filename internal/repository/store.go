// Package repository defines the storage interface and its SQLite implementation.
package repository

import (
	"context"

	"github.com/leadpilot/campaignops/internal/domain"
)

// Store defines the interface for data persistence. Runs and events mirror
// backend-owned records and are append-only: runs are upserted as the backend
// advances them, events are never updated or deleted.
type Store interface {
	// Campaign operations
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error
	DeleteCampaign(ctx context.Context, campaignID string) error

	// Run operations
	SaveRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	ListRuns(ctx context.Context, campaignID string) ([]domain.Run, error)
	HasActiveRun(ctx context.Context, campaignID string) (bool, error)

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	ListRunEvents(ctx context.Context, runID string, limit int) ([]domain.Event, error)
	ListCampaignEvents(ctx context.Context, campaignID string, limit int) ([]domain.Event, error)

	// Lifecycle
	Close() error
}
