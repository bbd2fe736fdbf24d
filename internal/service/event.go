package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/leadpilot/campaignops/internal/domain"
)

// recordEvent records a locally observed event against a run.
func (s *Service) recordEvent(ctx context.Context, run *domain.Run, kind domain.EventKind, payload interface{}) error {
	var detail json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal detail: %w", err)
		}
		detail = b
	}

	event := &domain.Event{
		EventID:    "evt_" + uuid.New().String()[:8],
		Kind:       kind,
		RunID:      run.RunID,
		CampaignID: run.CampaignID,
		OccurredAt: s.now().UTC(),
		Detail:     detail,
	}
	return s.store.CreateEvent(ctx, event)
}

// IngestEvents appends backend-reported operational events. Events of any
// kind are stored; which kinds mean anything is decided at narrative time,
// not here.
func (s *Service) IngestEvents(ctx context.Context, events []domain.Event) (int, error) {
	stored := 0
	for i := range events {
		e := events[i]
		if e.RunID == "" || e.Kind == "" {
			return stored, fmt.Errorf("event %d: run_id and kind are required", i)
		}
		if e.EventID == "" {
			e.EventID = "evt_" + uuid.New().String()[:8]
		}
		if e.OccurredAt.IsZero() {
			e.OccurredAt = s.now().UTC()
		}
		if err := s.store.CreateEvent(ctx, &e); err != nil {
			return stored, fmt.Errorf("failed to store event %s: %w", e.EventID, err)
		}
		stored++
	}
	return stored, nil
}

// ListRunEvents retrieves the events of a run in occurrence order.
func (s *Service) ListRunEvents(ctx context.Context, runID string, limit int) ([]domain.Event, error) {
	return s.store.ListRunEvents(ctx, runID, limit)
}
