package domain

import (
	"encoding/json"
	"time"
)

// Run represents a single execution attempt of a campaign. Runs are owned by
// the backend store: this service records what it is told and never mutates a
// run on its own. History is append-only; runs are never deleted.
type Run struct {
	RunID             string     `json:"run_id"`
	CampaignID        string     `json:"campaign_id"`
	Status            RunStatus  `json:"status"`
	ExecutionMode     string     `json:"execution_mode,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	TerminationReason string     `json:"termination_reason,omitempty"`
}

// Event is one observed fact about a run. Events are immutable once recorded
// and ordered by occurrence timestamp.
type Event struct {
	EventID    string          `json:"event_id"`
	Kind       EventKind       `json:"kind"`
	RunID      string          `json:"run_id"`
	CampaignID string          `json:"campaign_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Outcome    string          `json:"outcome,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}
