// Package domain defines the core domain models for the campaign operations service.
package domain

import "strings"

// CampaignStatus represents the lifecycle status of a campaign.
type CampaignStatus string

const (
	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusArchived CampaignStatus = "archived"
)

// RunStatus is the backend-owned status string of a run. The backend emits a
// small closed set plus tolerated synonyms; anything else is unrecognized and
// must be surfaced raw rather than coerced to a known state.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusPending        RunStatus = "pending"
	RunStatusRunning        RunStatus = "running"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusSuccess        RunStatus = "success"
	RunStatusSucceeded      RunStatus = "succeeded"
	RunStatusFailed         RunStatus = "failed"
	RunStatusError          RunStatus = "error"
	RunStatusSkipped        RunStatus = "skipped"
	RunStatusPartial        RunStatus = "partial"
	RunStatusPartialSuccess RunStatus = "partial_success"
)

func (s RunStatus) norm() RunStatus {
	return RunStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// IsQueued reports whether the run has been accepted but not started.
func (s RunStatus) IsQueued() bool {
	switch s.norm() {
	case RunStatusQueued, RunStatusPending:
		return true
	}
	return false
}

// IsRunning reports whether the run is in flight.
func (s RunStatus) IsRunning() bool {
	switch s.norm() {
	case RunStatusRunning, RunStatusInProgress:
		return true
	}
	return false
}

// IsFailed reports whether the run ended in failure.
func (s RunStatus) IsFailed() bool {
	switch s.norm() {
	case RunStatusFailed, RunStatusError:
		return true
	}
	return false
}

// IsCompleted reports whether the run finished successfully.
func (s RunStatus) IsCompleted() bool {
	switch s.norm() {
	case RunStatusCompleted, RunStatusSuccess, RunStatusSucceeded:
		return true
	}
	return false
}

// IsSkipped reports whether the run was skipped or only partially executed.
func (s RunStatus) IsSkipped() bool {
	switch s.norm() {
	case RunStatusSkipped, RunStatusPartial, RunStatusPartialSuccess:
		return true
	}
	return false
}

// IsTerminal reports whether the status will not change further.
func (s RunStatus) IsTerminal() bool {
	return s.IsFailed() || s.IsCompleted() || s.IsSkipped()
}

// IsKnown reports whether the status belongs to the recognized vocabulary.
func (s RunStatus) IsKnown() bool {
	return s.IsQueued() || s.IsRunning() || s.IsTerminal()
}

// EventKind identifies the type of an operational event. Kind names are the
// versioned contract between the backend and this service; unknown kinds are
// inert.
type EventKind string

const (
	EventKindRunStarted         EventKind = "run.started"
	EventKindRunCompleted       EventKind = "run.completed"
	EventKindStageBoundary      EventKind = "stage.boundary"
	EventKindRunFailureContext  EventKind = "run.failure_context"
	EventKindKeywordSummary     EventKind = "keyword.summary"
	EventKindKeywordHealth      EventKind = "keyword.health"
	EventKindKeywordLowCoverage EventKind = "keyword.low_coverage"

	// Start/complete synonyms emitted by older backend versions.
	EventKindCampaignRunStarted   EventKind = "campaign.run.started"
	EventKindCampaignRunCompleted EventKind = "campaign.run.completed"
	EventKindExecutionStarted     EventKind = "execution.started"
	EventKindExecutionCompleted   EventKind = "execution.completed"
)

// IsStart reports whether the kind marks the beginning of a run.
func (k EventKind) IsStart() bool {
	switch k {
	case EventKindRunStarted, EventKindCampaignRunStarted, EventKindExecutionStarted:
		return true
	}
	return false
}

// IsComplete reports whether the kind marks the end of a run.
func (k EventKind) IsComplete() bool {
	switch k {
	case EventKindRunCompleted, EventKindCampaignRunCompleted, EventKindExecutionCompleted:
		return true
	}
	return false
}

// Stage names of the execution pipeline.
const (
	StageOrgSourcing      = "org_sourcing"
	StageContactDiscovery = "contact_discovery"
	StageLeadPromotion    = "lead_promotion"
)

// Execution modes of a campaign or run.
const (
	ExecutionModeDryRun = "dry_run"
	ExecutionModeLive   = "live"
)
