// Package narrative projects backend-owned run records and operational events
// into the single canonical description of what a campaign execution is doing
// right now. It is pure: no I/O, no ambient clock, no state across calls.
// Display surfaces must render the Narrative as-is and never re-derive
// execution state from raw records.
package narrative

import (
	"time"

	"github.com/leadpilot/campaignops/internal/domain"
)

// Mode is the top-level narrative state. Exactly one mode is active per
// Narrative; fields legal only for other modes stay unset.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeQueued   Mode = "queued"
	ModeRunning  Mode = "running"
	ModeTerminal Mode = "terminal"
)

// StageStatus is the derived status of a pipeline stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageActive    StageStatus = "active"
	StageCompleted StageStatus = "completed"
)

// StageDetail carries the allow-listed fields copied verbatim from the
// triggering stage.boundary event. No arithmetic is performed on them.
type StageDetail struct {
	OrgsFound     *int   `json:"orgs_found,omitempty"`
	ContactsFound *int   `json:"contacts_found,omitempty"`
	LeadsPromoted *int   `json:"leads_promoted,omitempty"`
	Count         *int   `json:"count,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Stage is the current or most recently observed pipeline stage.
type Stage struct {
	Name   string       `json:"name"`
	Status StageStatus  `json:"status"`
	Detail *StageDetail `json:"detail,omitempty"`
}

// Terminal describes a finished run. Present only when Mode is ModeTerminal.
type Terminal struct {
	Status      string `json:"status"` // completed, failed, skipped
	Reason      string `json:"reason,omitempty"`
	CompletedAt string `json:"completed_at"` // RFC 3339, empty when unknown
}

// KeywordContext is the optional keyword-coverage side channel assembled from
// diagnostic events.
type KeywordContext struct {
	Total          int      `json:"total"`
	WithResults    []string `json:"with_results,omitempty"`
	WithoutResults []string `json:"without_results,omitempty"`
	LowCoverage    bool     `json:"low_coverage"`
	Message        string   `json:"message,omitempty"`
}

// Narrative is the sole output of the mapper. It is always freshly computed
// and never persisted.
type Narrative struct {
	Mode        Mode            `json:"mode"`
	Headline    string          `json:"headline"`
	Subheadline string          `json:"subheadline,omitempty"`
	Stage       *Stage          `json:"stage,omitempty"`
	LastEventAt *time.Time      `json:"last_event_at,omitempty"`
	Terminal    *Terminal       `json:"terminal,omitempty"`
	TrustNote   string          `json:"trust_note"`
	IsStalled   bool            `json:"is_stalled"`
	Keywords    *KeywordContext `json:"keywords,omitempty"`
	RawStatus   string          `json:"raw_status,omitempty"`
}

// Fixed headlines. These strings are the governed vocabulary the dashboard
// renders; presentation layers must not invent their own.
const (
	HeadlineIdle         = "No execution has run yet"
	HeadlineQueued       = "Execution queued"
	HeadlineRunning      = "Execution in progress"
	HeadlineStalled      = "Execution stalled"
	HeadlineFailed       = "Execution failed"
	HeadlineCompleted    = "Execution completed"
	HeadlineNoOrgs       = "Execution completed — no matching organizations"
	HeadlineSkipped      = "Execution skipped"
	HeadlineUnrecognized = "Execution state unrecognized"
)

// Trust notes, one per branch. Each states what the narrative does and does
// not claim so the UI never has to invent its own caveat.
const (
	trustNoteIdle      = "The system is idle; you are viewing historical execution data."
	trustNoteQueued    = "The execution has been accepted but has not started; nothing has been processed yet."
	trustNoteRunning   = "Progress reflects only explicitly recorded pipeline events; absence of counts does not mean absence of results."
	trustNoteStalled   = "No pipeline progress has been recorded recently; the execution may still be running on the backend."
	trustNoteCompleted = "This execution has finished; figures reflect the final recorded state."
	trustNoteFailed    = "The failure reason shown is the reason recorded by the backend; nothing further has been inferred."
	trustNoteSkipped   = "This execution was skipped or only partially executed; no failure has been inferred."
	trustNoteFallback  = "The backend reported a status this dashboard does not recognize; no execution state has been inferred from it."
)

func stageLabel(name string) string {
	switch name {
	case domain.StageOrgSourcing:
		return "Organization sourcing"
	case domain.StageContactDiscovery:
		return "Contact discovery"
	case domain.StageLeadPromotion:
		return "Lead promotion"
	}
	return humanize(name)
}

func humanize(name string) string {
	out := []rune(name)
	for i, r := range out {
		if r == '_' || r == '-' {
			out[i] = ' '
		}
	}
	if len(out) > 0 && out[0] >= 'a' && out[0] <= 'z' {
		out[0] = out[0] - 'a' + 'A'
	}
	return string(out)
}
