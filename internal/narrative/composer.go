package narrative

import (
	"fmt"
	"time"

	"github.com/leadpilot/campaignops/internal/domain"
)

// Mapper composes execution narratives. The stall threshold is fixed at
// construction; the clock is passed per call so composition stays a pure
// function of its inputs.
type Mapper struct {
	stallAfter time.Duration
}

// NewMapper returns a Mapper. A non-positive stallAfter selects
// DefaultStallAfter.
func NewMapper(stallAfter time.Duration) *Mapper {
	if stallAfter <= 0 {
		stallAfter = DefaultStallAfter
	}
	return &Mapper{stallAfter: stallAfter}
}

// Compose projects the run records and operational events of one campaign
// into the canonical narrative. It never fails: missing or malformed data
// produces a less specific but still truthful narrative, with the
// corresponding optional fields left unset.
//
// Branches are evaluated in fixed priority order: idle, queued, running
// (stalled or active), terminal failed, terminal completed, terminal
// skipped, then the unrecognized-status fallback.
func (m *Mapper) Compose(runs []domain.Run, events []domain.Event, now time.Time) Narrative {
	run := SelectLatestRun(runs)
	if run == nil {
		return Narrative{
			Mode:      ModeIdle,
			Headline:  HeadlineIdle,
			TrustNote: trustNoteIdle,
		}
	}

	classified := ClassifyEvents(events, run.RunID)
	startSeen := hasStartEvent(classified)
	lastEvent := lastEventAt(classified)

	switch {
	case run.Status.IsQueued() && !startSeen:
		return Narrative{
			Mode:        ModeQueued,
			Headline:    HeadlineQueued,
			Subheadline: "Waiting for the execution pipeline to pick up this run",
			LastEventAt: lastEvent,
			TrustNote:   trustNoteQueued,
			RawStatus:   string(run.Status),
		}

	case run.Status.IsRunning() || (startSeen && !run.Status.IsTerminal()):
		return m.composeRunning(run, classified, lastEvent, now)

	case run.Status.IsFailed():
		return composeFailed(run, classified, lastEvent)

	case run.Status.IsCompleted():
		return composeCompleted(run, classified, lastEvent)

	case run.Status.IsSkipped():
		return composeSkipped(run, classified, lastEvent)
	}

	// Unrecognized status: reported idle-like with the raw status surfaced
	// for diagnostics rather than coerced to a known state.
	return Narrative{
		Mode:        ModeIdle,
		Headline:    HeadlineUnrecognized,
		Subheadline: fmt.Sprintf("Backend reported status %q", string(run.Status)),
		LastEventAt: lastEvent,
		TrustNote:   trustNoteFallback,
		RawStatus:   string(run.Status),
	}
}

func (m *Mapper) composeRunning(run *domain.Run, classified []domain.Event, lastEvent *time.Time, now time.Time) Narrative {
	stage := trackStages(classified)
	keywords := extractKeywordContext(classified)

	n := Narrative{
		Mode:        ModeRunning,
		Stage:       stage,
		LastEventAt: lastEvent,
		Keywords:    keywords,
		RawStatus:   string(run.Status),
	}

	if m.isStalled(run, classified, now) {
		n.IsStalled = true
		n.Headline = HeadlineStalled
		n.Subheadline = fmt.Sprintf("No stage progress recorded in the last %d minutes", int(m.stallAfter.Minutes()))
		n.TrustNote = trustNoteStalled
		return n
	}

	n.Headline = HeadlineRunning
	n.Subheadline = runningSubheadline(stage, keywords)
	n.TrustNote = trustNoteRunning
	return n
}

// runningSubheadline picks the most specific truthful phrasing available.
// Count-based phrasing is emitted only for strictly positive counts: a zero
// or unknown count while running must never read as "nothing found".
func runningSubheadline(stage *Stage, keywords *KeywordContext) string {
	if stage != nil && stage.Status == StageActive {
		if stage.Name == domain.StageOrgSourcing && keywords != nil && keywords.Total > 1 {
			return fmt.Sprintf("Sourcing organizations across %d keywords", keywords.Total)
		}
		if stage.Detail != nil && stage.Detail.OrgsFound != nil && *stage.Detail.OrgsFound > 0 {
			return fmt.Sprintf("%d organizations discovered so far", *stage.Detail.OrgsFound)
		}
		return stageLabel(stage.Name) + " in progress"
	}
	return "Processing campaign stages"
}

func composeFailed(run *domain.Run, classified []domain.Event, lastEvent *time.Time) Narrative {
	return Narrative{
		Mode:     ModeTerminal,
		Headline: HeadlineFailed,
		Terminal: &Terminal{
			Status:      "failed",
			Reason:      failureReason(run, classified),
			CompletedAt: terminalCompletedAt(run, lastEvent),
		},
		Stage:       trackStages(classified),
		LastEventAt: lastEvent,
		Keywords:    extractKeywordContext(classified),
		TrustNote:   trustNoteFailed,
		RawStatus:   string(run.Status),
	}
}

func composeCompleted(run *domain.Run, classified []domain.Event, lastEvent *time.Time) Narrative {
	n := Narrative{
		Mode:     ModeTerminal,
		Headline: HeadlineCompleted,
		Terminal: &Terminal{
			Status:      "completed",
			CompletedAt: terminalCompletedAt(run, lastEvent),
		},
		Stage:       trackStages(classified),
		LastEventAt: lastEvent,
		Keywords:    extractKeywordContext(classified),
		TrustNote:   trustNoteCompleted,
		RawStatus:   string(run.Status),
	}

	if completedWithZeroOrgs(classified) {
		// A valid outcome, not an error: sourcing ran to completion and
		// explicitly reported zero matches.
		n.Headline = HeadlineNoOrgs
		n.Subheadline = "The configured keywords did not match any organizations"
		return n
	}

	if n.Stage != nil && n.Stage.Detail != nil && n.Stage.Detail.LeadsPromoted != nil && *n.Stage.Detail.LeadsPromoted > 0 {
		n.Subheadline = fmt.Sprintf("%d leads promoted", *n.Stage.Detail.LeadsPromoted)
	}
	return n
}

func composeSkipped(run *domain.Run, classified []domain.Event, lastEvent *time.Time) Narrative {
	return Narrative{
		Mode:     ModeTerminal,
		Headline: HeadlineSkipped,
		Terminal: &Terminal{
			Status:      "skipped",
			Reason:      run.TerminationReason,
			CompletedAt: terminalCompletedAt(run, lastEvent),
		},
		Stage:       trackStages(classified),
		LastEventAt: lastEvent,
		Keywords:    extractKeywordContext(classified),
		TrustNote:   trustNoteSkipped,
		RawStatus:   string(run.Status),
	}
}

// failureReason prefers the run record's own reasons over event-carried
// context: failure_reason, then termination_reason, then the newest
// run.failure_context event's message or reason.
func failureReason(run *domain.Run, classified []domain.Event) string {
	if run.FailureReason != "" {
		return run.FailureReason
	}
	if run.TerminationReason != "" {
		return run.TerminationReason
	}
	for _, e := range newestFirst(classified) {
		if e.Kind != domain.EventKindRunFailureContext {
			continue
		}
		d, ok := domain.DecodeFailureContext(e.Detail)
		if !ok {
			continue
		}
		if d.Message != "" {
			return d.Message
		}
		if d.Reason != "" {
			return d.Reason
		}
	}
	return ""
}

// completedWithZeroOrgs reports whether the newest organization-sourcing
// completion explicitly recorded zero organizations found. An absent count is
// not zero.
func completedWithZeroOrgs(classified []domain.Event) bool {
	for _, e := range newestFirst(classified) {
		if e.Kind != domain.EventKindStageBoundary {
			continue
		}
		d, ok := domain.DecodeStageBoundary(e.Detail)
		if !ok || d.Stage != domain.StageOrgSourcing || !isCompleteTransition(d.Transition) {
			continue
		}
		return d.OrgsFound != nil && *d.OrgsFound == 0
	}
	return false
}

// terminalCompletedAt resolves the completion timestamp through the fallback
// chain completed_at, updated_at, last event timestamp, empty string.
func terminalCompletedAt(run *domain.Run, lastEvent *time.Time) string {
	switch {
	case run.CompletedAt != nil:
		return run.CompletedAt.UTC().Format(time.RFC3339)
	case run.UpdatedAt != nil:
		return run.UpdatedAt.UTC().Format(time.RFC3339)
	case lastEvent != nil:
		return lastEvent.UTC().Format(time.RFC3339)
	}
	return ""
}

func hasStartEvent(classified []domain.Event) bool {
	for _, e := range classified {
		if e.Kind.IsStart() {
			return true
		}
	}
	return false
}

// lastEventAt is the newest occurrence timestamp among the classified events,
// found by explicit max scan.
func lastEventAt(classified []domain.Event) *time.Time {
	var latest *time.Time
	for i := range classified {
		at := classified[i].OccurredAt
		if at.IsZero() {
			continue
		}
		if latest == nil || at.After(*latest) {
			latest = &at
		}
	}
	return latest
}
