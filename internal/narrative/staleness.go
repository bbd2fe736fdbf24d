package narrative

import (
	"time"

	"github.com/leadpilot/campaignops/internal/domain"
)

// DefaultStallAfter is how long a running run may go without observable stage
// progress before it is reported as stalled.
const DefaultStallAfter = 30 * time.Minute

// isStalled reports whether an in-flight run should be narrated as stalled.
// Both conditions must hold: the run is older than the threshold AND the
// pipeline has been silent for at least as long. Age alone is not staleness
// while stage boundaries are still arriving, and non-running runs are never
// stale.
func (m *Mapper) isStalled(run *domain.Run, events []domain.Event, now time.Time) bool {
	if run == nil || !run.Status.IsRunning() {
		return false
	}

	base := run.CreatedAt
	if run.StartedAt != nil {
		base = *run.StartedAt
	}
	if base.IsZero() {
		// No timestamp to age against; do not guess.
		return false
	}
	if now.Sub(base) <= m.stallAfter {
		return false
	}

	latest := latestStageBoundary(events)
	if latest == nil {
		return true
	}
	return now.Sub(latest.OccurredAt) > m.stallAfter
}

// latestStageBoundary finds the most recent stage.boundary event by explicit
// max scan; it does not assume the input is sorted.
func latestStageBoundary(events []domain.Event) *domain.Event {
	var latest *domain.Event
	for i := range events {
		if events[i].Kind != domain.EventKindStageBoundary {
			continue
		}
		if latest == nil || events[i].OccurredAt.After(latest.OccurredAt) {
			latest = &events[i]
		}
	}
	return latest
}
