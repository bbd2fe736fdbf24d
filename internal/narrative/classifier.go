package narrative

import "github.com/leadpilot/campaignops/internal/domain"

// ClassifyEvents narrows a raw event collection to the events of the given
// run whose kind the mapper is permitted to reason about. Relative order is
// preserved. Unknown kinds are dropped unconditionally: the mapper must never
// react to unvetted signal shapes, so filtering is an allow-list, not an
// error condition.
func ClassifyEvents(events []domain.Event, runID string) []domain.Event {
	var classified []domain.Event
	for _, e := range events {
		if e.RunID != runID {
			continue
		}
		if !allowedKind(e.Kind) {
			continue
		}
		classified = append(classified, e)
	}
	return classified
}

// allowedKind matches the closed set of event kinds. New kinds must be added
// here explicitly before any component may observe them.
func allowedKind(kind domain.EventKind) bool {
	switch kind {
	case domain.EventKindRunStarted,
		domain.EventKindRunCompleted,
		domain.EventKindCampaignRunStarted,
		domain.EventKindCampaignRunCompleted,
		domain.EventKindExecutionStarted,
		domain.EventKindExecutionCompleted,
		domain.EventKindStageBoundary,
		domain.EventKindRunFailureContext,
		domain.EventKindKeywordSummary,
		domain.EventKindKeywordHealth,
		domain.EventKindKeywordLowCoverage:
		return true
	}
	return false
}
