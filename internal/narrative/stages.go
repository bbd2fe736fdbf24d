package narrative

import (
	"sort"

	"github.com/leadpilot/campaignops/internal/domain"
)

// trackStages derives the current or most recently observed pipeline stage
// from the classified events of one run. The scan is newest-first with
// most-recent-wins per stage name: the first time a stage is seen fixes its
// state, so a stage whose latest boundary is a start is active even if an
// older complete exists, and vice versa.
//
// Returns the active stage if one exists, otherwise the most recently
// completed stage, otherwise nil. Detail fields are copied verbatim from the
// fixing event; arbitrary detail keys are ignored.
func trackStages(events []domain.Event) *Stage {
	seen := make(map[string]bool)
	var active, completed *Stage
	for _, e := range newestFirst(events) {
		if e.Kind != domain.EventKindStageBoundary {
			continue
		}
		d, ok := domain.DecodeStageBoundary(e.Detail)
		if !ok || d.Stage == "" {
			continue
		}
		if seen[d.Stage] {
			continue
		}
		seen[d.Stage] = true

		stage := &Stage{Name: d.Stage, Detail: copyStageDetail(d)}
		if isCompleteTransition(d.Transition) {
			stage.Status = StageCompleted
			if completed == nil {
				completed = stage
			}
		} else {
			stage.Status = StageActive
			if active == nil {
				active = stage
			}
		}
	}
	if active != nil {
		return active
	}
	return completed
}

func isCompleteTransition(transition string) bool {
	switch transition {
	case "complete", "completed", "end":
		return true
	}
	return false
}

func copyStageDetail(d domain.StageBoundaryDetail) *StageDetail {
	if d.OrgsFound == nil && d.ContactsFound == nil && d.LeadsPromoted == nil &&
		d.Count == nil && d.Message == "" {
		return nil
	}
	return &StageDetail{
		OrgsFound:     d.OrgsFound,
		ContactsFound: d.ContactsFound,
		LeadsPromoted: d.LeadsPromoted,
		Count:         d.Count,
		Message:       d.Message,
	}
}

// newestFirst returns the events ordered by occurrence timestamp, newest
// first. Caller-supplied order is not trusted; among events sharing a
// timestamp, the later-recorded one is treated as newer.
func newestFirst(events []domain.Event) []domain.Event {
	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}
