package narrative

import (
	"time"

	"github.com/leadpilot/campaignops/internal/domain"
)

// SelectLatestRun picks the single run the narrative describes: the one with
// the greatest creation timestamp, falling back to the start timestamp when
// creation is missing. Runs sharing an identical sort timestamp are broken by
// run id, lexicographically greatest wins, so selection stays stable across
// calls regardless of input order. An empty collection yields nil, which the
// composer reports as idle.
func SelectLatestRun(runs []domain.Run) *domain.Run {
	var best *domain.Run
	var bestAt time.Time
	for i := range runs {
		at := sortTimestamp(&runs[i])
		switch {
		case best == nil, at.After(bestAt):
		case at.Equal(bestAt) && runs[i].RunID > best.RunID:
		default:
			continue
		}
		r := runs[i]
		best = &r
		bestAt = at
	}
	return best
}

func sortTimestamp(r *domain.Run) time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	if r.StartedAt != nil {
		return *r.StartedAt
	}
	return time.Time{}
}
