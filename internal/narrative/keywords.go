package narrative

import "github.com/leadpilot/campaignops/internal/domain"

// lowCoverageFallback is used when a keyword.low_coverage event carries no
// message of its own.
const lowCoverageFallback = "Few of the configured keywords are returning results."

// extractKeywordContext assembles the optional keyword-coverage side channel
// from the run's diagnostic events. Each of the three inputs is independent
// and best-effort: a missing summary, health report, or warning degrades the
// context rather than suppressing it. Returns nil when none of the three
// kinds is present.
func extractKeywordContext(events []domain.Event) *KeywordContext {
	var (
		kc        KeywordContext
		populated bool
	)
	for _, e := range newestFirst(events) {
		switch e.Kind {
		case domain.EventKindKeywordSummary:
			d, ok := domain.DecodeKeywordSummary(e.Detail)
			if !ok {
				continue
			}
			if kc.Total == 0 && d.Total != nil {
				kc.Total = *d.Total
			}
			populated = true
		case domain.EventKindKeywordHealth:
			d, ok := domain.DecodeKeywordHealth(e.Detail)
			if !ok {
				continue
			}
			if kc.WithResults == nil {
				kc.WithResults = d.WithResults
			}
			if kc.WithoutResults == nil {
				kc.WithoutResults = d.WithoutResults
			}
			populated = true
		case domain.EventKindKeywordLowCoverage:
			if kc.LowCoverage {
				continue
			}
			kc.LowCoverage = true
			kc.Message = lowCoverageFallback
			if d, ok := domain.DecodeKeywordLowCoverage(e.Detail); ok && d.Message != "" {
				kc.Message = d.Message
			}
			populated = true
		}
	}
	if !populated {
		return nil
	}
	return &kc
}
