package narrative

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/campaignops/internal/domain"
)

func keywordEvent(id string, kind domain.EventKind, at time.Time, detail map[string]any) domain.Event {
	raw, _ := json.Marshal(detail)
	return domain.Event{
		EventID:    id,
		Kind:       kind,
		RunID:      "run_1",
		OccurredAt: at,
		Detail:     raw,
	}
}

func TestExtractKeywordContext(t *testing.T) {
	t.Run("no diagnostic events yields nil", func(t *testing.T) {
		assert.Nil(t, extractKeywordContext(nil))
		assert.Nil(t, extractKeywordContext([]domain.Event{
			stageEvent("evt_1", "run_1", domain.StageOrgSourcing, "started", testNow, nil),
		}))
	})

	t.Run("all three inputs", func(t *testing.T) {
		events := []domain.Event{
			keywordEvent("evt_1", domain.EventKindKeywordSummary, testNow.Add(-3*time.Minute), map[string]any{"total": 5}),
			keywordEvent("evt_2", domain.EventKindKeywordHealth, testNow.Add(-2*time.Minute), map[string]any{
				"with_results":    []string{"crm", "sales ops"},
				"without_results": []string{"devrel"},
			}),
			keywordEvent("evt_3", domain.EventKindKeywordLowCoverage, testNow.Add(-time.Minute), map[string]any{"message": "only 2 of 5 keywords matched"}),
		}
		kc := extractKeywordContext(events)
		require.NotNil(t, kc)
		assert.Equal(t, 5, kc.Total)
		assert.Equal(t, []string{"crm", "sales ops"}, kc.WithResults)
		assert.Equal(t, []string{"devrel"}, kc.WithoutResults)
		assert.True(t, kc.LowCoverage)
		assert.Equal(t, "only 2 of 5 keywords matched", kc.Message)
	})

	t.Run("summary alone degrades gracefully", func(t *testing.T) {
		events := []domain.Event{
			keywordEvent("evt_1", domain.EventKindKeywordSummary, testNow, map[string]any{"total": 3}),
		}
		kc := extractKeywordContext(events)
		require.NotNil(t, kc)
		assert.Equal(t, 3, kc.Total)
		assert.Nil(t, kc.WithResults)
		assert.False(t, kc.LowCoverage)
	})

	t.Run("warning without message uses fallback", func(t *testing.T) {
		events := []domain.Event{
			keywordEvent("evt_1", domain.EventKindKeywordLowCoverage, testNow, nil),
		}
		kc := extractKeywordContext(events)
		require.NotNil(t, kc)
		assert.True(t, kc.LowCoverage)
		assert.Equal(t, lowCoverageFallback, kc.Message)
	})

	t.Run("newest summary wins", func(t *testing.T) {
		events := []domain.Event{
			keywordEvent("evt_1", domain.EventKindKeywordSummary, testNow.Add(-10*time.Minute), map[string]any{"total": 2}),
			keywordEvent("evt_2", domain.EventKindKeywordSummary, testNow.Add(-time.Minute), map[string]any{"total": 6}),
		}
		kc := extractKeywordContext(events)
		require.NotNil(t, kc)
		assert.Equal(t, 6, kc.Total)
	})

	t.Run("malformed summary still yields context", func(t *testing.T) {
		events := []domain.Event{
			keywordEvent("evt_1", domain.EventKindKeywordSummary, testNow, map[string]any{"total": "many"}),
			keywordEvent("evt_2", domain.EventKindKeywordHealth, testNow, map[string]any{"with_results": []string{"crm"}}),
		}
		kc := extractKeywordContext(events)
		require.NotNil(t, kc)
		assert.Equal(t, 0, kc.Total)
		assert.Equal(t, []string{"crm"}, kc.WithResults)
	})
}
