package narrative

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leadpilot/campaignops/internal/domain"
)

func TestIsStalled(t *testing.T) {
	m := NewMapper(0)

	running := func(age time.Duration) *domain.Run {
		started := testNow.Add(-age)
		return &domain.Run{
			RunID:     "run_1",
			Status:    domain.RunStatusRunning,
			CreatedAt: started,
			StartedAt: &started,
		}
	}

	t.Run("non-running is never stale", func(t *testing.T) {
		for _, status := range []domain.RunStatus{
			domain.RunStatusQueued,
			domain.RunStatusCompleted,
			domain.RunStatusFailed,
			domain.RunStatusSkipped,
		} {
			run := running(2 * time.Hour)
			run.Status = status
			assert.False(t, m.isStalled(run, nil, testNow), "status %s", status)
		}
	})

	t.Run("young run is not stale", func(t *testing.T) {
		assert.False(t, m.isStalled(running(29*time.Minute), nil, testNow))
	})

	t.Run("old run with no stage events is stale", func(t *testing.T) {
		assert.True(t, m.isStalled(running(40*time.Minute), nil, testNow))
	})

	t.Run("recent stage boundary suppresses staleness", func(t *testing.T) {
		events := []domain.Event{
			stageEvent("evt_1", "run_1", domain.StageOrgSourcing, "started", testNow.Add(-3*time.Minute), nil),
		}
		assert.False(t, m.isStalled(running(40*time.Minute), events, testNow))
	})

	t.Run("stale stage boundary does not", func(t *testing.T) {
		events := []domain.Event{
			stageEvent("evt_1", "run_1", domain.StageOrgSourcing, "started", testNow.Add(-31*time.Minute), nil),
		}
		assert.True(t, m.isStalled(running(40*time.Minute), events, testNow))
	})

	t.Run("newest boundary decides", func(t *testing.T) {
		events := []domain.Event{
			stageEvent("evt_1", "run_1", domain.StageOrgSourcing, "started", testNow.Add(-50*time.Minute), nil),
			stageEvent("evt_2", "run_1", domain.StageContactDiscovery, "started", testNow.Add(-2*time.Minute), nil),
		}
		assert.False(t, m.isStalled(running(60*time.Minute), events, testNow))
	})

	t.Run("created_at fallback when started_at missing", func(t *testing.T) {
		run := &domain.Run{
			RunID:     "run_1",
			Status:    domain.RunStatusInProgress,
			CreatedAt: testNow.Add(-45 * time.Minute),
		}
		assert.True(t, m.isStalled(run, nil, testNow))
	})

	t.Run("no timestamps means no staleness claim", func(t *testing.T) {
		run := &domain.Run{RunID: "run_1", Status: domain.RunStatusRunning}
		assert.False(t, m.isStalled(run, nil, testNow))
	})

	t.Run("custom threshold respected", func(t *testing.T) {
		short := NewMapper(5 * time.Minute)
		assert.True(t, short.isStalled(running(6*time.Minute), nil, testNow))
		assert.False(t, short.isStalled(running(4*time.Minute), nil, testNow))
	})
}
