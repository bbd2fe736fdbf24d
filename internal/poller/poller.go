// Package poller periodically recomputes execution narratives for watched
// campaigns and pushes changes to their watchers. The mapper itself never
// polls; this loop is the caller that feeds it on a timer.
package poller

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/leadpilot/campaignops/internal/narrative"
)

// NarrativeSource produces the current narrative of a campaign.
type NarrativeSource interface {
	ExecutionNarrative(ctx context.Context, campaignID string) (*narrative.Narrative, error)
}

// Broadcaster fans a payload out to the watchers of a campaign.
type Broadcaster interface {
	WatchedCampaigns() []string
	Broadcast(campaignID string, data []byte)
}

// Poller drives narrative recomputation.
type Poller struct {
	source   NarrativeSource
	hub      Broadcaster
	interval time.Duration

	// last JSON payload per campaign; identical narratives are not re-sent.
	last map[string]string
}

// New creates a poller. A non-positive interval defaults to 5s.
func New(source NarrativeSource, hub Broadcaster, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		source:   source,
		hub:      hub,
		interval: interval,
		last:     make(map[string]string),
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick recomputes the narrative of every watched campaign and broadcasts the
// ones that changed.
func (p *Poller) tick(ctx context.Context) {
	watched := p.hub.WatchedCampaigns()

	// Drop state for campaigns nobody watches anymore.
	active := make(map[string]bool, len(watched))
	for _, id := range watched {
		active[id] = true
	}
	for id := range p.last {
		if !active[id] {
			delete(p.last, id)
		}
	}

	for _, campaignID := range watched {
		n, err := p.source.ExecutionNarrative(ctx, campaignID)
		if err != nil {
			log.Printf("WARN: failed to compute narrative for %s: %v", campaignID, err)
			continue
		}
		if n == nil {
			continue
		}

		payload, err := json.Marshal(n)
		if err != nil {
			log.Printf("WARN: failed to marshal narrative for %s: %v", campaignID, err)
			continue
		}
		if p.last[campaignID] == string(payload) {
			continue
		}
		p.last[campaignID] = string(payload)
		p.hub.Broadcast(campaignID, payload)
	}
}
