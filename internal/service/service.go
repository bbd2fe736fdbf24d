// Package service implements the application logic of the campaign
// operations service.
package service

import (
	"fmt"
	"time"

	"github.com/leadpilot/campaignops/internal/config"
	"github.com/leadpilot/campaignops/internal/narrative"
	"github.com/leadpilot/campaignops/internal/policy"
	"github.com/leadpilot/campaignops/internal/repository"
)

type Service struct {
	store        repository.Store
	policyEngine *policy.Engine
	config       *config.Config
	mapper       *narrative.Mapper

	// now is the clock; overridable in tests.
	now func() time.Time
}

func New(store repository.Store, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        store,
		policyEngine: policyEngine,
		config:       cfg,
		mapper:       narrative.NewMapper(cfg.StallAfter),
		now:          time.Now,
	}
}

// BlockedError indicates a mutation was denied by the governance policy.
type BlockedError struct {
	Action string
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s blocked by policy: %s", e.Action, e.Reason)
}
