package domain

import "time"

// Campaign is the configuration record a run executes against.
type Campaign struct {
	CampaignID    string         `json:"campaign_id"`
	Name          string         `json:"name"`
	Status        CampaignStatus `json:"status"`
	ExecutionMode string         `json:"execution_mode"`
	Keywords      []string       `json:"keywords,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
