package domain

// CampaignCreateRequest is the request body for creating a campaign.
type CampaignCreateRequest struct {
	Name          string   `json:"name"`
	ExecutionMode string   `json:"execution_mode,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// CampaignUpdateRequest is the request body for updating a campaign. Nil
// fields are left unchanged.
type CampaignUpdateRequest struct {
	Name          *string         `json:"name,omitempty"`
	Status        *CampaignStatus `json:"status,omitempty"`
	ExecutionMode *string         `json:"execution_mode,omitempty"`
	Keywords      *[]string       `json:"keywords,omitempty"`
}

// EventIngestRequest is the request body for the internal event ingest
// endpoint. The backend posts events in batches.
type EventIngestRequest struct {
	Events []Event `json:"events"`
}
