package domain

import (
	"encoding/json"
	"math"
)

// Detail payload schemas, one per event kind the narrative mapper reads.
// Decoding is strict per field: a field of the wrong shape is treated as
// absent and the rest of the payload still decodes. Keys outside the schema
// are ignored.

// StageBoundaryDetail is the payload of a stage.boundary event.
type StageBoundaryDetail struct {
	Stage         string `json:"stage"`
	Transition    string `json:"transition"` // "started" or "complete"
	OrgsFound     *int   `json:"orgs_found,omitempty"`
	ContactsFound *int   `json:"contacts_found,omitempty"`
	LeadsPromoted *int   `json:"leads_promoted,omitempty"`
	Count         *int   `json:"count,omitempty"`
	Message       string `json:"message,omitempty"`
}

// FailureContextDetail is the payload of a run.failure_context event.
type FailureContextDetail struct {
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// KeywordSummaryDetail is the payload of a keyword.summary event.
type KeywordSummaryDetail struct {
	Total *int `json:"total,omitempty"`
}

// KeywordHealthDetail is the payload of a keyword.health event.
type KeywordHealthDetail struct {
	WithResults    []string `json:"with_results,omitempty"`
	WithoutResults []string `json:"without_results,omitempty"`
}

// KeywordLowCoverageDetail is the payload of a keyword.low_coverage event.
type KeywordLowCoverageDetail struct {
	Message string `json:"message,omitempty"`
}

// DecodeStageBoundary decodes a stage.boundary detail payload. A payload that
// is not a JSON object yields ok=false; malformed individual fields are
// dropped.
func DecodeStageBoundary(raw json.RawMessage) (StageBoundaryDetail, bool) {
	fields, ok := detailFields(raw)
	if !ok {
		return StageBoundaryDetail{}, false
	}
	d := StageBoundaryDetail{
		Stage:         stringField(fields, "stage"),
		Transition:    stringField(fields, "transition", "direction"),
		OrgsFound:     intField(fields, "orgs_found", "organizations_discovered"),
		ContactsFound: intField(fields, "contacts_found", "contacts_discovered"),
		LeadsPromoted: intField(fields, "leads_promoted"),
		Count:         intField(fields, "count"),
		Message:       stringField(fields, "message"),
	}
	return d, true
}

// DecodeFailureContext decodes a run.failure_context detail payload.
func DecodeFailureContext(raw json.RawMessage) (FailureContextDetail, bool) {
	fields, ok := detailFields(raw)
	if !ok {
		return FailureContextDetail{}, false
	}
	return FailureContextDetail{
		Message: stringField(fields, "message"),
		Reason:  stringField(fields, "reason"),
	}, true
}

// DecodeKeywordSummary decodes a keyword.summary detail payload.
func DecodeKeywordSummary(raw json.RawMessage) (KeywordSummaryDetail, bool) {
	fields, ok := detailFields(raw)
	if !ok {
		return KeywordSummaryDetail{}, false
	}
	return KeywordSummaryDetail{Total: intField(fields, "total", "total_keywords")}, true
}

// DecodeKeywordHealth decodes a keyword.health detail payload.
func DecodeKeywordHealth(raw json.RawMessage) (KeywordHealthDetail, bool) {
	fields, ok := detailFields(raw)
	if !ok {
		return KeywordHealthDetail{}, false
	}
	return KeywordHealthDetail{
		WithResults:    stringListField(fields, "with_results"),
		WithoutResults: stringListField(fields, "without_results"),
	}, true
}

// DecodeKeywordLowCoverage decodes a keyword.low_coverage detail payload.
func DecodeKeywordLowCoverage(raw json.RawMessage) (KeywordLowCoverageDetail, bool) {
	fields, ok := detailFields(raw)
	if !ok {
		return KeywordLowCoverageDetail{}, false
	}
	return KeywordLowCoverageDetail{Message: stringField(fields, "message")}, true
}

func detailFields(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return ""
}

func intField(fields map[string]json.RawMessage, keys ...string) *int {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if f != math.Trunc(f) {
			continue
		}
		n := int(f)
		return &n
	}
	return nil
}

func stringListField(fields map[string]json.RawMessage, keys ...string) []string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return list
		}
	}
	return nil
}
