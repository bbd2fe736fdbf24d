// Package policy evaluates governance rules over campaign mutations.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.campaign_policy.decision"),
		rego.Module("campaign_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the campaign policy for one mutation.
// Input is a map with keys: action, campaign_status, execution_mode,
// has_active_run. Returns the decision (allow or block) and an optional
// reason.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result set means the module
		// is missing its default rule.
		return "allow", "default", nil
	}

	switch val := results[0].Expressions[0].Value.(type) {
	case string:
		return val, "", nil
	case map[string]interface{}:
		decision, _ := val["decision"].(string)
		reason, _ := val["reason"].(string)
		if decision == "" {
			decision = "allow"
		}
		return decision, reason, nil
	}

	return "allow", "unexpected return type", nil
}

// DefaultPolicy is the default campaign governance policy.
const DefaultPolicy = `
package campaign_policy

# A campaign with an in-flight run cannot be archived or deleted.
block contains "campaign has an active run" if {
	input.action in {"campaign.archive", "campaign.delete"}
	input.has_active_run
}

# Runs can only be triggered on active campaigns.
block contains "campaign is not active" if {
	input.action == "run.trigger"
	input.campaign_status != "active"
}

# One execution at a time per campaign.
block contains "a run is already in flight" if {
	input.action == "run.trigger"
	input.has_active_run
}

default decision := {"decision": "allow"}

decision := {"decision": "block", "reason": concat("; ", sort(block))} if {
	count(block) > 0
}
`
