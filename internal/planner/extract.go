package planner

import "encoding/json"

// Placeholder values used when manual extraction cannot recover a field.
// Documented defaults, never silently empty.
const (
	placeholderOperation   = "unknown operation"
	placeholderDescription = "no description provided"
	placeholderSummary     = "plan recovered from malformed response"
)

// extractPlan is the best-effort recovery pass for a plan payload that
// failed schema validation. It re-parses the raw payload as loose JSON and
// recovers each step field by field; steps that are not JSON objects are
// dropped.
func extractPlan(raw []byte) Plan {
	plan := Plan{Steps: []Operation{}, Summary: placeholderSummary}

	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return plan
	}

	if summary, ok := loose["summary"].(string); ok && summary != "" {
		plan.Summary = summary
	}

	steps, _ := loose["steps"].([]any)
	for _, rawStep := range steps {
		stepMap, ok := rawStep.(map[string]any)
		if !ok {
			continue
		}

		op := Operation{
			Operation:   placeholderOperation,
			Description: placeholderDescription,
			Params:      map[string]any{},
		}
		if name, ok := stepMap["operation"].(string); ok && name != "" {
			op.Operation = name
		}
		if desc, ok := stepMap["description"].(string); ok && desc != "" {
			op.Description = desc
		}
		if params, ok := stepMap["params"].(map[string]any); ok {
			op.Params = params
		}
		plan.Steps = append(plan.Steps, op)
	}
	return plan
}
