package planner

import (
	"context"
	"encoding/json"
	"fmt"
)

// EditExecutor executes the editing operations a plan may contain. Unknown
// operations are reported, not failed, so a partially supported plan still
// runs to completion.
type EditExecutor struct{}

// NewEditExecutor creates a new EditExecutor.
func NewEditExecutor() *EditExecutor {
	return &EditExecutor{}
}

// Execute runs one plan operation.
func (e *EditExecutor) Execute(ctx context.Context, op Operation) (string, error) {
	switch op.Operation {
	case "insert_clip":
		return fmt.Sprintf("inserted clip with parameters: %s", formatParams(op.Params)), nil
	case "delete_section":
		return fmt.Sprintf("deleted section with parameters: %s", formatParams(op.Params)), nil
	default:
		return fmt.Sprintf("operation %s not implemented", op.Operation), nil
	}
}

func formatParams(params map[string]any) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%v", params)
	}
	return string(encoded)
}
