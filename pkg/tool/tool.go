// Package tool hosts the registry that maps tool names to their handlers
// and exports the function-calling catalog consumed by the model backend.
package tool

import (
	"context"
	"encoding/json"

	"github.com/skylark-aero/skylark/pkg/tool/ops"
)

// Tool represents a named operation the language model may request.
type Tool interface {
	Name() string
	Description() string
	Parameters() ops.ParameterSchema
	Execute(ctx context.Context, params map[string]any) (*ops.Result, error)
}

// ToOpenAIFunction converts a tool to OpenAI function calling format.
func ToOpenAIFunction(t Tool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  t.Parameters(),
		},
	}
}

// ResultJSON renders a result for inclusion in a tool message.
func ResultJSON(r *ops.Result) string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"result serialization failed"}`
	}
	return string(data)
}
