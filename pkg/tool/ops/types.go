// Package ops implements the fixed catalog of operations the language-model
// backend may request: roster and fleet queries, assignment mutations, and
// conflict scans. Handler failures are carried in the Result, never raised,
// so the orchestration loop can relay them to the model for self-correction.
package ops

import "fmt"

// ParameterSchema defines the parameters a tool accepts.
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema defines a single parameter.
type PropertySchema struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// Error codes carried on failed results. These are data, not Go errors: the
// orchestration loop feeds them back to the model instead of aborting.
const (
	CodeUnknownTool      = "unknown_tool"
	CodeInvalidArguments = "invalid_arguments"
)

// Result represents the outcome of a tool execution.
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
}

// OK builds a successful result.
func OK(data map[string]any) *Result {
	return &Result{Success: true, Data: data}
}

// Fail builds a failed result with a formatted handler error.
func Fail(format string, args ...any) *Result {
	return &Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// StringParam extracts an optional string parameter.
func StringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}
