package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/skylark-aero/skylark/pkg/logging"
	"github.com/skylark-aero/skylark/pkg/tool/ops"
)

// Registry manages the fixed tool catalog. Dispatch failures (unknown tool,
// invalid arguments, handler errors) come back as result data; the only Go
// error Execute returns is context cancellation.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	log   *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// SetLogger attaches a logger for per-dispatch events.
func (r *Registry) SetLogger(log *logging.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = log
}

// Register registers a tool.
func (r *Registry) Register(t Tool) {
	if r == nil || t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools sorted by name, so the exported catalog
// is stable across runs.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Catalog converts all tools to OpenAI function calling format.
func (r *Registry) Catalog() []map[string]any {
	tools := r.List()
	functions := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		functions = append(functions, ToOpenAIFunction(t))
	}
	return functions
}

// Execute dispatches a tool call. Name lookup and argument validation run
// before the handler; their failures are returned as data with an error
// code so the model can correct itself on the next round.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (*ops.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]any{}
	}

	name = strings.TrimSpace(name)
	t, ok := r.Get(name)
	if !ok {
		res := &ops.Result{
			Success: false,
			Code:    ops.CodeUnknownTool,
			Error:   fmt.Sprintf("unknown tool: %q", name),
		}
		r.logDispatch(name, res, 0)
		return res, nil
	}

	if res := validateParams(t.Parameters(), params); res != nil {
		r.logDispatch(name, res, 0)
		return res, nil
	}

	start := time.Now()
	res, err := t.Execute(ctx, params)
	if err != nil {
		// Handlers are expected to fold their own failures into the
		// result; a Go error here is demoted to result data as well.
		res = &ops.Result{Success: false, Error: err.Error()}
	}
	if res == nil {
		res = &ops.Result{Success: false, Error: "tool returned no result"}
	}
	r.logDispatch(name, res, time.Since(start))
	return res, nil
}

// validateParams checks required parameters and primitive types against the
// declared schema. Returns nil when the arguments are acceptable.
func validateParams(schema ops.ParameterSchema, params map[string]any) *ops.Result {
	for _, req := range schema.Required {
		v, ok := params[req]
		if !ok || v == nil {
			return &ops.Result{
				Success: false,
				Code:    ops.CodeInvalidArguments,
				Error:   fmt.Sprintf("missing required parameter %q", req),
			}
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return &ops.Result{
				Success: false,
				Code:    ops.CodeInvalidArguments,
				Error:   fmt.Sprintf("required parameter %q is empty", req),
			}
		}
	}
	for key, prop := range schema.Properties {
		v, ok := params[key]
		if !ok || v == nil {
			continue
		}
		if !typeMatches(prop.Type, v) {
			return &ops.Result{
				Success: false,
				Code:    ops.CodeInvalidArguments,
				Error:   fmt.Sprintf("parameter %q must be a %s", key, prop.Type),
			}
		}
	}
	return nil
}

func typeMatches(declared string, v any) bool {
	switch declared {
	case "string":
		_, ok := v.(string)
		return ok
	case "number", "integer":
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	}
	// Unknown declared types are not enforced.
	return true
}

func (r *Registry) logDispatch(name string, res *ops.Result, took time.Duration) {
	r.mu.RLock()
	log := r.log
	r.mu.RUnlock()
	if log == nil {
		return
	}
	details := map[string]any{
		"tool":        name,
		"success":     res.Success,
		"duration_ms": took.Milliseconds(),
	}
	if res.Error != "" {
		details["error"] = res.Error
	}
	if res.Code != "" {
		details["code"] = res.Code
	}
	if res.Success {
		log.Info(logging.CategoryTool, "tool_dispatched", "tool executed", details)
	} else {
		log.Warn(logging.CategoryTool, "tool_failed", "tool returned an error", details)
	}
}
