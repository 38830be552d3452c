package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/skylark-aero/skylark/pkg/logging"
	"github.com/skylark-aero/skylark/pkg/model"
	"github.com/skylark-aero/skylark/pkg/storage"
	"github.com/skylark-aero/skylark/pkg/tool"
	"github.com/skylark-aero/skylark/pkg/tool/ops"
)

// State tracks where a turn is in its lifecycle.
type State int

const (
	StateAwaitingModel State = iota
	StateDispatching
	StateDone
	StateTruncated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateDispatching:
		return "dispatching"
	case StateDone:
		return "done"
	case StateTruncated:
		return "truncated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	// DefaultMaxRounds caps model round-trips within a single turn. Each
	// round is one completion request plus the dispatch of whatever tool
	// calls it asked for.
	DefaultMaxRounds = 6

	// DefaultTurnTimeout bounds a whole turn, covering every model call
	// and tool dispatch inside it.
	DefaultTurnTimeout = 3 * time.Minute

	truncationNotice = "[Response truncated: the tool budget for this request was exhausted before the model produced a final answer.]"
)

// ToolCallRecord captures one dispatched tool call and its outcome.
type ToolCallRecord struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Arguments string      `json:"arguments"`
	Result    *ops.Result `json:"result"`
}

// Round is the immutable record of one model round-trip.
type Round struct {
	Index         int              `json:"index"`
	AssistantText string           `json:"assistant_text,omitempty"`
	ToolCalls     []ToolCallRecord `json:"tool_calls,omitempty"`
}

// TurnResult is what a completed (or truncated) turn hands back to the caller.
type TurnResult struct {
	Answer    string
	State     State
	Truncated bool
	Rounds    []Round
	Usage     model.Usage
}

// Executor drives the conversation loop: send the transcript to the model,
// dispatch any tool calls it requests, feed the results back, and repeat
// until the model answers in plain text or the round budget runs out.
type Executor struct {
	Provider model.Provider
	Registry *tool.Registry

	// Store persists turns when non-nil. A nil store gives a stateless
	// executor, which the one-shot CLI mode uses.
	Store *storage.Store
	Log   *logging.Logger

	Model       string
	Temperature float64
	MaxTokens   int
	MaxRounds   int
	TurnTimeout time.Duration
}

// NewExecutor wires an executor with defaults suitable for interactive use.
func NewExecutor(provider model.Provider, registry *tool.Registry) *Executor {
	return &Executor{
		Provider:    provider,
		Registry:    registry,
		Model:       model.DefaultGroqModel,
		Temperature: 0.2,
		MaxRounds:   DefaultMaxRounds,
		TurnTimeout: DefaultTurnTimeout,
	}
}

// Submit runs one user turn to completion. The returned error is reserved
// for infrastructure failures: provider errors, persistence errors, and
// context cancellation. Tool failures ride inside the transcript as data
// and never abort the turn.
func (e *Executor) Submit(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	if e.Provider == nil {
		return nil, fmt.Errorf("agent: no model provider configured")
	}
	if e.Registry == nil {
		return nil, fmt.Errorf("agent: no tool registry configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.TurnTimeout)
		defer cancel()
	}

	maxRounds := e.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	messages, err := e.openingMessages(sessionID, userText)
	if err != nil {
		return nil, err
	}
	if err := e.persist(sessionID, "user", userText, ""); err != nil {
		return nil, err
	}
	if e.Log != nil {
		e.Log.Debug(logging.CategoryConversation, "turn_started", "", map[string]any{"session": sessionID})
	}

	result := &TurnResult{State: StateAwaitingModel}
	lastText := ""

	for round := 0; round < maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.State = StateAwaitingModel
		resp, err := e.Provider.ChatCompletion(ctx, model.ChatRequest{
			Model:       e.Model,
			Messages:    messages,
			Temperature: e.Temperature,
			MaxTokens:   e.MaxTokens,
			Tools:       e.Registry.Catalog(),
			ToolChoice:  "auto",
		})
		if err != nil {
			result.State = StateFailed
			return nil, fmt.Errorf("model call failed: %w", err)
		}
		result.Usage.PromptTokens += resp.Usage.PromptTokens
		result.Usage.CompletionTokens += resp.Usage.CompletionTokens
		result.Usage.TotalTokens += resp.Usage.TotalTokens

		if len(resp.Choices) == 0 {
			result.State = StateFailed
			return nil, fmt.Errorf("model returned no choices")
		}
		choice := resp.Choices[0]
		assistant := choice.Message

		if len(assistant.ToolCalls) == 0 {
			result.Rounds = append(result.Rounds, Round{Index: round, AssistantText: assistant.Content})
			result.Answer = assistant.Content
			result.State = StateDone
			if err := e.persist(sessionID, "assistant", result.Answer, ""); err != nil {
				return nil, err
			}
			if e.Log != nil {
				e.Log.Info(logging.CategoryConversation, "turn_complete", "", map[string]any{
					"session": sessionID,
					"rounds":  round + 1,
				})
			}
			return result, nil
		}

		if assistant.Content != "" {
			lastText = assistant.Content
		}
		messages = append(messages, assistant)
		result.State = StateDispatching

		rec := Round{Index: round, AssistantText: assistant.Content}
		for _, call := range assistant.ToolCalls {
			callID := call.ID
			if callID == "" {
				callID = newCallID()
			}
			params := parseArguments(call.Function.Arguments)
			res, err := e.Registry.Execute(ctx, call.Function.Name, params)
			if err != nil {
				// Only cancellation comes back as a Go error.
				result.State = StateFailed
				return nil, err
			}
			rec.ToolCalls = append(rec.ToolCalls, ToolCallRecord{
				ID:        callID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
				Result:    res,
			})
			messages = append(messages, model.Message{
				Role:       "tool",
				Content:    tool.ResultJSON(res),
				ToolCallID: callID,
				Name:       call.Function.Name,
			})
		}
		result.Rounds = append(result.Rounds, rec)
	}

	// Round budget exhausted with tool calls still coming. Surface whatever
	// text the model produced along the way rather than nothing.
	answer := lastText
	if answer == "" {
		answer = "I was unable to finish this request within the tool budget. Please narrow the question and try again."
	}
	result.Answer = strings.TrimSpace(answer + "\n\n" + truncationNotice)
	result.Truncated = true
	result.State = StateTruncated
	if err := e.persist(sessionID, "assistant", result.Answer, ""); err != nil {
		return nil, err
	}
	if e.Log != nil {
		e.Log.Warn(logging.CategoryConversation, "turn_truncated", "", map[string]any{
			"session": sessionID,
			"rounds":  maxRounds,
		})
	}
	return result, nil
}

// openingMessages rebuilds the transcript for a session: system prompt,
// prior user/assistant exchanges, then the new user message. Tool messages
// are not replayed; each turn re-fetches live data through tools anyway.
func (e *Executor) openingMessages(sessionID, userText string) ([]model.Message, error) {
	messages := []model.Message{{Role: "system", Content: SystemPrompt}}
	if e.Store != nil && sessionID != "" {
		history, err := e.Store.Messages(sessionID)
		if err != nil {
			return nil, fmt.Errorf("loading session history: %w", err)
		}
		for _, m := range history {
			if m.Role != "user" && m.Role != "assistant" {
				continue
			}
			messages = append(messages, model.Message{Role: m.Role, Content: m.Content})
		}
	}
	messages = append(messages, model.Message{Role: "user", Content: userText})
	return messages, nil
}

func (e *Executor) persist(sessionID, role, content, contentJSON string) error {
	if e.Store == nil || sessionID == "" {
		return nil
	}
	if err := e.Store.EnsureSession(sessionID); err != nil {
		return fmt.Errorf("ensuring session: %w", err)
	}
	if err := e.Store.SaveMessage(&storage.Message{
		SessionID:   sessionID,
		Role:        role,
		Content:     content,
		ContentJSON: contentJSON,
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

func parseArguments(raw string) map[string]any {
	params := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return params
	}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		// Malformed arguments dispatch as empty; required-parameter
		// validation in the registry reports the real problem back to
		// the model as data it can react to.
		return map[string]any{}
	}
	return params
}
