package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylark-aero/skylark/pkg/model"
	"github.com/skylark-aero/skylark/pkg/storage"
	"github.com/skylark-aero/skylark/pkg/tool"
	"github.com/skylark-aero/skylark/pkg/tool/ops"
)

// scriptedProvider returns canned responses in order, recording requests.
type scriptedProvider struct {
	responses []*model.ChatResponse
	requests  []model.ChatRequest
	err       error
}

func (p *scriptedProvider) ID() string { return "scripted" }

func (p *scriptedProvider) ChatCompletion(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	idx := len(p.requests) - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func textResponse(text string) *model.ChatResponse {
	return &model.ChatResponse{Choices: []model.Choice{{
		Message:      model.Message{Role: "assistant", Content: text},
		FinishReason: "stop",
	}}}
}

func toolCallResponse(name, args string) *model.ChatResponse {
	return &model.ChatResponse{Choices: []model.Choice{{
		Message: model.Message{
			Role: "assistant",
			ToolCalls: []model.ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: model.FunctionCall{Name: name, Arguments: args},
			}},
		},
		FinishReason: "tool_calls",
	}}}
}

// countTool counts its invocations.
type countTool struct {
	calls  int
	params []map[string]any
}

func (t *countTool) Name() string        { return "count" }
func (t *countTool) Description() string { return "counts calls" }
func (t *countTool) Parameters() ops.ParameterSchema {
	return ops.ParameterSchema{Type: "object", Properties: map[string]ops.PropertySchema{}}
}
func (t *countTool) Execute(ctx context.Context, params map[string]any) (*ops.Result, error) {
	t.calls++
	t.params = append(t.params, params)
	return ops.OK(map[string]any{"calls": t.calls}), nil
}

func newTestExecutor(p model.Provider) (*Executor, *countTool) {
	registry := tool.NewRegistry()
	ct := &countTool{}
	registry.Register(ct)
	exec := NewExecutor(p, registry)
	exec.TurnTimeout = 0
	return exec, ct
}

func TestSubmitPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*model.ChatResponse{textResponse("Three pilots are available.")}}
	exec, ct := newTestExecutor(provider)

	result, err := exec.Submit(context.Background(), "", "who is free?")
	require.NoError(t, err)

	assert.Equal(t, "Three pilots are available.", result.Answer)
	assert.Equal(t, StateDone, result.State)
	assert.False(t, result.Truncated)
	assert.Equal(t, 0, ct.calls)
	require.Len(t, result.Rounds, 1)

	// The request carries the system prompt, the user message, and the
	// tool catalog.
	req := provider.requests[0]
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "who is free?", req.Messages[1].Content)
	assert.Len(t, req.Tools, 1)
	assert.Equal(t, "auto", req.ToolChoice)
}

func TestSubmitToolCallLoop(t *testing.T) {
	provider := &scriptedProvider{responses: []*model.ChatResponse{
		toolCallResponse("count", `{"status":"Available"}`),
		textResponse("Done: one call."),
	}}
	exec, ct := newTestExecutor(provider)

	result, err := exec.Submit(context.Background(), "", "count something")
	require.NoError(t, err)

	assert.Equal(t, "Done: one call.", result.Answer)
	assert.Equal(t, 1, ct.calls)
	assert.Equal(t, "Available", ct.params[0]["status"])
	require.Len(t, result.Rounds, 2)
	require.Len(t, result.Rounds[0].ToolCalls, 1)
	assert.Equal(t, "count", result.Rounds[0].ToolCalls[0].Name)
	assert.True(t, result.Rounds[0].ToolCalls[0].Result.Success)

	// The second request replays the assistant tool call and the tool
	// result message.
	second := provider.requests[1]
	require.Len(t, second.Messages, 4)
	assert.Equal(t, "tool", second.Messages[3].Role)
	assert.Equal(t, "call_1", second.Messages[3].ToolCallID)
	assert.Contains(t, second.Messages[3].Content, `"success":true`)
}

func TestSubmitTruncatesAtRoundCap(t *testing.T) {
	provider := &scriptedProvider{responses: []*model.ChatResponse{
		toolCallResponse("count", `{}`),
	}}
	exec, ct := newTestExecutor(provider)
	exec.MaxRounds = 3

	result, err := exec.Submit(context.Background(), "", "loop forever")
	require.NoError(t, err)

	assert.Equal(t, StateTruncated, result.State)
	assert.True(t, result.Truncated)
	assert.Contains(t, result.Answer, "truncated")
	assert.Equal(t, 3, ct.calls, "one dispatch per round up to the cap")
	assert.Len(t, result.Rounds, 3)
}

func TestSubmitMalformedArguments(t *testing.T) {
	provider := &scriptedProvider{responses: []*model.ChatResponse{
		toolCallResponse("count", `{not json`),
		textResponse("ok"),
	}}
	exec, ct := newTestExecutor(provider)

	result, err := exec.Submit(context.Background(), "", "go")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Answer)
	require.Equal(t, 1, ct.calls, "malformed arguments dispatch as empty params")
	assert.Empty(t, ct.params[0])
}

func TestSubmitProviderError(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("rate limited")}
	exec, _ := newTestExecutor(provider)

	_, err := exec.Submit(context.Background(), "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSubmitBackfillsCallID(t *testing.T) {
	resp := toolCallResponse("count", `{}`)
	resp.Choices[0].Message.ToolCalls[0].ID = ""
	provider := &scriptedProvider{responses: []*model.ChatResponse{resp, textResponse("ok")}}
	exec, _ := newTestExecutor(provider)

	result, err := exec.Submit(context.Background(), "", "go")
	require.NoError(t, err)
	require.Len(t, result.Rounds[0].ToolCalls, 1)
	assert.True(t, strings.HasPrefix(result.Rounds[0].ToolCalls[0].ID, "call_"))
}

func TestSubmitPersistsHistory(t *testing.T) {
	store, err := storage.New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	provider := &scriptedProvider{responses: []*model.ChatResponse{textResponse("answer one")}}
	exec, _ := newTestExecutor(provider)
	exec.Store = store

	_, err = exec.Submit(context.Background(), "sess_1", "question one")
	require.NoError(t, err)

	msgs, err := store.Messages("sess_1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "question one", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)

	// The next turn replays the prior exchange before the new question.
	provider.responses = []*model.ChatResponse{textResponse("answer two")}
	provider.requests = nil
	_, err = exec.Submit(context.Background(), "sess_1", "question two")
	require.NoError(t, err)

	req := provider.requests[0]
	require.Len(t, req.Messages, 4)
	assert.Equal(t, "question one", req.Messages[1].Content)
	assert.Equal(t, "answer one", req.Messages[2].Content)
	assert.Equal(t, "question two", req.Messages[3].Content)
}

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.True(t, strings.HasPrefix(a, "sess_"))
	assert.NotEqual(t, a, b)
}
