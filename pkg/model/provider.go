package model

import "context"

// Provider defines the behavior required for an LLM backend. The backend
// never mutates fleet data directly; every side effect it wants flows back
// through the tool registry as a tool-call request.
type Provider interface {
	ID() string
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
