// Package gateway declares the collaborator interfaces the agent core
// consumes but never owns: the model completion gateway and
// the optional embedding gateway. Grounded on the
// internal/embed/{types,factory,retry,cached}.go, which define the same
// shape for its own (out-of-core, embedding-only) use.
package gateway

import "context"

// CompletionRequest is what the loop sends to the model gateway each turn.
type CompletionRequest struct {
	Messages []Message
	Tools []ToolSchema
}

// Message mirrors agenttypes.Message without importing it, so gateway stays
// a leaf interface package any wire adapter can implement without pulling in
// the rest of the core.
type Message struct {
	Role string
	Content string
	ToolCalls []ToolCallRequest
	ToolCallID string
}

// ToolCallRequest is a model-issued tool call.
type ToolCallRequest struct {
	ID string
	Name string
	Arguments map[string]any
}

// ToolSchema is the JSON-schema description of one callable tool.
type ToolSchema struct {
	Name string
	Description string
	Parameters map[string]any
}

// CompletionResponse is either a final text answer or a list of tool calls,
// never both.
type CompletionResponse struct {
	Content string
	ToolCalls []ToolCallRequest
}

// ModelGateway adapts the loop to a specific model backend. Implementations
// live outside the core.
type ModelGateway interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// EmbeddingGateway is optional; its absence degrades retrieval to
// keyword-only.
type EmbeddingGateway interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
