// Package model defines the ReasoningEngine capability interface
// and the request/response shapes the orchestrator exchanges with it. The
// core owns no concrete ReasoningEngine implementation; adapters in
// agent/model/anthropic, agent/model/openai, and agent/model/bedrock wrap the
// corresponding provider SDKs. Grounded on the teacher's runtime/agent/model
// package (Client interface, Request/Response shapes, ModelClass).
package model

import "context"

// ModelClass lets callers request a model tier without naming a concrete
// model identifier, the way the teacher's adapters resolve
// DefaultModel/HighModel/SmallModel.
type ModelClass string

const (
	ModelClassDefault ModelClass = ""
	ModelClassHighReasoning ModelClass = "high_reasoning"
	ModelClassSmall ModelClass = "small"
)

// Message is one turn of conversation supplied to a reasoning call.
type Message struct {
	Role string // "system", "user", "assistant"
	Content string
}

// Request is the payload sent to a ReasoningEngine.
type Request struct {
	// Flowname labels the kind of call being made (e.g. "agent.reason"),
	// mirroring the teacher's execute(request: {flowname, payload}) shape.
	Flowname string
	Messages []Message
	Model string
	ModelClass ModelClass
	MaxTokens int
	Temperature float64
}

// Usage reports token accounting for one call.
type Usage struct {
	PromptTokens int
	CompletionTokens int
}

// Response is the ReasoningEngine's answer to a Request.
type Response struct {
	Content string
	Usage Usage
	Model string
	FinishReason string
	Cost float64
}

// Engine is the capability interface the orchestrator depends on for
// reasoning. Implementations wrap a specific provider SDK.
type Engine interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// FileUploader is optionally implemented by engines that support uploading
// reference files ahead of a request.
type FileUploader interface {
	UploadFile(ctx context.Context, path string) (fileID string, err error)
	ProcessRequestWithFile(ctx context.Context, req Request, path string) (Response, error)
}
