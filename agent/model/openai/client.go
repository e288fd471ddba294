// Package openai provides a model.Engine implementation backed by the OpenAI
// Chat Completions API via github.com/openai/openai-go. Grounded on the
// teacher's features/model/openai adapter: same ChatClient seam for test
// doubles, same translateResponse shape, generalized to the core's simpler
// model.Request/Response (no tool-call surface — this core routes tool calls
// through its own ActionExecutor, not through the reasoning engine).
package openai

import (
	"context"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/model"
)

// ChatClient captures the subset of the openai-go client used by the
// adapter so callers can substitute a fake in tests.
type ChatClient interface {
	New(ctx context.Context, params openaisdk.ChatCompletionNewParams, opts...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

// Options configures the adapter.
type Options struct {
	DefaultModel string
}

// Client implements model.Engine via OpenAI Chat Completions.
type Client struct {
	chat ChatClient
	model string
}

// New builds an adapter from an explicit ChatClient and options.
func New(chat ChatClient, opts Options) (*Client, error) {
	if chat == nil {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "openai client is required")
	}
	modelID := strings.TrimSpace(opts.DefaultModel)
	if modelID == "" {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "default model is required")
	}
	return &Client{chat: chat, model: modelID}, nil
}

// NewFromAPIKey constructs a client reading credentials from apiKey.
func NewFromAPIKey(apiKey, defaultModel string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "OPENAI_API_KEY is required")
	}
	c := openaisdk.NewClient(option.WithAPIKey(apiKey))
	return New(&c.Chat.Completions, Options{DefaultModel: defaultModel})
}

// Execute implements model.Engine.
func (c *Client) Execute(ctx context.Context, req model.Request) (model.Response, error) {
	if len(req.Messages) == 0 {
		return model.Response{}, agenterrors.New(agenterrors.KindValidation, "openai: messages are required")
	}
	modelID := strings.TrimSpace(req.Model)
	if modelID == "" {
		modelID = c.model
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openaisdk.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openaisdk.AssistantMessage(m.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(m.Content))
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(modelID),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openaisdk.Float(req.Temperature)
	}

	resp, err := c.chat.New(ctx, params)
	if err != nil {
		if strings.Contains(err.Error(), "429") {
			return model.Response{}, agenterrors.NewWithCause(agenterrors.KindNetwork, "openai: rate limited", err)
		}
		return model.Response{}, agenterrors.NewWithCause(agenterrors.KindEngine, "openai: chat completion failed", err)
	}
	return translateResponse(resp), nil
}

func translateResponse(resp *openaisdk.ChatCompletion) model.Response {
	var content, finish string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finish = string(resp.Choices[0].FinishReason)
	}
	return model.Response{
		Content: content,
		Model: resp.Model,
		FinishReason: finish,
		Usage: model.Usage{
			PromptTokens: int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
		},
	}
}
