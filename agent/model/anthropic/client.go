// Package anthropic provides a model.Engine implementation backed by the
// Anthropic Claude Messages API. Grounded on the teacher's
// features/model/anthropic client: same MessagesClient seam (so tests can
// substitute a fake), same resolveModelID tiering by model.ModelClass, same
// rate-limit classification.
package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/model"
)

// MessagesClient captures the subset of the Anthropic SDK used by the
// adapter so callers can substitute a fake in tests.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts...option.RequestOption) (*sdk.Message, error)
}

// Options configures optional adapter behavior.
type Options struct {
	DefaultModel string
	HighModel string
	SmallModel string
	MaxTokens int
	Temperature float64
}

// Client implements model.Engine on top of Anthropic Claude Messages.
type Client struct {
	msg MessagesClient
	defaultModel string
	highModel string
	smallModel string
	maxTokens int
	temperature float64
}

// New builds an adapter from an explicit MessagesClient and options.
func New(msg MessagesClient, opts Options) (*Client, error) {
	if msg == nil {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "anthropic client is required")
	}
	if opts.DefaultModel == "" {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "default model identifier is required")
	}
	return &Client{
		msg: msg,
		defaultModel: opts.DefaultModel,
		highModel: opts.HighModel,
		smallModel: opts.SmallModel,
		maxTokens: opts.MaxTokens,
		temperature: opts.Temperature,
	}, nil
}

// NewFromAPIKey constructs a client reading ANTHROPIC_API_KEY-style
// credentials from apiKey. Returns a KindConfiguration error if apiKey is
// empty: configuration errors are fatal at startup, never mid-run.
func NewFromAPIKey(apiKey, defaultModel string) (*Client, error) {
	if apiKey == "" {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "ANTHROPIC_API_KEY is required")
	}
	ac := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&ac.Messages, Options{DefaultModel: defaultModel})
}

// Execute implements model.Engine.
func (c *Client) Execute(ctx context.Context, req model.Request) (model.Response, error) {
	if len(req.Messages) == 0 {
		return model.Response{}, agenterrors.New(agenterrors.KindValidation, "anthropic: messages are required")
	}
	modelID := c.resolveModelID(req)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens <= 0 {
		return model.Response{}, agenterrors.New(agenterrors.KindValidation, "anthropic: max_tokens must be positive")
	}

	var system []sdk.TextBlockParam
	msgs := make([]sdk.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = append(system, sdk.TextBlockParam{Text: m.Content})
			continue
		}
		block := sdk.NewTextBlock(m.Content)
		if m.Role == "assistant" {
			msgs = append(msgs, sdk.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, sdk.NewUserMessage(block))
		}
	}

	params := sdk.MessageNewParams{
		Model: sdk.Model(modelID),
		MaxTokens: int64(maxTokens),
		Messages: msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if t := req.Temperature; t > 0 {
		params.Temperature = sdk.Float(t)
	} else if c.temperature > 0 {
		params.Temperature = sdk.Float(c.temperature)
	}

	msg, err := c.msg.New(ctx, params)
	if err != nil {
		if isRateLimited(err) {
			return model.Response{}, agenterrors.NewWithCause(agenterrors.KindNetwork, "anthropic: rate limited", err)
		}
		return model.Response{}, agenterrors.NewWithCause(agenterrors.KindEngine, "anthropic: messages.new failed", err)
	}
	return translateResponse(msg), nil
}

func (c *Client) resolveModelID(req model.Request) string {
	if req.Model != "" {
		return req.Model
	}
	switch req.ModelClass {
	case model.ModelClassHighReasoning:
		if c.highModel != "" {
			return c.highModel
		}
	case model.ModelClassSmall:
		if c.smallModel != "" {
			return c.smallModel
		}
	}
	return c.defaultModel
}

func translateResponse(msg *sdk.Message) model.Response {
	var content string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			content += block.Text
		}
	}
	return model.Response{
		Content: content,
		Model: string(msg.Model),
		FinishReason: string(msg.StopReason),
		Usage: model.Usage{
			PromptTokens: int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
		},
	}
}

func isRateLimited(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}
