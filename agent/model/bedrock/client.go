// Package bedrock provides a model.Engine implementation backed by the AWS
// Bedrock Converse API. Grounded on the teacher's features/model/bedrock
// client: same RuntimeClient seam, same system/conversation message split,
// same translateResponse shape over brtypes.ConverseOutputMemberMessage,
// simplified to this core's text-only model.Request/Response (no tool-use
// blocks — tool calls are dispatched by this core's own ActionExecutor).
package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/model"
)

// RuntimeClient mirrors the subset of the AWS Bedrock runtime client the
// adapter needs, matching *bedrockruntime.Client so callers can pass either
// the real client or a fake in tests.
type RuntimeClient interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Options configures the adapter.
type Options struct {
	DefaultModel string
	HighModel string
	SmallModel string
	MaxTokens int
	Temperature float32
}

// Client implements model.Engine on top of AWS Bedrock Converse.
type Client struct {
	runtime RuntimeClient
	defaultModel string
	highModel string
	smallModel string
	maxTokens int
	temperature float32
}

// New builds an adapter from an explicit RuntimeClient and options.
func New(runtime RuntimeClient, opts Options) (*Client, error) {
	if runtime == nil {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "bedrock runtime client is required")
	}
	if opts.DefaultModel == "" {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "default model identifier is required")
	}
	return &Client{
		runtime: runtime,
		defaultModel: opts.DefaultModel,
		highModel: opts.HighModel,
		smallModel: opts.SmallModel,
		maxTokens: opts.MaxTokens,
		temperature: opts.Temperature,
	}, nil
}

// Execute implements model.Engine.
func (c *Client) Execute(ctx context.Context, req model.Request) (model.Response, error) {
	if len(req.Messages) == 0 {
		return model.Response{}, agenterrors.New(agenterrors.KindValidation, "bedrock: messages are required")
	}
	modelID := c.resolveModelID(req)

	var system []brtypes.SystemContentBlock
	var conversation []brtypes.Message
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = append(system, &brtypes.SystemContentBlockMemberText{Value: m.Content})
			continue
		}
		role := brtypes.ConversationRoleAssistant
		if m.Role != "assistant" {
			role = brtypes.ConversationRoleUser
		}
		conversation = append(conversation, brtypes.Message{
				Role: role,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: m.Content}},
			})
	}
	if len(conversation) == 0 {
		return model.Response{}, agenterrors.New(agenterrors.KindValidation, "bedrock: at least one user/assistant message is required")
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(modelID),
		Messages: conversation,
	}
	if len(system) > 0 {
		input.System = system
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = float64(c.temperature)
	}
	if maxTokens > 0 || temperature > 0 {
		cfg := &brtypes.InferenceConfiguration{}
		if maxTokens > 0 {
			mt := int32(maxTokens)
			cfg.MaxTokens = &mt
		}
		if temperature > 0 {
			t := float32(temperature)
			cfg.Temperature = &t
		}
		input.InferenceConfig = cfg
	}

	output, err := c.runtime.Converse(ctx, input)
	if err != nil {
		return model.Response{}, agenterrors.NewWithCause(agenterrors.KindEngine, "bedrock: converse failed", err)
	}
	return translateResponse(output, modelID), nil
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

func translateResponse(output *bedrockruntime.ConverseOutput, modelID string) model.Response {
	resp := model.Response{Model: modelID, FinishReason: string(output.StopReason)}
	if msg, ok := output.Output.(*brtypes.ConverseOutputMemberMessage); ok {
		for _, block := range msg.Value.Content {
			if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
				resp.Content += text.Value
			}
		}
	}
	if usage := output.Usage; usage != nil {
		resp.Usage = model.Usage{
			PromptTokens: int(ptrValue(usage.InputTokens)),
			CompletionTokens: int(ptrValue(usage.OutputTokens)),
		}
	}
	return resp
}

func ptrValue(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}
