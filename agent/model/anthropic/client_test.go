package anthropic

import (
	"context"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/model"
)

type stubMessagesClient struct {
	lastParams sdk.MessageNewParams
	resp *sdk.Message
	err error
}

func (s *stubMessagesClient) New(_ context.Context, body sdk.MessageNewParams, _...option.RequestOption) (*sdk.Message, error) {
	s.lastParams = body
	return s.resp, s.err
}

func TestExecute_TextOnly(t *testing.T) {
	t.Parallel()

	stub := &stubMessagesClient{
		resp: &sdk.Message{
			Model: sdk.ModelClaudeSonnet4_5_20250929,
			StopReason: sdk.StopReasonEndTurn,
			Content: []sdk.ContentBlockUnion{
				{Type: "text", Text: "hello back"},
			},
			Usage: sdk.Usage{InputTokens: 10, OutputTokens: 5},
		},
	}
	cl, err := New(stub, Options{DefaultModel: "claude-3.5-sonnet", MaxTokens: 128})
	require.NoError(t, err)

	resp, err := cl.Execute(context.Background(), model.Request{
			Messages: []model.Message{{Role: "user", Content: "hello"}},
		})
	require.NoError(t, err)
	require.Equal(t, "hello back", resp.Content)
	require.Equal(t, 10, resp.Usage.PromptTokens)
	require.Equal(t, 5, resp.Usage.CompletionTokens)
	require.Equal(t, string(sdk.StopReasonEndTurn), resp.FinishReason)
	require.Len(t, stub.lastParams.Messages, 1)
}

func TestExecute_RequiresMessages(t *testing.T) {
	t.Parallel()

	cl, err := New(&stubMessagesClient{}, Options{DefaultModel: "claude-3.5-sonnet", MaxTokens: 128})
	require.NoError(t, err)

	_, err = cl.Execute(context.Background(), model.Request{})
	require.Error(t, err)
}

func TestResolveModelID_Tiering(t *testing.T) {
	t.Parallel()

	cl, err := New(&stubMessagesClient{}, Options{
			DefaultModel: "default-model",
			HighModel: "high-model",
			SmallModel: "small-model",
			MaxTokens: 128,
		})
	require.NoError(t, err)

	require.Equal(t, "default-model", cl.resolveModelID(model.Request{}))
	require.Equal(t, "high-model", cl.resolveModelID(model.Request{ModelClass: model.ModelClassHighReasoning}))
	require.Equal(t, "small-model", cl.resolveModelID(model.Request{ModelClass: model.ModelClassSmall}))
	require.Equal(t, "explicit-model", cl.resolveModelID(model.Request{Model: "explicit-model", ModelClass: model.ModelClassSmall}))
}
