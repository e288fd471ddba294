package codegen

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/core"
	"github.com/njfio/fluent-agent-core/agent/model"
)

type fakeEngine struct {
	responses []string
	calls int
}

func (f *fakeEngine) Execute(context.Context, model.Request) (model.Response, error) {
	i := f.calls
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	f.calls++
	return model.Response{Content: f.responses[i]}, nil
}

func TestGenerate_PassesValidationFirstTry(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{responses: []string{strings.Repeat("x", 300)}}
	gen, err := New(engine, Options{ValidatorFor: DefaultValidatorFor})
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "write a simple html page", core.NewExecutionContext(&core.Goal{ID: "g"}))
	require.NoError(t, err)
	require.Equal(t, 1, engine.calls)
	require.Len(t, out, 300)
}

func TestGenerate_RefinesOnValidationFailure(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{responses: []string{
			"too short",
			"<canvas></canvas> keydown " + strings.Repeat("x", 4096),
		}}
	gen, err := New(engine, Options{ValidatorFor: DefaultValidatorFor})
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "build a tetris game", core.NewExecutionContext(&core.Goal{ID: "g"}))
	require.NoError(t, err)
	require.Equal(t, 2, engine.calls)
	require.Contains(t, out, "<canvas>")
}

func TestGenerate_ReturnsRawResponseWhenStillInvalid(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{responses: []string{"short", "still short"}}
	gen, err := New(engine, Options{ValidatorFor: DefaultValidatorFor})
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "build a tetris game", core.NewExecutionContext(&core.Goal{ID: "g"}))
	require.NoError(t, err)
	require.Equal(t, "still short", out)
	require.Equal(t, 2, engine.calls)
}

func TestGenerate_RequiresSpecification(t *testing.T) {
	t.Parallel()

	gen, err := New(&fakeEngine{responses: []string{"x"}}, Options{})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), " ", core.NewExecutionContext(&core.Goal{ID: "g"}))
	require.Error(t, err)
}
