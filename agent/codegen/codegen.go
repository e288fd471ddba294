// Package codegen implements the CodeGenerator capability of : a
// model-backed generator with a minimum-size validator and a single
// refinement retry on validation failure. Grounded on the model.Engine
// adapters (agent/model/{anthropic,openai,bedrock}) for the single
// request/response call shape, generalized here to the text-in/text-out
// contract the ActionExecutor needs.
package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/core"
	"github.com/njfio/fluent-agent-core/agent/model"
)

// Validator describes the acceptance criteria applied to a generated
// artifact before it is returned to the caller "Tetris
// HTML >= N bytes and contains <canvas>, keydown, piece logic" example.
type Validator struct {
	MinBytes int
	RequiredSubstrings []string
}

// Check reports whether output satisfies v. A zero-value Validator accepts
// anything.
func (v Validator) Check(output string) error {
	if v.MinBytes > 0 && len(output) < v.MinBytes {
		return fmt.Errorf("output is %d bytes, want at least %d", len(output), v.MinBytes)
	}
	for _, s := range v.RequiredSubstrings {
		if !strings.Contains(output, s) {
			return fmt.Errorf("output missing required content %q", s)
		}
	}
	return nil
}

// Generator is the capability calls CodeGenerator.
type Generator interface {
	Generate(ctx context.Context, specification string, execCtx *core.ExecutionContext) (string, error)
}

// LLMGenerator implements Generator over a model.Engine, applying a
// per-goal Validator with one refinement call on failure.
type LLMGenerator struct {
	engine model.Engine
	systemPrompt string
	validatorFor func(specification string, execCtx *core.ExecutionContext) Validator
}

// Options configures an LLMGenerator.
type Options struct {
	// SystemPrompt is prepended as a system message to every generation and
	// refinement call.
	SystemPrompt string
	// ValidatorFor resolves the Validator to apply for a given specification
	// and run context. A nil func applies the zero-value Validator (accept
	// anything) to every call.
	ValidatorFor func(specification string, execCtx *core.ExecutionContext) Validator
}

// New builds an LLMGenerator over engine.
func New(engine model.Engine, opts Options) (*LLMGenerator, error) {
	if engine == nil {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "codegen: engine is required")
	}
	validatorFor := opts.ValidatorFor
	if validatorFor == nil {
		validatorFor = func(string, *core.ExecutionContext) Validator { return Validator{} }
	}
	return &LLMGenerator{
		engine: engine,
		systemPrompt: opts.SystemPrompt,
		validatorFor: validatorFor,
	}, nil
}

// Generate implements Generator: invokes the engine with specification,
// validates the result, and if validation fails issues exactly one
// refinement call demanding completeness before returning whatever it gets
// back (: "if still below threshold, return the raw response
// to aid debugging").
func (g *LLMGenerator) Generate(ctx context.Context, specification string, execCtx *core.ExecutionContext) (string, error) {
	if strings.TrimSpace(specification) == "" {
		return "", agenterrors.New(agenterrors.KindValidation, "codegen: specification is required")
	}
	validator := g.validatorFor(specification, execCtx)

	output, err := g.call(ctx, specification)
	if err != nil {
		return "", err
	}
	if err := validator.Check(output); err == nil {
		return output, nil
	}

	refined, err := g.call(ctx, refinementPrompt(specification, output))
	if err != nil {
		// The initial generation succeeded; prefer returning it over losing
		// output to a transient refinement failure.
		return output, nil
	}
	return refined, nil
}

func (g *LLMGenerator) call(ctx context.Context, prompt string) (string, error) {
	messages := make([]model.Message, 0, 2)
	if g.systemPrompt != "" {
		messages = append(messages, model.Message{Role: "system", Content: g.systemPrompt})
	}
	messages = append(messages, model.Message{Role: "user", Content: prompt})

	resp, err := g.engine.Execute(ctx, model.Request{Messages: messages})
	if err != nil {
		return "", agenterrors.NewWithCause(agenterrors.KindEngine, "codegen: generation failed", err)
	}
	return resp.Content, nil
}

func refinementPrompt(specification, previous string) string {
	var b strings.Builder
	b.WriteString("Your previous response did not fully satisfy the specification below. ")
	b.WriteString("Produce a complete, self-contained result that fully implements every requirement. ")
	b.WriteString("Do not truncate or summarize.\n\nSpecification:\n")
	b.WriteString(specification)
	b.WriteString("\n\nPrevious (incomplete) response:\n")
	b.WriteString(previous)
	return b.String()
}
