// Package tools implements the ToolExecutor capability of : a
// registry of callable tools with JSON Schema-validated parameters. Grounded
// on the teacher's runtime/agent/tools.ToolSpec (Name/Description/Tags/
// Payload TypeSpec) for tool metadata shape, and on agent/model/registry's
// read-mostly name->implementation pattern for the registry itself. The
// teacher generates ToolSpec.Payload.Schema at compile time from Goa DSL;
// this core has no DSL layer, so schemas are registered directly as JSON
// Schema documents and compiled with santhosh-tekuri/jsonschema/v6.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
)

// Handler executes one tool invocation against validated parameters and
// returns the tool's textual result execute_tool contract.
type Handler func(ctx context.Context, params map[string]any) (string, error)

// Spec describes one registered tool: its metadata and, optionally, the JSON
// Schema its parameters must satisfy. Mirrors the shape of the teacher's
// tools.ToolSpec, trimmed to what a single-process ActionExecutor needs.
type Spec struct {
	Name string
	Description string
	Tags []string
	Schema []byte
	Handler Handler
}

// Executor is the capability calls ToolExecutor: execute_tool,
// get_available_tools, get_tool_description, validate_tool_request.
type Executor interface {
	Execute(ctx context.Context, name string, params map[string]any) (string, error)
	AvailableTools() []string
	Description(name string) (string, bool)
	Validate(name string, params map[string]any) error
}

// Registry is an in-memory, thread-safe Executor. Tools are registered once
// at startup (exclusive lock briefly held) and looked up frequently
// thereafter (read lock), the same read-mostly shape as model/registry.
type Registry struct {
	mu sync.RWMutex
	tools map[string]registeredTool
}

type registeredTool struct {
	spec Spec
	schema compiledSchema
}

// compiledSchema is satisfied by *jsonschema.Schema; kept as an interface so
// this package does not force a compiler dependency on callers that never
// register a schema.
type compiledSchema interface {
	Validate(v any) error
}

// New builds an empty tool registry.
func New() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds spec to the registry. If spec.Schema is non-empty it is
// compiled immediately so a malformed schema fails fast at startup rather
// than on first use. Pass a nil schema (via RegisterSchema) when the schema
// was already compiled by the caller, e.g. to share a compiler across tools
// with common $ref definitions.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return agenterrors.New(agenterrors.KindConfiguration, "tool name is required")
	}
	if spec.Handler == nil {
		return agenterrors.New(agenterrors.KindConfiguration, fmt.Sprintf("tool %q requires a handler", spec.Name))
	}
	var schema compiledSchema
	if len(spec.Schema) > 0 {
		compiled, err := compileSchema(spec.Name, spec.Schema)
		if err != nil {
			return agenterrors.NewWithCause(agenterrors.KindConfiguration, fmt.Sprintf("tool %q schema invalid", spec.Name), err)
		}
		schema = compiled
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[spec.Name] = registeredTool{spec: spec, schema: schema}
	return nil
}

// RegisterSchema attaches a pre-compiled schema, letting callers share one
// jsonschema.Compiler (and its $ref resolution) across several tools.
func (r *Registry) RegisterSchema(spec Spec, schema compiledSchema) error {
	if spec.Name == "" {
		return agenterrors.New(agenterrors.KindConfiguration, "tool name is required")
	}
	if spec.Handler == nil {
		return agenterrors.New(agenterrors.KindConfiguration, fmt.Sprintf("tool %q requires a handler", spec.Name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[spec.Name] = registeredTool{spec: spec, schema: schema}
	return nil
}

// AvailableTools implements Executor.
func (r *Registry) AvailableTools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Description implements Executor, returning (desc, false) when name is not
// registered, matching option<string> semantics.
func (r *Registry) Description(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return "", false
	}
	return t.spec.Description, true
}

// Validate implements Executor: checks the tool exists and, if it declared a
// schema, that params conforms to it.
func (r *Registry) Validate(name string, params map[string]any) error {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return agenterrors.New(agenterrors.KindValidation, fmt.Sprintf("unknown tool %q", name))
	}
	if t.schema == nil {
		return nil
	}
	if err := t.schema.Validate(map[string]any(params)); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindValidation, fmt.Sprintf("tool %q parameters invalid", name), err)
	}
	return nil
}

// Execute implements Executor: validates params against the registered
// schema (if any), then dispatches to the tool's handler.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (string, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", agenterrors.New(agenterrors.KindValidation, fmt.Sprintf("unknown tool %q", name))
	}
	if t.schema != nil {
		if err := t.schema.Validate(map[string]any(params)); err != nil {
			return "", agenterrors.NewWithCause(agenterrors.KindValidation, fmt.Sprintf("tool %q parameters invalid", name), err)
		}
	}
	out, err := t.spec.Handler(ctx, params)
	if err != nil {
		return "", agenterrors.NewWithCause(agenterrors.KindAction, fmt.Sprintf("tool %q execution failed", name), err)
	}
	return out, nil
}
