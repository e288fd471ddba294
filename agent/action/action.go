// Package action implements the ActionExecutor capability of :
// dispatch an ActionPlan to the tool registry, code generator, or file
// manager, and record a timed ActionResult with structured side effects.
// Grounded on the teacher's runtime/agent orchestration loop, which
// dispatches generated tool calls to activities/workflows behind a narrow
// interface the same way this executor dispatches ActionPlans to
// capability interfaces.
package action

import (
	"context"
	"fmt"
	"time"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/codegen"
	"github.com/njfio/fluent-agent-core/agent/core"
	"github.com/njfio/fluent-agent-core/agent/filemanager"
	"github.com/njfio/fluent-agent-core/agent/tools"
)

// Executor is the ActionExecutor capability.
type Executor interface {
	Execute(ctx context.Context, plan core.ActionPlan, execCtx *core.ExecutionContext) core.ActionResult
}

// Live implements Executor against real tool/codegen/file collaborators.
type Live struct {
	Tools tools.Executor
	Generator codegen.Generator
	Files filemanager.Manager
}

// New builds a Live executor. tools, generator, and files may be nil; a
// plan that needs a nil collaborator fails with KindConfiguration.
func New(toolExec tools.Executor, generator codegen.Generator, files filemanager.Manager) *Live {
	return &Live{Tools: toolExec, Generator: generator, Files: files}
}

// Execute implements Executor, dispatching by plan.Type.
func (l *Live) Execute(ctx context.Context, plan core.ActionPlan, execCtx *core.ExecutionContext) core.ActionResult {
	start := time.Now()
	result := core.ActionResult{
		PlanID: plan.ID,
		Type: plan.Type,
		Parameters: plan.Parameters,
		Metadata: map[string]string{},
	}

	var (
		output string
		err error
		sideEffects []core.SideEffect
	)

	switch plan.Type {
	case core.ActionToolExecution:
		output, err = l.executeTool(ctx, plan)
	case core.ActionCodeGeneration:
		output, err = l.executeCodeGeneration(ctx, plan, execCtx)
	case core.ActionFileOperation:
		output, sideEffects, err = l.executeFileOperation(plan)
	case core.ActionAnalysis, core.ActionPlanning, core.ActionCommunication:
		output = fmt.Sprintf("%s completed: %s", plan.Type, plan.Description)
	default:
		err = agenterrors.New(agenterrors.KindValidation, fmt.Sprintf("unknown action type %q", plan.Type))
	}

	result.Duration = time.Since(start)
	result.SideEffects = sideEffects
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}
	result.Success = true
	result.Output = output
	return result
}

func (l *Live) executeTool(ctx context.Context, plan core.ActionPlan) (string, error) {
	if l.Tools == nil {
		return "", agenterrors.New(agenterrors.KindConfiguration, "no tool registry configured")
	}
	name, _ := plan.Parameters["tool_name"].(string)
	if name == "" {
		return "", agenterrors.New(agenterrors.KindValidation, "tool_execution requires a tool_name parameter")
	}
	params := make(map[string]any, len(plan.Parameters))
	for k, v := range plan.Parameters {
		if k == "tool_name" {
			continue
		}
		params[k] = v
	}
	return l.Tools.Execute(ctx, name, params)
}

func (l *Live) executeCodeGeneration(ctx context.Context, plan core.ActionPlan, execCtx *core.ExecutionContext) (string, error) {
	if l.Generator == nil {
		return "", agenterrors.New(agenterrors.KindConfiguration, "no code generator configured")
	}
	spec, _ := plan.Parameters["specification"].(string)
	if spec == "" {
		spec = plan.Description
	}
	return l.Generator.Generate(ctx, spec, execCtx)
}

func (l *Live) executeFileOperation(plan core.ActionPlan) (string, []core.SideEffect, error) {
	if l.Files == nil {
		return "", nil, agenterrors.New(agenterrors.KindConfiguration, "no file manager configured")
	}
	op, _ := plan.Parameters["operation"].(string)
	path, _ := plan.Parameters["path"].(string)
	if path == "" {
		return "", nil, agenterrors.New(agenterrors.KindValidation, "file_operation requires a path parameter")
	}

	switch op {
	case "read":
		content, err := l.Files.Read(path)
		if err != nil {
			return "", nil, err
		}
		return content, []core.SideEffect{{Kind: "read", Description: "read file", Path: path, Bytes: len(content)}}, nil
	case "write":
		content, _ := plan.Parameters["content"].(string)
		if err := l.Files.Write(path, content); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Successfully wrote to %s (%d bytes)", path, len(content)),
		[]core.SideEffect{{Kind: "write", Description: "wrote file", Path: path, Bytes: len(content)}}, nil
	case "mkdir":
		if err := l.Files.Mkdir(path); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("created directory %s", path), []core.SideEffect{{Kind: "mkdir", Description: "created directory", Path: path}}, nil
	case "delete":
		if err := l.Files.Delete(path); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("deleted %s", path), []core.SideEffect{{Kind: "delete", Description: "deleted path", Path: path}}, nil
	default:
		return "", nil, agenterrors.New(agenterrors.KindValidation, fmt.Sprintf("unknown file operation %q", op))
	}
}

// DryRun implements Executor by synthesizing a success result describing
// what would have happened, without reaching any collaborator.
type DryRun struct{}

// Execute implements Executor.
func (DryRun) Execute(_ context.Context, plan core.ActionPlan, _ *core.ExecutionContext) core.ActionResult {
	start := time.Now()
	return core.ActionResult{
		PlanID: plan.ID,
		Type: plan.Type,
		Parameters: plan.Parameters,
		Success: true,
		Output: fmt.Sprintf("[dry-run] would execute %s: %s", plan.Type, plan.Description),
		Duration: time.Since(start),
		Metadata: map[string]string{"dry_run": "true"},
	}
}
