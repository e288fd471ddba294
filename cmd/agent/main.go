// Command agent is the CLI entrypoint for the orchestration core: it reads
// a goal from argv/flags and the environment, optionally loads an MCP tool
// config, wires a reasoning engine, runs the Orchestrator to completion
// through the selected engine backend, and prints the resulting
// ExecutionSummary as JSON. Grounded on the teacher's cmd/regolden-style
// flag parsing (explicit flag.String/flag.Bool, no cobra/cli framework) and
// on exit-code contract.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.temporal.io/sdk/client"

	"github.com/njfio/fluent-agent-core/agent/action"
	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/codegen"
	"github.com/njfio/fluent-agent-core/agent/config"
	"github.com/njfio/fluent-agent-core/agent/core"
	"github.com/njfio/fluent-agent-core/agent/engine"
	"github.com/njfio/fluent-agent-core/agent/engine/inmem"
	enginetemporal "github.com/njfio/fluent-agent-core/agent/engine/temporal"
	"github.com/njfio/fluent-agent-core/agent/filemanager"
	"github.com/njfio/fluent-agent-core/agent/memory"
	"github.com/njfio/fluent-agent-core/agent/model"
	"github.com/njfio/fluent-agent-core/agent/model/anthropic"
	"github.com/njfio/fluent-agent-core/agent/model/bedrock"
	"github.com/njfio/fluent-agent-core/agent/model/openai"
	"github.com/njfio/fluent-agent-core/agent/model/registry"
	"github.com/njfio/fluent-agent-core/agent/observation"
	"github.com/njfio/fluent-agent-core/agent/orchestrator"
	"github.com/njfio/fluent-agent-core/agent/planner"
	"github.com/njfio/fluent-agent-core/agent/reflection"
	"github.com/njfio/fluent-agent-core/agent/risk"
	"github.com/njfio/fluent-agent-core/agent/state"
	"github.com/njfio/fluent-agent-core/agent/tools"
)

// Exit codes.
const (
	exitSuccess = 0
	exitUsage = 2
	exitFailure = 1
	exitTimeout = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	goalFlag := fs.String("goal", "", "goal description (falls back to the first positional argument)")
	engineName := fs.String("engine", "anthropic", "reasoning engine: anthropic|openai|bedrock")
	engineBackend := fs.String("engine-backend", "inmem", "execution backend: inmem|temporal")
	mcpConfigPath := fs.String("mcp-config", "", "path to an MCP server YAML config")
	stateDir := fs.String("state-dir", "", "directory to persist the final run snapshot into, if set")
	temporalTaskQueue := fs.String("temporal-task-queue", "fluent-agent", "Temporal task queue (engine-backend=temporal only)")
	temporalHostPort := fs.String("temporal-host-port", "", "Temporal frontend host:port (engine-backend=temporal only; empty uses the SDK default)")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	goal := *goalFlag
	if goal == "" && fs.NArg() > 0 {
		goal = strings.Join(fs.Args(), " ")
	}
	if goal == "" {
		fmt.Fprintln(os.Stderr, "agent: a goal is required (-goal or positional argument)")
		return exitUsage
	}

	rt := config.LoadRuntime(os.LookupEnv)

	toolRegistry, err := loadTools(*mcpConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "agent:", err)
		return exitFailure
	}

	reasoning, err := buildReasoningEngine(*engineName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "agent:", err)
		return exitFailure
	}

	g := core.NewGoal(goal)
	g.SuccessCriteria = rt.SuccessCriteria
	g.Timeout = rt.Timeout

	generator, err := codegen.New(reasoning, codegen.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "agent:", err)
		return exitFailure
	}

	o := orchestrator.New(
		reasoning,
		planner.NewComposite(
			planner.NewResearch(rt.ResearchOutputDir),
			planner.NewLongForm(rt.BookOutputDir, rt.BookChapters),
			planner.NewBase(),
		),
		risk.New(risk.Options{}),
		action.New(toolRegistry, generator, filemanager.New("")),
		observation.New(),
		memory.New(nil),
		reflection.New(reflection.DefaultConfig()),
		orchestrator.Config{
			Watchdog: rt.Timeout,
			DryRun: rt.DryRun,
		},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := executeViaEngine(ctx, o, g, *engineBackend, *temporalTaskQueue, *temporalHostPort)
	if err != nil {
		fmt.Fprintln(os.Stderr, "agent:", err)
		return exitFailure
	}

	if *stateDir != "" {
		if err := persistSnapshot(*stateDir, g, summary); err != nil {
			fmt.Fprintln(os.Stderr, "agent: persisting state failed:", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", " ")
	if err := enc.Encode(summary); err != nil {
		fmt.Fprintln(os.Stderr, "agent: encoding summary failed:", err)
		return exitFailure
	}

	if summary.TimedOut {
		return exitTimeout
	}
	if !summary.Success {
		return exitFailure
	}
	return exitSuccess
}

// executeViaEngine registers the orchestrator's loop as a WorkflowFunc and
// runs it through the selected agent/engine backend, so the loop body is
// identical regardless of backend.
func executeViaEngine(ctx context.Context, o *orchestrator.Orchestrator, g *core.Goal, backend, taskQueue, hostPort string) (core.ExecutionSummary, error) {
	var eng engine.Engine

	switch backend {
	case "", "inmem":
		eng = inmem.New()
	case "temporal":
		opts := enginetemporal.Options{TaskQueue: taskQueue}
		if hostPort != "" {
			opts.ClientOptions = &client.Options{HostPort: hostPort}
		} else {
			opts.ClientOptions = &client.Options{}
		}
		temporalEngine, err := enginetemporal.New(opts)
		if err != nil {
			return core.ExecutionSummary{}, err
		}
		defer temporalEngine.Close()
		eng = temporalEngine
	default:
		return core.ExecutionSummary{}, agenterrors.New(agenterrors.KindConfiguration, fmt.Sprintf("unknown engine backend %q", backend))
	}

	if err := eng.RegisterWorkflow(ctx, engine.WorkflowDefinition{
			Name: orchestrator.WorkflowName,
			Handler: o.AsWorkflow(),
		}); err != nil {
		return core.ExecutionSummary{}, err
	}

	handle, err := eng.StartWorkflow(ctx, engine.WorkflowStartRequest{
			ID: g.ID,
			Workflow: orchestrator.WorkflowName,
			Input: g,
		})
	if err != nil {
		return core.ExecutionSummary{}, err
	}

	var summary core.ExecutionSummary
	if err := handle.Wait(ctx, &summary); err != nil {
		return core.ExecutionSummary{}, err
	}
	return summary, nil
}

func buildReasoningEngine(name string) (model.Engine, error) {
	reg := registry.New()

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c, err := anthropic.NewFromAPIKey(apiKey, envOr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"))
		if err != nil {
			return nil, err
		}
		reg.Register("anthropic", c)
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c, err := openai.NewFromAPIKey(apiKey, envOr("OPENAI_MODEL", "gpt-4o"))
		if err != nil {
			return nil, err
		}
		reg.Register("openai", c)
	}
	if name == "bedrock" || os.Getenv("AWS_REGION") != "" {
		cfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err == nil {
			c, err := bedrock.New(bedrockruntime.NewFromConfig(cfg), bedrock.Options{
					DefaultModel: envOr("BEDROCK_MODEL", "anthropic.claude-3-sonnet-20240229-v1:0"),
				})
			if err == nil {
				reg.Register("bedrock", c)
			}
		}
	}

	eng, err := reg.Get(name)
	if err != nil {
		return nil, agenterrors.NewWithCause(agenterrors.KindConfiguration,
			fmt.Sprintf("no reasoning engine available for %q (checked %v)", name, reg.Available()), err)
	}
	return eng, nil
}

// loadTools builds a tool registry from the MCP config at path, if any.
// Per, the core consumes MCP config only to populate the registry
// at startup; each server becomes an opaque shell-out tool invoking its
// configured command with the call's JSON parameters on stdin.
func loadTools(path string) (tools.Executor, error) {
	reg := tools.New()
	if path == "" {
		return reg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, config.ConfigError(fmt.Sprintf("read MCP config %q", path), err)
	}
	servers, err := config.ParseMCPConfig(data)
	if err != nil {
		return nil, err
	}
	for _, srv := range servers {
		if err := reg.Register(tools.Spec{
				Name: srv.Name,
				Description: fmt.Sprintf("MCP server %q (%s)", srv.Name, srv.Command),
				Handler: mcpHandler(srv),
			}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// mcpHandler shells out to srv's configured command, passing the call's
// parameters as a JSON object on stdin and returning trimmed stdout. Per
//, the core treats a configured MCP server as an opaque tool
// source; it does not speak the MCP wire protocol itself.
func mcpHandler(srv config.MCPServer) tools.Handler {
	return func(ctx context.Context, params map[string]any) (string, error) {
		payload, err := json.Marshal(params)
		if err != nil {
			return "", agenterrors.NewWithCause(agenterrors.KindValidation, "encode MCP tool parameters", err)
		}
		cmd := exec.CommandContext(ctx, srv.Command, srv.Args...)
		cmd.Stdin = bytes.NewReader(payload)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return "", agenterrors.NewWithCause(agenterrors.KindAction,
				fmt.Sprintf("MCP server %q invocation failed: %s", srv.Name, strings.TrimSpace(stderr.String())), err)
		}
		return strings.TrimSpace(stdout.String()), nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func persistSnapshot(dir string, g *core.Goal, summary core.ExecutionSummary) error {
	store, err := state.NewLocalStore(dir)
	if err != nil {
		return err
	}
	snap := state.Snapshot{
		RunID: g.ID,
		CapturedAt: time.Now(),
		Goal: g,
		IterationCount: summary.IterationCount,
	}
	if summary.LastObservation != nil {
		snap.Observations = []core.Observation{*summary.LastObservation}
	}
	snap.StrategyAdjustments = summary.StrategyAdjustments
	return store.Save(g.ID, snap)
}
