package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/njfio/fluent-agent-core/agent/action"
	"github.com/njfio/fluent-agent-core/agent/codegen"
	"github.com/njfio/fluent-agent-core/agent/core"
	"github.com/njfio/fluent-agent-core/agent/filemanager"
	"github.com/njfio/fluent-agent-core/agent/memory"
	"github.com/njfio/fluent-agent-core/agent/model"
	"github.com/njfio/fluent-agent-core/agent/observation"
	"github.com/njfio/fluent-agent-core/agent/planner"
	"github.com/njfio/fluent-agent-core/agent/reflection"
	"github.com/njfio/fluent-agent-core/agent/risk"
	"github.com/njfio/fluent-agent-core/agent/tools"
)

// stubEngine is a model.Engine test double that always succeeds.
type stubEngine struct {
	calls int
	fail int // number of leading calls to fail before succeeding
}

func (s *stubEngine) Execute(_ context.Context, _ model.Request) (model.Response, error) {
	s.calls++
	if s.calls <= s.fail {
		return model.Response{}, fmt.Errorf("transient failure %d", s.calls)
	}
	return model.Response{Content: "ok", Model: "test-model"}, nil
}

func newTestOrchestrator(t *testing.T, reasoning model.Engine, exec action.Executor, cfg Config) *Orchestrator {
	t.Helper()
	p := planner.NewComposite(
		planner.NewResearch(""),
		planner.NewLongForm("", 0),
		planner.NewBase(),
	)
	riskAssessor := risk.New(risk.Options{})
	mem := memory.New(nil)
	refl := reflection.New(reflection.DefaultConfig())
	o := New(reasoning, p, riskAssessor, exec, observation.New(), mem, refl, cfg)
	o.Sleep = func(time.Duration) {}
	return o
}

func TestExecuteGoal_CompletesWhenFileCriterionSatisfied(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "output.txt")

	goal := core.NewGoal("write some text")
	goal.SuccessCriteria = []string{"file_exists:" + path}
	goal.MaxIterations = 5

	o := newTestOrchestrator(t, &stubEngine{}, action.DryRun{}, Config{})

	// Create the file before the run to simulate the action's side effect
	// landing on disk (DryRun never writes for real).
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.True(t, summary.Success)
	require.False(t, summary.TimedOut)
	require.GreaterOrEqual(t, summary.IterationCount, 1)
}

func TestExecuteGoal_StopsAtMaxIterationsWithoutSatisfiedCriteria(t *testing.T) {
	t.Parallel()

	goal := core.NewGoal("do something never observed")
	goal.SuccessCriteria = []string{"observation_contains:this never appears"}
	goal.MaxIterations = 3

	o := newTestOrchestrator(t, &stubEngine{}, action.DryRun{}, Config{})

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.False(t, summary.Success)
	require.Equal(t, 3, summary.IterationCount)
}

func TestExecuteGoal_ReasoningRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	goal := core.NewGoal("simple goal")
	goal.SuccessCriteria = []string{"observation_contains:dry-run"}
	goal.MaxIterations = 2

	engine := &stubEngine{fail: 2}
	o := newTestOrchestrator(t, engine, action.DryRun{}, Config{})

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.GreaterOrEqual(t, engine.calls, 3)
	require.True(t, summary.Success)
}

func TestExecuteGoal_ReasoningExhaustsRetriesRecordsErrorAndContinues(t *testing.T) {
	t.Parallel()

	goal := core.NewGoal("always fails reasoning")
	goal.MaxIterations = 2

	engine := &stubEngine{fail: 100}
	o := newTestOrchestrator(t, engine, action.DryRun{}, Config{})

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.NotEmpty(t, summary.Errors)
	require.False(t, summary.Success)
	require.Equal(t, 2, summary.IterationCount)
}

func TestExecuteGoal_WatchdogTimesOut(t *testing.T) {
	t.Parallel()

	goal := core.NewGoal("slow goal")
	goal.MaxIterations = 1000
	goal.SuccessCriteria = []string{"observation_contains:never"}

	o := newTestOrchestrator(t, &stubEngine{}, action.DryRun{}, Config{Watchdog: time.Millisecond})

	base := time.Now()
	tick := 0
	o.Now = func() time.Time {
		tick++
		// advance well past the 1ms watchdog after the first checkpoint.
		return base.Add(time.Duration(tick) * time.Second)
	}

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.True(t, summary.TimedOut)
	require.False(t, summary.Success)
}

// sleepingEngine simulates a reasoning engine that takes sleepFor wall-clock
// time per call by advancing a shared clock, rather than blocking the test
// for real.
type sleepingEngine struct {
	sleepFor time.Duration
	now *time.Time
}

func (s *sleepingEngine) Execute(_ context.Context, _ model.Request) (model.Response, error) {
	*s.now = s.now.Add(s.sleepFor)
	return model.Response{Content: "ok", Model: "test-model"}, nil
}

func TestExecuteGoal_WatchdogTimeoutWithSlowReasoningEngine(t *testing.T) {
	t.Parallel()

	now := time.Now()
	engine := &sleepingEngine{sleepFor: 2 * time.Second, now: &now}

	goal := core.NewGoal("slow reasoning goal")
	goal.MaxIterations = 1000
	goal.Timeout = time.Second

	o := newTestOrchestrator(t, engine, action.DryRun{}, Config{})
	o.Now = func() time.Time { return *engine.now }

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.True(t, summary.TimedOut)
	require.False(t, summary.Success)
	require.LessOrEqual(t, summary.IterationCount, 1)
}

func TestExecuteGoal_ContextCancellationStopsLoop(t *testing.T) {
	t.Parallel()

	goal := core.NewGoal("cancel me")
	goal.MaxIterations = 1000
	goal.SuccessCriteria = []string{"observation_contains:never"}

	o := newTestOrchestrator(t, &stubEngine{}, action.DryRun{}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := o.ExecuteGoal(ctx, goal)
	require.NoError(t, err)
	require.False(t, summary.Success)
	require.LessOrEqual(t, summary.IterationCount, 1)
}

func TestExecuteGoal_EmptyGoalDescriptionNoPanic(t *testing.T) {
	t.Parallel()

	goal := core.NewGoal("")
	goal.MaxIterations = 1

	o := newTestOrchestrator(t, &stubEngine{}, action.DryRun{}, Config{})

	require.NotPanics(t, func() {
			summary, err := o.ExecuteGoal(context.Background(), goal)
			require.NoError(t, err)
			require.False(t, summary.Success)
		})
}

func TestExecuteGoal_MaxIterationsZeroReturnsImmediately(t *testing.T) {
	t.Parallel()

	goal := core.NewGoal("a goal that is never reasoned about")
	goal.MaxIterations = 0

	engine := &stubEngine{}
	o := newTestOrchestrator(t, engine, action.DryRun{}, Config{})

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.False(t, summary.Success)
	require.Equal(t, 0, summary.IterationCount)
	require.Equal(t, 0, engine.calls)
}

func TestEvaluate_FreeTextIsAdvisoryOnly(t *testing.T) {
	t.Parallel()

	execCtx := core.NewExecutionContext(core.NewGoal("goal"))
	require.True(t, Evaluate("write something useful", execCtx))
}

func TestEvaluate_ObservationContainsIsCaseSensitive(t *testing.T) {
	t.Parallel()

	execCtx := core.NewExecutionContext(core.NewGoal("goal"))
	execCtx.AppendObservation(core.NewObservation(time.Now(), core.ObservationActionResult, "Hello World", "test", 0.9))

	require.True(t, Evaluate("observation_contains:Hello", execCtx))
	require.False(t, Evaluate("observation_contains:hello", execCtx))
}

func TestEvaluate_NonEmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	nonEmpty := filepath.Join(dir, "full.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	require.NoError(t, os.WriteFile(nonEmpty, []byte("x"), 0o644))

	execCtx := core.NewExecutionContext(core.NewGoal("goal"))
	require.False(t, Evaluate("non_empty_file:"+empty, execCtx))
	require.True(t, Evaluate("non_empty_file:"+nonEmpty, execCtx))
	require.False(t, Evaluate("non_empty_file:"+filepath.Join(dir, "missing.txt"), execCtx))
}

// bookTools is a tools.Executor test double standing in for whatever
// collaborator actually generates and writes a book's outline/TOC and
// concatenates its chapters on disk, the way a real deployment's tool
// registry would. It reports success the same way action.Live's
// file_operation write branch does, so the long-form planner's
// observation-content progress markers line up with what a real run
// through action.Live would see.
type bookTools struct{}

func (bookTools) Execute(_ context.Context, name string, params map[string]any) (string, error) {
	outPath, _ := params["out_path"].(string)
	switch name {
	case "generate_book_outline":
		content := "# Outline\n\nChapter 1\nChapter 2\n"
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully wrote to %s (%d bytes)", outPath, len(content)), nil
	case "generate_toc":
		content := "# Table of Contents\n\nChapter 1\nChapter 2\n"
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully wrote to %s (%d bytes)", outPath, len(content)), nil
	case "concat_files":
		paths, _ := params["paths"].([]string)
		sep, _ := params["separator"].(string)
		var b strings.Builder
		for i, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				return "", err
			}
			if i > 0 {
				b.WriteString(sep)
			}
			b.Write(data)
		}
		if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
			return "", err
		}
		return fmt.Sprintf("Successfully wrote to %s (%d bytes)", outPath, b.Len()), nil
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

// stubChapterGenerator is a codegen.Generator test double returning fixed
// chapter text, standing in for a model-backed generator.
type stubChapterGenerator struct{}

func (stubChapterGenerator) Generate(_ context.Context, specification string, _ *core.ExecutionContext) (string, error) {
	return fmt.Sprintf("Content for: %s", specification), nil
}

// TestExecuteGoal_LongFormBookThroughRealExecutorCompletesInSevenTicks drives
// the long-form writer planner through action.Live (not hand-fed
// observations), so a chapter write's real output ("Successfully wrote to
// ...") is what the planner's progress-tracking actually counts. Covers a
// 2-chapter book: outline, 2x(generate+persist chapter), TOC, assemble.
func TestExecuteGoal_LongFormBookThroughRealExecutorCompletesInSevenTicks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := filepath.Join(dir, "book")

	p := planner.NewComposite(
		planner.NewResearch(""),
		planner.NewLongForm(base, 2),
		planner.NewBase(),
	)
	exec := action.New(bookTools{}, stubChapterGenerator{}, filemanager.New(""))
	riskAssessor := risk.New(risk.Options{})
	mem := memory.New(nil)
	refl := reflection.New(reflection.DefaultConfig())

	goal := core.NewGoal("write a book")
	goal.SuccessCriteria = []string{"file_exists:" + filepath.Join(base, "book.md")}
	goal.MaxIterations = 7

	o := New(&stubEngine{}, p, riskAssessor, exec, observation.New(), mem, refl, Config{})
	o.Sleep = func(time.Duration) {}

	summary, err := o.ExecuteGoal(context.Background(), goal)
	require.NoError(t, err)
	require.True(t, summary.Success)
	require.Equal(t, 7, summary.IterationCount)

	assembled, err := os.ReadFile(filepath.Join(base, "book.md"))
	require.NoError(t, err)
	require.Contains(t, string(assembled), "Content for: Write chapter 1 of the book.")
	require.Contains(t, string(assembled), "Content for: Write chapter 2 of the book.")
}

var _ tools.Executor = bookTools{}
var _ codegen.Generator = stubChapterGenerator{}
