// Package config loads the run-scope configuration describes:
// environment-variable overrides for the orchestrator/planner defaults, and
// the MCP server list that seeds the tool registry at startup. Grounded on
// the teacher's cmd/* flag/env parsing idiom (explicit env.Getenv lookups
// with documented defaults, no reflection-based struct tags).
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
)

// Environment variable names recognized by the core.
const (
	EnvTimeoutSecs = "FLUENT_AGENT_TIMEOUT_SECS"
	EnvDryRun = "FLUENT_AGENT_DRY_RUN"
	EnvSuccessCriteria = "FLUENT_AGENT_SUCCESS_CRITERIA"
	EnvResearchOutputDir = "FLUENT_RESEARCH_OUTPUT_DIR"
	EnvBookOutputDir = "FLUENT_BOOK_OUTPUT_DIR"
	EnvBookChapters = "FLUENT_BOOK_CHAPTERS"
)

// Defaults table.
const (
	DefaultTimeoutSecs = 180
	DefaultResearchDir = "docs/research"
	DefaultBookDir = "docs/book"
	DefaultBookChapters = 10
)

// Runtime holds the run-scope settings sourced from the environment.
type Runtime struct {
	// Timeout is the orchestrator's watchdog cap.
	Timeout time.Duration
	// DryRun enables the dry-run executor substitution.
	DryRun bool
	// SuccessCriteria is the pipe-delimited criteria list split into its
	// individual criterion strings.
	SuccessCriteria []string
	// ResearchOutputDir is the Research planner's output base.
	ResearchOutputDir string
	// BookOutputDir is the LongForm planner's output base.
	BookOutputDir string
	// BookChapters is the LongForm planner's target chapter count.
	BookChapters int
}

// LoadRuntime reads Runtime from the process environment via lookup (os.
// LookupEnv when lookup is nil), applying documented defaults for
// anything unset or unparseable.
func LoadRuntime(lookup func(string) (string, bool)) Runtime {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	rt := Runtime{
		Timeout: DefaultTimeoutSecs * time.Second,
		ResearchOutputDir: DefaultResearchDir,
		BookOutputDir: DefaultBookDir,
		BookChapters: DefaultBookChapters,
	}

	if v, ok := lookup(EnvTimeoutSecs); ok {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
			rt.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v, ok := lookup(EnvDryRun); ok {
		rt.DryRun = isTruthy(v)
	}
	if v, ok := lookup(EnvSuccessCriteria); ok && v != "" {
		rt.SuccessCriteria = splitCriteria(v)
	}
	if v, ok := lookup(EnvResearchOutputDir); ok && v != "" {
		rt.ResearchOutputDir = v
	}
	if v, ok := lookup(EnvBookOutputDir); ok && v != "" {
		rt.BookOutputDir = v
	}
	if v, ok := lookup(EnvBookChapters); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			rt.BookChapters = n
		}
	}

	return rt
}

// isTruthy matches the common shell-script convention for boolean env vars:
// "1", "true", "yes", "on" (case-insensitive) are true; everything else,
// including unset or empty, is false.
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitCriteria(v string) []string {
	parts := strings.Split(v, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ConfigError wraps a configuration problem as a KindConfiguration
// agenterrors.AgentError: configuration failures are fatal at
// startup and never raised mid-run.
func ConfigError(message string, cause error) error {
	if cause != nil {
		return agenterrors.NewWithCause(agenterrors.KindConfiguration, message, cause)
	}
	return agenterrors.New(agenterrors.KindConfiguration, message)
}
