package orchestrator

import (
	"os"
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Criterion prefixes recognized by Evaluate success-criterion
// language table. Anything else is free text: advisory only, always
// evaluates true so it never blocks termination.
const (
	prefixFileExists = "file_exists:"
	prefixNonEmptyFile = "non_empty_file:"
	prefixObservationContains = "observation_contains:"
)

// Evaluate implements success-criterion language against execCtx.
// Recognized prefixes are matched exactly (case-sensitive, per spec); an
// unrecognized criterion is treated as free-text guidance and never blocks
// goal completion.
func Evaluate(criterion string, execCtx *core.ExecutionContext) bool {
	switch {
	case strings.HasPrefix(criterion, prefixFileExists):
		path := strings.TrimPrefix(criterion, prefixFileExists)
		return fileExists(path)
	case strings.HasPrefix(criterion, prefixNonEmptyFile):
		path := strings.TrimPrefix(criterion, prefixNonEmptyFile)
		return nonEmptyFile(path)
	case strings.HasPrefix(criterion, prefixObservationContains):
		substr := strings.TrimPrefix(criterion, prefixObservationContains)
		return observationContains(execCtx, substr)
	default:
		return true
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func nonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > 0
}

// observationContains performs a case-sensitive substring match over every
// observation's content table.
func observationContains(execCtx *core.ExecutionContext, substr string) bool {
	for _, obs := range execCtx.Observations() {
		if strings.Contains(obs.Content, substr) {
			return true
		}
	}
	return false
}
