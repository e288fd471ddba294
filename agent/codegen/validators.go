package codegen

import (
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// DefaultValidatorFor implements worked example: goal keywords
// select a minimum-size validator tuned to the kind of artifact being
// generated (a browser game needs a canvas and an input handler; a generic
// HTML/JS page just needs substantial content). Goals that don't match a
// known keyword get the zero-value Validator (accept anything).
func DefaultValidatorFor(specification string, _ *core.ExecutionContext) Validator {
	lower := strings.ToLower(specification)
	switch {
	case strings.Contains(lower, "tetris"):
		return Validator{
			MinBytes: 4096,
			RequiredSubstrings: []string{"<canvas", "keydown"},
		}
	case strings.Contains(lower, "snake"):
		return Validator{
			MinBytes: 2048,
			RequiredSubstrings: []string{"<canvas", "keydown"},
		}
	case strings.Contains(lower, "html"), strings.Contains(lower, "javascript"), strings.Contains(lower, "web"):
		return Validator{MinBytes: 256}
	default:
		return Validator{}
	}
}
