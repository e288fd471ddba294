package planner

import (
	"fmt"
	"strings"

	"github.com/njfio/fluent-agent-core/agent/core"
)

// Defaults for the long-form writer.
const (
	DefaultBookBase = "docs/book"
	DefaultChapterCount = 10
	chapterSeparator = "\n\n---\n\n"
)

// LongForm implements LongFormWriterPlanner: a five-stage state
// machine (outline, chapter generation, chapter persistence, TOC, assemble)
// driven by observation history.
type LongForm struct {
	Base string
	Chapters int
}

// NewLongForm builds a LongForm planner targeting chapters chapter count
// (DefaultChapterCount when <= 0) writing to base (DefaultBookBase when
// empty).
func NewLongForm(base string, chapters int) *LongForm {
	if base == "" {
		base = DefaultBookBase
	}
	if chapters <= 0 {
		chapters = DefaultChapterCount
	}
	return &LongForm{Base: base, Chapters: chapters}
}

// PlanAction implements Planner.
func (l *LongForm) PlanAction(_ core.ReasoningResult, execCtx *core.ExecutionContext) (core.ActionPlan, error) {
	observations := execCtx.Observations()
	outlinePath := fmt.Sprintf("%s/outline.md", l.Base)
	tocPath := fmt.Sprintf("%s/toc.md", l.Base)
	chapterPrefix := fmt.Sprintf("%s/ch_", l.Base)

	if !anyObservationContains(observations, fmt.Sprintf("Successfully wrote to %s", outlinePath)) {
		return toolPlan("generate_book_outline", map[string]any{"out_path": outlinePath}), nil
	}

	chaptersWritten := countMatches(observations, fmt.Sprintf("Successfully wrote to %s", chapterPrefix))
	if chaptersWritten < l.Chapters {
		last, hasLast := execCtx.LatestObservation()
		if hasLast && last.Source == string(core.ActionCodeGeneration) {
			path := chapterPath(chapterPrefix, chaptersWritten+1)
			return core.ActionPlan{
				Type: core.ActionFileOperation,
				Description: fmt.Sprintf("persist chapter %d", chaptersWritten+1),
				Parameters: map[string]any{
					"operation": "write",
					"path": path,
					"content": last.Content,
				},
				Confidence: 0.85,
			}, nil
		}
		return core.ActionPlan{
			Type: core.ActionCodeGeneration,
			Description: fmt.Sprintf("generate chapter %d", chaptersWritten+1),
			Parameters: map[string]any{
				"specification": fmt.Sprintf("Write chapter %d of the book.", chaptersWritten+1),
			},
			Confidence: 0.7,
		}, nil
	}

	if !anyObservationContains(observations, fmt.Sprintf("Successfully wrote to %s", tocPath)) {
		last, hasLast := execCtx.LatestObservation()
		if hasLast && last.Source == string(core.ActionCodeGeneration) && looksLikeTOC(last.Content) {
			return core.ActionPlan{
				Type: core.ActionFileOperation,
				Description: "persist table of contents",
				Parameters: map[string]any{
					"operation": "write",
					"path": tocPath,
					"content": last.Content,
				},
				Confidence: 0.85,
			}, nil
		}
		return toolPlan("generate_toc", map[string]any{"out_path": tocPath}), nil
	}

	paths := make([]string, 0, l.Chapters+1)
	paths = append(paths, tocPath)
	for i := 1; i <= l.Chapters; i++ {
		paths = append(paths, chapterPath(chapterPrefix, i))
	}
	return core.ActionPlan{
		Type: core.ActionToolExecution,
		Description: "assemble book",
		Parameters: map[string]any{
			"tool_name": "concat_files",
			"paths": paths,
			"separator": chapterSeparator,
			"out_path": fmt.Sprintf("%s/book.md", l.Base),
		},
		Confidence: 0.9,
	}, nil
}

func chapterPath(prefix string, n int) string {
	return fmt.Sprintf("%s%02d.md", prefix, n)
}

func countMatches(observations []core.Observation, needle string) int {
	n := 0
	for _, o := range observations {
		if strings.Contains(o.Content, needle) {
			n++
		}
	}
	return n
}

func looksLikeTOC(content string) bool {
	lower := strings.ToLower(content)
	return containsAny(lower, "table of contents", "chapter 1", "toc")
}

// Capabilities implements Planner.
func (l *LongForm) Capabilities() []core.ActionType {
	return []core.ActionType{core.ActionToolExecution, core.ActionCodeGeneration, core.ActionFileOperation}
}

// CanPlan implements Planner.
func (l *LongForm) CanPlan(actionType core.ActionType) bool {
	for _, c := range l.Capabilities() {
		if c == actionType {
			return true
		}
	}
	return false
}
