package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcedural_RecordUsage(t *testing.T) {
	t.Parallel()

	p := NewProcedural()
	p.RecordUsage("generate_html", []string{"gen", "validate"}, true)
	p.RecordUsage("generate_html", []string{"gen", "validate"}, false)

	s, ok := p.Skill("generate_html")
	require.True(t, ok)
	require.Equal(t, 2, s.UsageCount)
	require.InDelta(t, 0.5, s.SuccessRate, 1e-9)
}

func TestProcedural_UnknownSkill(t *testing.T) {
	t.Parallel()

	p := NewProcedural()
	_, ok := p.Skill("missing")
	require.False(t, ok)
}
