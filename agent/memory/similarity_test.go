package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindSimilar_KeywordOverlap(t *testing.T) {
	t.Parallel()

	candidates := []MemoryItem{
		{ID: "a", Content: "generated tetris html canvas game"},
		{ID: "b", Content: "completely unrelated research notes"},
	}
	out := FindSimilar("build a tetris canvas game", candidates, 0.3)
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].ID)
}
