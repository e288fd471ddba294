package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadRuntime_DefaultsWhenUnset(t *testing.T) {
	t.Parallel()

	rt := LoadRuntime(lookupFrom(nil))
	require.Equal(t, DefaultTimeoutSecs*time.Second, rt.Timeout)
	require.False(t, rt.DryRun)
	require.Empty(t, rt.SuccessCriteria)
	require.Equal(t, DefaultResearchDir, rt.ResearchOutputDir)
	require.Equal(t, DefaultBookDir, rt.BookOutputDir)
	require.Equal(t, DefaultBookChapters, rt.BookChapters)
}

func TestLoadRuntime_OverridesFromEnv(t *testing.T) {
	t.Parallel()

	rt := LoadRuntime(lookupFrom(map[string]string{
				EnvTimeoutSecs: "30",
				EnvDryRun: "true",
				EnvSuccessCriteria: "file_exists:a.txt | observation_contains:done",
				EnvResearchOutputDir: "out/research",
				EnvBookOutputDir: "out/book",
				EnvBookChapters: "4",
			}))

	require.Equal(t, 30*time.Second, rt.Timeout)
	require.True(t, rt.DryRun)
	require.Equal(t, []string{"file_exists:a.txt", "observation_contains:done"}, rt.SuccessCriteria)
	require.Equal(t, "out/research", rt.ResearchOutputDir)
	require.Equal(t, "out/book", rt.BookOutputDir)
	require.Equal(t, 4, rt.BookChapters)
}

func TestLoadRuntime_InvalidNumericValuesFallBackToDefaults(t *testing.T) {
	t.Parallel()

	rt := LoadRuntime(lookupFrom(map[string]string{
				EnvTimeoutSecs: "not-a-number",
				EnvBookChapters: "-5",
			}))

	require.Equal(t, DefaultTimeoutSecs*time.Second, rt.Timeout)
	require.Equal(t, DefaultBookChapters, rt.BookChapters)
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
		require.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"0", "false", "", "no", "off"} {
		require.False(t, isTruthy(v), v)
	}
}

func TestParseMCPConfig_FullForm(t *testing.T) {
	t.Parallel()

	yaml := []byte(`
mcp:
  servers:
    - name: fs
      command: mcp-server-fs
      args: ["--root", "/data"]
    - name: search
      command: mcp-server-search
`)
		servers, err := ParseMCPConfig(yaml)
		require.NoError(t, err)
		require.Len(t, servers, 2)
		require.Equal(t, MCPServer{Name: "fs", Command: "mcp-server-fs", Args: []string{"--root", "/data"}}, servers[0])
		require.Equal(t, MCPServer{Name: "search", Command: "mcp-server-search"}, servers[1])
	}

	func TestParseMCPConfig_RejectsMissingFields(t *testing.T) {
		t.Parallel()

		_, err := ParseMCPConfig([]byte("mcp:\n servers:\n - name: fs\n"))
		require.Error(t, err)
	}

	func TestParseCompactMCPServer(t *testing.T) {
		t.Parallel()

		s, err := ParseCompactMCPServer("fs:mcp-server-fs --root /data")
		require.NoError(t, err)
		require.Equal(t, MCPServer{Name: "fs", Command: "mcp-server-fs", Args: []string{"--root", "/data"}}, s)
	}

	func TestParseCompactMCPServer_RejectsMissingColon(t *testing.T) {
		t.Parallel()

		_, err := ParseCompactMCPServer("mcp-server-fs --root /data")
		require.Error(t, err)
	}
