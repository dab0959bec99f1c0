package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "commit:")
}

func TestRootRegistersCommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"call", "threads", "models", "watch", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, sub.Name())
	}
}

func TestCallRejectsInvalidParams(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"call", "thread/list", "{nope"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "valid JSON")
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "codexrpc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: info\n"), 0o644))

	cfg, err := loadConfig(&Options{
		ConfigPath: cfgPath,
		LogLevel:   "debug",
		LogFormat:  "json",
		CodexPath:  "/opt/codex",
	})
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "/opt/codex", cfg.Codex.Path)

	_, err = loadConfig(&Options{ConfigPath: cfgPath, LogFormat: "xml"})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "logging.format"))
}

func TestCallMiddleware(t *testing.T) {
	cfg, err := loadConfig(&Options{ConfigPath: writeConfig(t, "codex:\n  calls_per_second: 5\n  call_timeout: 1s\n")})
	require.NoError(t, err)

	require.Len(t, callMiddleware(cfg, zap.NewNop()), 3)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codexrpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}
