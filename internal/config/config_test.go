package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "codexrpc.yaml")
	configYAML := `
codex:
  path: /usr/local/bin/codex
  args: ["-c", "model=o3"]
  experimental_api: true
  call_timeout: 30s
logging:
  level: debug
  format: json
redis:
  enabled: true
  addr: redis:6379
supervisor:
  watch_binary: true
`

	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "/usr/local/bin/codex", cfg.Codex.Path)
	require.Equal(t, []string{"-c", "model=o3"}, cfg.Codex.Args)
	require.True(t, cfg.Codex.ExperimentalAPI)
	require.Equal(t, 30*time.Second, cfg.Codex.CallTimeout)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.True(t, cfg.Supervisor.Enabled)
	require.True(t, cfg.Supervisor.WatchBinary)
	require.Equal(t, time.Second, cfg.Supervisor.RestartInterval)

	opts := cfg.ClientOptions()
	require.Equal(t, "/usr/local/bin/codex", opts.Path())
	require.True(t, opts.Experimental())
	require.Nil(t, opts.Cwd)
	require.Equal(t, "codexrpc", opts.ResolvedClientInfo().Name)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "codexrpc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: info\n"), 0o644))

	t.Setenv("CODEXRPC_LOGGING_LEVEL", "warn")
	t.Setenv("CODEXRPC_CODEX_PATH", "/opt/codex")
	t.Setenv("CODEXRPC_METRICS_ADDR", ":9100")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, "/opt/codex", cfg.Codex.Path)
	require.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "codex", cfg.Codex.Path)
	require.Equal(t, "console", cfg.Logging.Format)
	require.False(t, cfg.Redis.Enabled)
	require.Equal(t, 10, cfg.Supervisor.MaxRestarts)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty path", func(c *Config) { c.Codex.Path = " " }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
		{"negative restarts", func(c *Config) { c.Supervisor.MaxRestarts = -1 }},
		{"rate without burst", func(c *Config) { c.Codex.CallsPerSecond = 2; c.Codex.CallBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, validConfig().Validate())
}

func validConfig() *Config {
	return &Config{
		Codex:   CodexConfig{Path: "codex", MaxLineSize: 1024, CallBurst: 1},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Supervisor: SupervisorConfig{
			MaxRestarts:     3,
			RestartInterval: time.Second,
			RestartBurst:    1,
		},
	}
}
