// Package config loads codexrpc configuration from YAML and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/codex/internal/version"
	"github.com/conneroisu/codex/pkg/codex/options"
)

// Config is the top-level codexrpc configuration.
type Config struct {
	Codex      CodexConfig      `mapstructure:"codex"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
}

// CodexConfig describes how app-server is launched and called.
type CodexConfig struct {
	Path                    string            `mapstructure:"path"`
	Args                    []string          `mapstructure:"args"`
	Cwd                     string            `mapstructure:"cwd"`
	Env                     map[string]string `mapstructure:"env"`
	AnalyticsDefaultEnabled bool              `mapstructure:"analytics_default_enabled"`
	ExperimentalAPI         bool              `mapstructure:"experimental_api"`
	ClientName              string            `mapstructure:"client_name"`
	ClientTitle             string            `mapstructure:"client_title"`
	ClientVersion           string            `mapstructure:"client_version"`
	MaxLineSize             int               `mapstructure:"max_line_size"`
	CallTimeout             time.Duration     `mapstructure:"call_timeout"`     // zero waits forever
	CallsPerSecond          float64           `mapstructure:"calls_per_second"` // zero disables pacing
	CallBurst               int               `mapstructure:"call_burst"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables /metrics
}

// RedisConfig controls event forwarding to a Redis stream.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	MaxLen    int64  `mapstructure:"max_len"`
}

// SupervisorConfig controls automatic restarts in watch mode.
type SupervisorConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	WatchBinary     bool          `mapstructure:"watch_binary"`
	MaxRestarts     int           `mapstructure:"max_restarts"`
	RestartInterval time.Duration `mapstructure:"restart_interval"`
	RestartBurst    int           `mapstructure:"restart_burst"`
}

// Load reads configuration from path, or from codexrpc.yaml in the working
// directory or $HOME/.config/codexrpc when path is empty. A missing default
// file is not an error.
// Environment variables override file values (prefix: CODEXRPC_, dots replaced with underscores).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODEXRPC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("codexrpc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/codexrpc")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates defaults for every key so env overrides apply.
func setDefaults(v *viper.Viper) {
	v.SetDefault("codex.path", options.DefaultCodexPath)
	v.SetDefault("codex.args", []string{})
	v.SetDefault("codex.cwd", "")
	v.SetDefault("codex.env", map[string]string{})
	v.SetDefault("codex.analytics_default_enabled", false)
	v.SetDefault("codex.experimental_api", false)
	v.SetDefault("codex.client_name", "codexrpc")
	v.SetDefault("codex.client_title", "codexrpc")
	v.SetDefault("codex.client_version", version.Version)
	v.SetDefault("codex.max_line_size", options.DefaultMaxLineSize)
	v.SetDefault("codex.call_timeout", time.Duration(0))
	v.SetDefault("codex.calls_per_second", 0.0)
	v.SetDefault("codex.call_burst", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("metrics.addr", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "codex:")
	v.SetDefault("redis.max_len", 10000)

	v.SetDefault("supervisor.enabled", true)
	v.SetDefault("supervisor.watch_binary", false)
	v.SetDefault("supervisor.max_restarts", 10)
	v.SetDefault("supervisor.restart_interval", time.Second)
	v.SetDefault("supervisor.restart_burst", 3)
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Codex.Path) == "" {
		return errors.New("codex.path must not be empty")
	}
	if c.Codex.MaxLineSize <= 0 {
		return errors.New("codex.max_line_size must be > 0")
	}
	if c.Codex.CallTimeout < 0 {
		return errors.New("codex.call_timeout must be >= 0")
	}
	if c.Codex.CallsPerSecond < 0 {
		return errors.New("codex.calls_per_second must be >= 0")
	}
	if c.Codex.CallsPerSecond > 0 && c.Codex.CallBurst <= 0 {
		return errors.New("codex.call_burst must be > 0 when calls_per_second is set")
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of console or json, got %q", c.Logging.Format)
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis.addr must be set when redis.enabled is true")
	}
	if c.Redis.MaxLen < 0 {
		return errors.New("redis.max_len must be >= 0")
	}

	if c.Supervisor.MaxRestarts < 0 {
		return errors.New("supervisor.max_restarts must be >= 0")
	}
	if c.Supervisor.RestartInterval <= 0 {
		return errors.New("supervisor.restart_interval must be > 0")
	}
	if c.Supervisor.RestartBurst <= 0 {
		return errors.New("supervisor.restart_burst must be > 0")
	}

	return nil
}

// ClientOptions converts the codex section into client options.
func (c *Config) ClientOptions() *options.ClientOptions {
	cc := c.Codex
	opts := &options.ClientOptions{
		CodexPath:               &cc.Path,
		Args:                    cc.Args,
		Env:                     cc.Env,
		AnalyticsDefaultEnabled: &cc.AnalyticsDefaultEnabled,
		ExperimentalAPI:         &cc.ExperimentalAPI,
		MaxLineSize:             &cc.MaxLineSize,
		ClientInfo: options.ClientInfo{
			Name:    cc.ClientName,
			Title:   cc.ClientTitle,
			Version: cc.ClientVersion,
		},
	}
	if cc.Cwd != "" {
		opts.Cwd = &cc.Cwd
	}

	return opts
}
