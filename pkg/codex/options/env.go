package options

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joeshaw/envdecode"
)

// EnvConfig mirrors ClientOptions as environment variables.
type EnvConfig struct {
	CodexPath     string `env:"CODEX_PATH"`
	Args          string `env:"CODEX_ARGS"`
	Cwd           string `env:"CODEX_CWD"`
	Analytics     string `env:"CODEX_ANALYTICS_DEFAULT_ENABLED"`
	ClientName    string `env:"CODEX_CLIENT_NAME"`
	ClientTitle   string `env:"CODEX_CLIENT_TITLE"`
	ClientVersion string `env:"CODEX_CLIENT_VERSION"`
	Experimental  string `env:"CODEX_EXPERIMENTAL_API"`
	MaxLineSize   int    `env:"CODEX_MAX_LINE_SIZE"`
}

// FromEnv builds ClientOptions from CODEX_* environment variables.
// Unset variables leave the matching option unset.
func FromEnv() (*ClientOptions, error) {
	var cfg EnvConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode codex environment: %w", err)
	}

	return cfg.Options()
}

// Options converts the decoded environment into ClientOptions.
func (c EnvConfig) Options() (*ClientOptions, error) {
	opts := &ClientOptions{
		Args: strings.Fields(c.Args),
		ClientInfo: ClientInfo{
			Name:    c.ClientName,
			Title:   c.ClientTitle,
			Version: c.ClientVersion,
		},
	}
	if c.CodexPath != "" {
		opts.CodexPath = &c.CodexPath
	}
	if c.Cwd != "" {
		opts.Cwd = &c.Cwd
	}
	if c.MaxLineSize > 0 {
		size := c.MaxLineSize
		opts.MaxLineSize = &size
	}

	var err error
	if opts.AnalyticsDefaultEnabled, err = parseOptionalBool("CODEX_ANALYTICS_DEFAULT_ENABLED", c.Analytics); err != nil {
		return nil, err
	}
	if opts.ExperimentalAPI, err = parseOptionalBool("CODEX_EXPERIMENTAL_API", c.Experimental); err != nil {
		return nil, err
	}

	return opts, opts.Validate()
}

func parseOptionalBool(name, raw string) (*bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &v, nil
}
