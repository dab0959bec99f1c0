// Package options provides the configuration of a codex client.
package options

import (
	"strings"

	"github.com/conneroisu/codex/pkg/codexerrs"
)

// Defaults applied when the matching option is unset.
const (
	DefaultCodexPath     = "codex"
	DefaultClientName    = "discode"
	DefaultClientTitle   = "DisCode"
	DefaultClientVersion = "0.0.0"
	DefaultMaxLineSize   = 64 * 1024 * 1024

	// AppServerSubcommand is always the first argument.
	AppServerSubcommand = "app-server"
	// AnalyticsFlag is passed unless analytics are disabled.
	AnalyticsFlag = "--analytics-default-enabled"
)

// Environment variables set for the child unless Env overrides them.
const (
	EnvOriginatorOverride = "CODEX_INTERNAL_ORIGINATOR_OVERRIDE"
	EnvRustLog            = "RUST_LOG"

	DefaultOriginator = "codex_vscode"
	DefaultRustLog    = "warn"
)

// ClientInfo identifies the client in the initialize handshake.
// Empty fields fall back to the package defaults independently.
type ClientInfo struct {
	Name    string
	Title   string
	Version string
}

// ClientOptions configures how the app-server is launched and greeted.
type ClientOptions struct {
	// === Process ===

	// CodexPath is the executable to run (optional, defaults to "codex")
	CodexPath *string

	// Args are appended after the app-server subcommand
	Args []string

	// Cwd sets the working directory (optional, defaults to inherited)
	Cwd *string

	// Env overlays the inherited environment
	Env map[string]string

	// AnalyticsDefaultEnabled controls --analytics-default-enabled (optional, defaults to true)
	AnalyticsDefaultEnabled *bool

	// === Handshake ===

	// ClientInfo is sent with initialize
	ClientInfo ClientInfo

	// ExperimentalAPI opts into experimental methods (optional, defaults to true)
	ExperimentalAPI *bool

	// === Framing ===

	// MaxLineSize bounds one stdout line in bytes (optional, defaults to 64MiB)
	MaxLineSize *int
}

// Path returns the executable to run.
func (o *ClientOptions) Path() string {
	if o == nil || o.CodexPath == nil || *o.CodexPath == "" {
		return DefaultCodexPath
	}

	return *o.CodexPath
}

// AnalyticsEnabled reports whether the analytics flag is passed.
func (o *ClientOptions) AnalyticsEnabled() bool {
	return o == nil || o.AnalyticsDefaultEnabled == nil || *o.AnalyticsDefaultEnabled
}

// Experimental reports whether experimentalApi is requested.
func (o *ClientOptions) Experimental() bool {
	return o == nil || o.ExperimentalAPI == nil || *o.ExperimentalAPI
}

// LineLimit returns the maximum stdout line size.
func (o *ClientOptions) LineLimit() int {
	if o == nil || o.MaxLineSize == nil || *o.MaxLineSize <= 0 {
		return DefaultMaxLineSize
	}

	return *o.MaxLineSize
}

// ResolvedClientInfo returns ClientInfo with defaults filled in.
func (o *ClientOptions) ResolvedClientInfo() ClientInfo {
	var info ClientInfo
	if o != nil {
		info = o.ClientInfo
	}
	if info.Name == "" {
		info.Name = DefaultClientName
	}
	if info.Title == "" {
		info.Title = DefaultClientTitle
	}
	if info.Version == "" {
		info.Version = DefaultClientVersion
	}

	return info
}

// CommandArgs returns the argv after the executable.
func (o *ClientOptions) CommandArgs() []string {
	args := []string{AppServerSubcommand}
	if o.AnalyticsEnabled() {
		args = append(args, AnalyticsFlag)
	}
	if o != nil {
		args = append(args, o.Args...)
	}

	return args
}

// Validate checks option values.
func (o *ClientOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.CodexPath != nil && strings.TrimSpace(*o.CodexPath) == "" {
		return codexerrs.NewValidationError(
			codexerrs.ErrCodeInvalidFormat,
			"codex path must not be blank",
			nil,
			"CodexPath",
			*o.CodexPath,
		)
	}
	if o.MaxLineSize != nil && *o.MaxLineSize <= 0 {
		return codexerrs.NewValidationError(
			codexerrs.ErrCodeInvalidFormat,
			"max line size must be positive",
			nil,
			"MaxLineSize",
			*o.MaxLineSize,
		)
	}
	for key := range o.Env {
		if key == "" || strings.Contains(key, "=") {
			return codexerrs.NewValidationError(
				codexerrs.ErrCodeInvalidFormat,
				"environment variable names must be non-empty and contain no '='",
				nil,
				"Env",
				key,
			)
		}
	}

	return nil
}
