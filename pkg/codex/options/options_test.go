package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/pkg/codexerrs"
)

func TestNilOptionsDefaults(t *testing.T) {
	var o *ClientOptions

	assert.Equal(t, DefaultCodexPath, o.Path())
	assert.False(t, o.AnalyticsEnabled())
	assert.False(t, o.Experimental())
	assert.Equal(t, DefaultMaxLineSize, o.LineLimit())
	assert.Equal(t, []string{AppServerSubcommand}, o.CommandArgs())
	assert.Equal(t, ClientInfo{
		Name:    DefaultClientName,
		Title:   DefaultClientTitle,
		Version: DefaultClientVersion,
	}, o.ResolvedClientInfo())
	assert.NoError(t, o.Validate())
}

func TestCommandArgs(t *testing.T) {
	enabled := true
	o := &ClientOptions{AnalyticsDefaultEnabled: &enabled, Args: []string{"-c", "model=o3"}}

	assert.Equal(t, []string{AppServerSubcommand, AnalyticsFlag, "-c", "model=o3"}, o.CommandArgs())
}

func TestValidate(t *testing.T) {
	blank := " "
	zero := 0

	tests := []struct {
		name  string
		opts  ClientOptions
		field string
	}{
		{name: "blank path", opts: ClientOptions{CodexPath: &blank}, field: "CodexPath"},
		{name: "zero max line", opts: ClientOptions{MaxLineSize: &zero}, field: "MaxLineSize"},
		{name: "bad env key", opts: ClientOptions{Env: map[string]string{"A=B": "x"}}, field: "Env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			require.Error(t, err)

			var verr *codexerrs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CODEX_PATH", "/opt/codex")
	t.Setenv("CODEX_ARGS", "-c  model=o3")
	t.Setenv("CODEX_ANALYTICS_DEFAULT_ENABLED", "true")
	t.Setenv("CODEX_EXPERIMENTAL_API", "1")
	t.Setenv("CODEX_CLIENT_NAME", "bot")
	t.Setenv("CODEX_MAX_LINE_SIZE", "1024")

	o, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/opt/codex", o.Path())
	assert.Equal(t, []string{"-c", "model=o3"}, o.Args)
	assert.True(t, o.AnalyticsEnabled())
	assert.True(t, o.Experimental())
	assert.Equal(t, 1024, o.LineLimit())
	assert.Equal(t, "bot", o.ResolvedClientInfo().Name)
	assert.Equal(t, DefaultClientTitle, o.ResolvedClientInfo().Title)
	assert.Nil(t, o.Cwd)
}

func TestFromEnvRejectsBadBool(t *testing.T) {
	t.Setenv("CODEX_EXPERIMENTAL_API", "maybe")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CODEX_EXPERIMENTAL_API")
}
