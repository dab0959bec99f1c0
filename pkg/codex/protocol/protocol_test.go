package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/pkg/codex/protocol"
)

func TestThreadKeepsUnknownMembers(t *testing.T) {
	raw := `{"id":"t1","preview":"hi","createdAt":10,"source":"cli","future":{"x":1},"turns":[{"id":"u1","status":"completed","flag":true}]}`

	var th protocol.Thread
	require.NoError(t, json.Unmarshal([]byte(raw), &th))

	assert.Equal(t, "t1", th.ID)
	assert.Equal(t, int64(10), th.CreatedAt)
	assert.JSONEq(t, `"cli"`, string(th.Source))
	assert.JSONEq(t, `{"x":1}`, string(th.Extra["future"]))
	require.Len(t, th.Turns, 1)
	assert.JSONEq(t, `true`, string(th.Turns[0].Extra["flag"]))
	assert.NotContains(t, th.Extra, "id")

	out, err := json.Marshal(th)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestThreadStartParamsEncoding(t *testing.T) {
	tests := []struct {
		name   string
		params protocol.ThreadStartParams
		want   string
	}{
		{
			name:   "zero value",
			params: protocol.ThreadStartParams{},
			want:   `{"experimentalRawEvents":false}`,
		},
		{
			name: "typed and extra members",
			params: protocol.ThreadStartParams{
				Model:          protocol.Ptr("gpt-5"),
				ApprovalPolicy: protocol.Ptr(protocol.ApprovalNever),
				Sandbox:        protocol.Ptr(protocol.SandboxReadOnly),
				Extra: map[string]json.RawMessage{
					"custom": json.RawMessage(`[1,2]`),
					"model":  json.RawMessage(`"ignored"`),
				},
			},
			want: `{"model":"gpt-5","approvalPolicy":"never","sandbox":"read-only","experimentalRawEvents":false,"custom":[1,2]}`,
		},
		{
			name: "dynamic tools",
			params: protocol.ThreadStartParams{
				DynamicTools: []protocol.DynamicToolSpec{{
					Name:        "echo",
					InputSchema: json.RawMessage(`{"type":"object"}`),
				}},
			},
			want: `{"experimentalRawEvents":false,"dynamicTools":[{"name":"echo","inputSchema":{"type":"object"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.params)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestUserInputEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input protocol.UserInput
		want  string
	}{
		{"text", protocol.TextInput("hello"), `{"type":"text","text":"hello","text_elements":[]}`},
		{"image", protocol.ImageInput("https://x/y.png"), `{"type":"image","url":"https://x/y.png"}`},
		{"local image", protocol.LocalImageInput("/tmp/a.png"), `{"type":"localImage","path":"/tmp/a.png"}`},
		{"skill", protocol.SkillInput("fmt", "/s/fmt"), `{"type":"skill","name":"fmt","path":"/s/fmt"}`},
		{"mention", protocol.MentionInput("main.go", "/r/main.go"), `{"type":"mention","name":"main.go","path":"/r/main.go"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.input)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}

	_, err := json.Marshal(protocol.UserInput{Type: "audio"})
	require.Error(t, err)
}

func TestSandboxPolicyEncoding(t *testing.T) {
	ws := protocol.SandboxPolicy{
		Type:           protocol.SandboxPolicyWorkspaceWrite,
		WritableRoots:  []string{"/repo"},
		NetworkEnabled: true,
	}
	out, err := json.Marshal(ws)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"workspaceWrite","writableRoots":["/repo"],"networkAccess":true,"excludeTmpdirEnvVar":false,"excludeSlashTmp":false}`, string(out))

	ext := protocol.SandboxPolicy{Type: protocol.SandboxPolicyExternalSandbox, NetworkAccess: protocol.NetworkRestricted}
	out, err = json.Marshal(ext)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"externalSandbox","networkAccess":"restricted"}`, string(out))

	var back protocol.SandboxPolicy
	require.NoError(t, json.Unmarshal([]byte(`{"type":"externalSandbox","networkAccess":"enabled"}`), &back))
	assert.Equal(t, protocol.NetworkEnabled, back.NetworkAccess)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"workspaceWrite","writableRoots":[],"networkAccess":true,"excludeTmpdirEnvVar":true,"excludeSlashTmp":false}`), &back))
	assert.True(t, back.NetworkEnabled)
	assert.True(t, back.ExcludeTmpdirEnvVar)
	assert.Empty(t, back.NetworkAccess)
}

func TestCommandApprovalDecision(t *testing.T) {
	out, err := json.Marshal(protocol.CommandExecutionRequestApprovalResponse{
		Decision: protocol.CommandExecutionApprovalDecision{Decision: protocol.DecisionAcceptForSession},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision":"acceptForSession"}`, string(out))

	out, err = json.Marshal(protocol.AcceptWithAmendment(protocol.ExecPolicyAmendment{"go", "test"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"acceptWithExecpolicyAmendment":{"execpolicy_amendment":["go","test"]}}`, string(out))

	var d protocol.CommandExecutionApprovalDecision
	require.NoError(t, json.Unmarshal([]byte(`{"acceptWithExecpolicyAmendment":{"execpolicy_amendment":["ls"]}}`), &d))
	assert.Equal(t, protocol.ExecPolicyAmendment{"ls"}, d.Amendment)

	require.NoError(t, json.Unmarshal([]byte(`"decline"`), &d))
	assert.Equal(t, protocol.DecisionDecline, d.Decision)
	assert.Nil(t, d.Amendment)

	_, err = json.Marshal(protocol.CommandExecutionApprovalDecision{})
	require.Error(t, err)
}

func TestSetDefaultModelSendsNulls(t *testing.T) {
	out, err := json.Marshal(protocol.SetDefaultModelParams{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":null,"reasoningEffort":null}`, string(out))
}

func TestIsDelta(t *testing.T) {
	assert.True(t, protocol.IsDelta(protocol.NotifyAgentMessageDelta))
	assert.True(t, protocol.IsDelta(protocol.NotifyReasoningSummaryTextDelta))
	assert.False(t, protocol.IsDelta(protocol.NotifyTurnCompleted))
}
