package codex

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/conneroisu/codex/pkg/codex/protocol"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

// invoke starts the client if needed, calls method, and decodes the result.
func invoke[T any](ctx context.Context, c *Client, method string, params any) (*T, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}

	raw, err := c.Call(ctx, method, params)
	if err != nil {
		return nil, err
	}

	var out T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &out, nil
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, codexerrs.NewProtocolError(
			codexerrs.ErrCodeInvalidMessage,
			"failed to decode result",
			err,
		).WithMethod(method)
	}

	return &out, nil
}

// StartThread creates a thread.
func (c *Client) StartThread(ctx context.Context, params protocol.ThreadStartParams) (*protocol.ThreadStartResponse, error) {
	return invoke[protocol.ThreadStartResponse](ctx, c, protocol.MethodThreadStart, params)
}

// ResumeThread reopens a stored thread.
func (c *Client) ResumeThread(ctx context.Context, params protocol.ThreadResumeParams) (*protocol.ThreadResumeResponse, error) {
	return invoke[protocol.ThreadResumeResponse](ctx, c, protocol.MethodThreadResume, params)
}

// ForkThread copies a thread into a new one.
func (c *Client) ForkThread(ctx context.Context, params protocol.ThreadForkParams) (*protocol.ThreadForkResponse, error) {
	return invoke[protocol.ThreadForkResponse](ctx, c, protocol.MethodThreadFork, params)
}

// ArchiveThread archives a thread.
func (c *Client) ArchiveThread(ctx context.Context, params protocol.ThreadArchiveParams) (*protocol.ThreadArchiveResponse, error) {
	return invoke[protocol.ThreadArchiveResponse](ctx, c, protocol.MethodThreadArchive, params)
}

// UnarchiveThread restores an archived thread.
func (c *Client) UnarchiveThread(ctx context.Context, params protocol.ThreadUnarchiveParams) (*protocol.ThreadUnarchiveResponse, error) {
	return invoke[protocol.ThreadUnarchiveResponse](ctx, c, protocol.MethodThreadUnarchive, params)
}

// SetThreadName renames a thread.
func (c *Client) SetThreadName(ctx context.Context, params protocol.ThreadSetNameParams) (*protocol.ThreadSetNameResponse, error) {
	return invoke[protocol.ThreadSetNameResponse](ctx, c, protocol.MethodThreadSetName, params)
}

// CompactThread starts history compaction.
func (c *Client) CompactThread(ctx context.Context, params protocol.ThreadCompactStartParams) (*protocol.ThreadCompactStartResponse, error) {
	return invoke[protocol.ThreadCompactStartResponse](ctx, c, protocol.MethodThreadCompactStart, params)
}

// RollbackThread drops the most recent turns.
func (c *Client) RollbackThread(ctx context.Context, params protocol.ThreadRollbackParams) (*protocol.ThreadRollbackResponse, error) {
	return invoke[protocol.ThreadRollbackResponse](ctx, c, protocol.MethodThreadRollback, params)
}

// ListThreads pages stored threads. A nil params sends {}.
func (c *Client) ListThreads(ctx context.Context, params *protocol.ThreadListParams) (*protocol.ThreadListResponse, error) {
	if params == nil {
		params = &protocol.ThreadListParams{}
	}

	return invoke[protocol.ThreadListResponse](ctx, c, protocol.MethodThreadList, params)
}

// ListLoadedThreads pages threads loaded in memory. A nil params sends {}.
func (c *Client) ListLoadedThreads(ctx context.Context, params *protocol.ThreadLoadedListParams) (*protocol.ThreadLoadedListResponse, error) {
	if params == nil {
		params = &protocol.ThreadLoadedListParams{}
	}

	return invoke[protocol.ThreadLoadedListResponse](ctx, c, protocol.MethodThreadLoadedList, params)
}

// ReadThread reads one thread.
func (c *Client) ReadThread(ctx context.Context, params protocol.ThreadReadParams) (*protocol.ThreadReadResponse, error) {
	return invoke[protocol.ThreadReadResponse](ctx, c, protocol.MethodThreadRead, params)
}

// ListModels pages available models. A nil params sends {}.
func (c *Client) ListModels(ctx context.Context, params *protocol.ModelListParams) (*protocol.ModelListResponse, error) {
	if params == nil {
		params = &protocol.ModelListParams{}
	}

	return invoke[protocol.ModelListResponse](ctx, c, protocol.MethodModelList, params)
}

// SetDefaultModel changes the default model and effort.
func (c *Client) SetDefaultModel(ctx context.Context, params protocol.SetDefaultModelParams) (*protocol.SetDefaultModelResponse, error) {
	return invoke[protocol.SetDefaultModelResponse](ctx, c, protocol.MethodSetDefaultModel, params)
}

// ListApps pages connected apps. A nil params sends {}.
func (c *Client) ListApps(ctx context.Context, params *protocol.AppsListParams) (*protocol.AppsListResponse, error) {
	if params == nil {
		params = &protocol.AppsListParams{}
	}

	return invoke[protocol.AppsListResponse](ctx, c, protocol.MethodAppList, params)
}

// ListSkills lists installed skills. A nil params sends {}.
func (c *Client) ListSkills(ctx context.Context, params *protocol.SkillsListParams) (*protocol.SkillsListResponse, error) {
	if params == nil {
		params = &protocol.SkillsListParams{}
	}

	return invoke[protocol.SkillsListResponse](ctx, c, protocol.MethodSkillsList, params)
}

// ReadRemoteSkills lists downloadable skills. A nil params sends {}.
func (c *Client) ReadRemoteSkills(ctx context.Context, params *protocol.SkillsRemoteReadParams) (*protocol.SkillsRemoteReadResponse, error) {
	if params == nil {
		params = &protocol.SkillsRemoteReadParams{}
	}

	return invoke[protocol.SkillsRemoteReadResponse](ctx, c, protocol.MethodSkillsRemoteRead, params)
}

// WriteRemoteSkill installs a remote skill.
func (c *Client) WriteRemoteSkill(ctx context.Context, params protocol.SkillsRemoteWriteParams) (*protocol.SkillsRemoteWriteResponse, error) {
	return invoke[protocol.SkillsRemoteWriteResponse](ctx, c, protocol.MethodSkillsRemoteWrite, params)
}

// WriteSkillConfig enables or disables a skill.
func (c *Client) WriteSkillConfig(ctx context.Context, params protocol.SkillsConfigWriteParams) (*protocol.SkillsConfigWriteResponse, error) {
	return invoke[protocol.SkillsConfigWriteResponse](ctx, c, protocol.MethodSkillsConfigWrite, params)
}

// ReadConfig reads the effective configuration.
func (c *Client) ReadConfig(ctx context.Context, params protocol.ConfigReadParams) (*protocol.ConfigReadResponse, error) {
	return invoke[protocol.ConfigReadResponse](ctx, c, protocol.MethodConfigRead, params)
}

// WriteConfigValue writes one configuration key.
func (c *Client) WriteConfigValue(ctx context.Context, params protocol.ConfigValueWriteParams) (json.RawMessage, error) {
	out, err := invoke[protocol.ConfigWriteResponse](ctx, c, protocol.MethodConfigValueWrite, params)
	if err != nil {
		return nil, err
	}

	return *out, nil
}

// BatchWriteConfig applies several configuration edits.
func (c *Client) BatchWriteConfig(ctx context.Context, params protocol.ConfigBatchWriteParams) (json.RawMessage, error) {
	out, err := invoke[protocol.ConfigWriteResponse](ctx, c, protocol.MethodConfigBatchWrite, params)
	if err != nil {
		return nil, err
	}

	return *out, nil
}

// ReadConfigRequirements reads administrator requirements. The request has
// no params member.
func (c *Client) ReadConfigRequirements(ctx context.Context) (*protocol.ConfigRequirementsReadResponse, error) {
	return invoke[protocol.ConfigRequirementsReadResponse](ctx, c, protocol.MethodConfigRequirementsRead, nil)
}

// StartTurn submits user input to a thread.
func (c *Client) StartTurn(ctx context.Context, params protocol.TurnStartParams) (*protocol.TurnStartResponse, error) {
	return invoke[protocol.TurnStartResponse](ctx, c, protocol.MethodTurnStart, params)
}

// InterruptTurn cancels a running turn.
func (c *Client) InterruptTurn(ctx context.Context, params protocol.TurnInterruptParams) (*protocol.TurnInterruptResponse, error) {
	return invoke[protocol.TurnInterruptResponse](ctx, c, protocol.MethodTurnInterrupt, params)
}
