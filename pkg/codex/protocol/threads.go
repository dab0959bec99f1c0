package protocol

import (
	"encoding/json"

	"github.com/conneroisu/codex/pkg/codex/internal/jsonx"
)

// ThreadSortKey orders thread/list results.
type ThreadSortKey string

const (
	SortCreatedAt ThreadSortKey = "created_at"
	SortUpdatedAt ThreadSortKey = "updated_at"
)

// ThreadSourceKind filters thread/list by where threads originated.
type ThreadSourceKind string

const (
	SourceCLI                 ThreadSourceKind = "cli"
	SourceVSCode              ThreadSourceKind = "vscode"
	SourceExec                ThreadSourceKind = "exec"
	SourceAppServer           ThreadSourceKind = "appServer"
	SourceSubAgent            ThreadSourceKind = "subAgent"
	SourceSubAgentReview      ThreadSourceKind = "subAgentReview"
	SourceSubAgentCompact     ThreadSourceKind = "subAgentCompact"
	SourceSubAgentThreadSpawn ThreadSourceKind = "subAgentThreadSpawn"
	SourceSubAgentOther       ThreadSourceKind = "subAgentOther"
	SourceUnknown             ThreadSourceKind = "unknown"
)

// ThreadStartParams configures a new thread.
type ThreadStartParams struct {
	Model                 *string                    `json:"model,omitempty"`
	ModelProvider         *string                    `json:"modelProvider,omitempty"`
	Cwd                   *string                    `json:"cwd,omitempty"`
	ApprovalPolicy        *AskForApproval            `json:"approvalPolicy,omitempty"`
	Sandbox               *SandboxMode               `json:"sandbox,omitempty"`
	Config                map[string]json.RawMessage `json:"config,omitempty"`
	BaseInstructions      *string                    `json:"baseInstructions,omitempty"`
	DeveloperInstructions *string                    `json:"developerInstructions,omitempty"`
	Personality           map[string]any             `json:"personality,omitempty"`
	Ephemeral             *bool                      `json:"ephemeral,omitempty"`
	ExperimentalRawEvents bool                       `json:"experimentalRawEvents"`
	DynamicTools          []DynamicToolSpec          `json:"dynamicTools,omitempty"`

	// Extra holds members not listed above. They are sent as-is.
	Extra map[string]json.RawMessage `json:"-"`
}

type threadStartFields ThreadStartParams

// UnmarshalJSON implements json.Unmarshaler.
func (p *ThreadStartParams) UnmarshalJSON(data []byte) error {
	var f threadStartFields
	extra, err := jsonx.Split(data, &f)
	if err != nil {
		return err
	}
	*p = ThreadStartParams(f)
	p.Extra = extra

	return nil
}

// MarshalJSON implements json.Marshaler.
func (p ThreadStartParams) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(threadStartFields(p), p.Extra)
}

// ThreadStartResponse is the result of thread/start.
type ThreadStartResponse struct {
	Thread          Thread           `json:"thread"`
	Model           string           `json:"model"`
	ModelProvider   string           `json:"modelProvider"`
	Cwd             string           `json:"cwd"`
	ApprovalPolicy  AskForApproval   `json:"approvalPolicy"`
	Sandbox         SandboxMode      `json:"sandbox"`
	ReasoningEffort *ReasoningEffort `json:"reasoningEffort"`
}

// ThreadResumeParams reopens a stored thread.
type ThreadResumeParams struct {
	ThreadID              string                     `json:"threadId"`
	History               []json.RawMessage          `json:"history,omitempty"`
	Path                  *string                    `json:"path,omitempty"`
	Model                 *string                    `json:"model,omitempty"`
	ModelProvider         *string                    `json:"modelProvider,omitempty"`
	Cwd                   *string                    `json:"cwd,omitempty"`
	ApprovalPolicy        *AskForApproval            `json:"approvalPolicy,omitempty"`
	Sandbox               *SandboxMode               `json:"sandbox,omitempty"`
	Config                map[string]json.RawMessage `json:"config,omitempty"`
	BaseInstructions      *string                    `json:"baseInstructions,omitempty"`
	DeveloperInstructions *string                    `json:"developerInstructions,omitempty"`
	Personality           map[string]any             `json:"personality,omitempty"`
}

// ThreadResumeResponse is the result of thread/resume.
type ThreadResumeResponse struct {
	Thread          Thread           `json:"thread"`
	Model           string           `json:"model"`
	ModelProvider   string           `json:"modelProvider"`
	Cwd             string           `json:"cwd"`
	ApprovalPolicy  AskForApproval   `json:"approvalPolicy"`
	Sandbox         SandboxPolicy    `json:"sandbox"`
	ReasoningEffort *ReasoningEffort `json:"reasoningEffort"`
}

// ThreadForkParams copies a thread into a new one.
type ThreadForkParams struct {
	ThreadID              string                     `json:"threadId"`
	Path                  *string                    `json:"path,omitempty"`
	Model                 *string                    `json:"model,omitempty"`
	ModelProvider         *string                    `json:"modelProvider,omitempty"`
	Cwd                   *string                    `json:"cwd,omitempty"`
	ApprovalPolicy        *AskForApproval            `json:"approvalPolicy,omitempty"`
	Sandbox               *SandboxMode               `json:"sandbox,omitempty"`
	Config                map[string]json.RawMessage `json:"config,omitempty"`
	BaseInstructions      *string                    `json:"baseInstructions,omitempty"`
	DeveloperInstructions *string                    `json:"developerInstructions,omitempty"`
}

// ThreadForkResponse is the result of thread/fork.
type ThreadForkResponse = ThreadResumeResponse

// ThreadArchiveParams archives a thread.
type ThreadArchiveParams struct {
	ThreadID string `json:"threadId"`
}

// ThreadArchiveResponse is the result of thread/archive.
type ThreadArchiveResponse = EmptyResponse

// ThreadUnarchiveParams restores an archived thread.
type ThreadUnarchiveParams struct {
	ThreadID string `json:"threadId"`
}

// ThreadUnarchiveResponse is the result of thread/unarchive.
type ThreadUnarchiveResponse struct {
	Thread Thread `json:"thread"`
}

// ThreadSetNameParams renames a thread.
type ThreadSetNameParams struct {
	ThreadID string `json:"threadId"`
	Name     string `json:"name"`
}

// ThreadSetNameResponse is the result of thread/name/set.
type ThreadSetNameResponse = EmptyResponse

// ThreadCompactStartParams starts history compaction.
type ThreadCompactStartParams struct {
	ThreadID string `json:"threadId"`
}

// ThreadCompactStartResponse is the result of thread/compact/start.
type ThreadCompactStartResponse = EmptyResponse

// ThreadRollbackParams drops the last NumTurns turns.
type ThreadRollbackParams struct {
	ThreadID string `json:"threadId"`
	NumTurns int    `json:"numTurns"`
}

// ThreadRollbackResponse is the result of thread/rollback.
type ThreadRollbackResponse struct {
	Thread Thread `json:"thread"`
}

// ThreadListParams filters and pages thread/list.
type ThreadListParams struct {
	Cursor         *string            `json:"cursor,omitempty"`
	Limit          *int               `json:"limit,omitempty"`
	SortKey        *ThreadSortKey     `json:"sortKey,omitempty"`
	ModelProviders []string           `json:"modelProviders,omitempty"`
	SourceKinds    []ThreadSourceKind `json:"sourceKinds,omitempty"`
	Archived       *bool              `json:"archived,omitempty"`
}

// ThreadListResponse is one page of threads.
type ThreadListResponse struct {
	Data       []Thread `json:"data"`
	NextCursor *string  `json:"nextCursor"`
}

// ThreadLoadedListParams pages thread/loaded/list.
type ThreadLoadedListParams struct {
	Cursor *string `json:"cursor,omitempty"`
	Limit  *int    `json:"limit,omitempty"`
}

// ThreadLoadedListResponse lists the ids of threads loaded in memory.
type ThreadLoadedListResponse struct {
	Data       []string `json:"data"`
	NextCursor *string  `json:"nextCursor"`
}

// ThreadReadParams reads one thread.
type ThreadReadParams struct {
	ThreadID     string `json:"threadId"`
	IncludeTurns bool   `json:"includeTurns"`
}

// ThreadReadResponse is the result of thread/read.
type ThreadReadResponse struct {
	Thread Thread `json:"thread"`
}
