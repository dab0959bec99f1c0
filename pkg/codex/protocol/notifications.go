package protocol

import "encoding/json"

// Server notification methods.
const (
	NotifyThreadStarted                 = "thread/started"
	NotifyThreadNameUpdated             = "thread/name/updated"
	NotifyThreadTokenUsageUpdated       = "thread/tokenUsage/updated"
	NotifyThreadCompacted               = "thread/compacted"
	NotifyTurnStarted                   = "turn/started"
	NotifyTurnCompleted                 = "turn/completed"
	NotifyTurnDiffUpdated               = "turn/diff/updated"
	NotifyTurnPlanUpdated               = "turn/plan/updated"
	NotifyItemStarted                   = "item/started"
	NotifyItemCompleted                 = "item/completed"
	NotifyAgentMessageDelta             = "item/agentMessage/delta"
	NotifyPlanDelta                     = "item/plan/delta"
	NotifyCommandExecutionOutputDelta   = "item/commandExecution/outputDelta"
	NotifyCommandExecutionTerminalInput = "item/commandExecution/terminalInteraction"
	NotifyFileChangeOutputDelta         = "item/fileChange/outputDelta"
	NotifyMcpToolCallProgress           = "item/mcpToolCall/progress"
	NotifyReasoningTextDelta            = "item/reasoning/textDelta"
	NotifyReasoningSummaryTextDelta     = "item/reasoning/summaryTextDelta"
	NotifyReasoningSummaryPartAdded     = "item/reasoning/summaryPartAdded"
	NotifyError                         = "error"
)

// ThreadStartedNotification carries a newly created thread.
type ThreadStartedNotification struct {
	Thread Thread `json:"thread"`
}

// ThreadNameUpdatedNotification reports a rename.
type ThreadNameUpdatedNotification struct {
	ThreadID string `json:"threadId"`
	Name     string `json:"name"`
}

// ThreadTokenUsageUpdatedNotification reports token accounting.
type ThreadTokenUsageUpdatedNotification struct {
	ThreadID   string          `json:"threadId"`
	TokenUsage json.RawMessage `json:"tokenUsage"`
}

// ThreadCompactedNotification reports finished compaction.
type ThreadCompactedNotification struct {
	ThreadID string `json:"threadId"`
}

// TurnNotification is the payload of turn/started and turn/completed.
type TurnNotification struct {
	ThreadID string `json:"threadId"`
	Turn     Turn   `json:"turn"`
}

// TurnDiffUpdatedNotification carries the aggregated diff of a turn.
type TurnDiffUpdatedNotification struct {
	ThreadID string          `json:"threadId"`
	TurnID   string          `json:"turnId"`
	Diff     json.RawMessage `json:"diff"`
}

// TurnPlanUpdatedNotification carries the agent's current plan.
type TurnPlanUpdatedNotification struct {
	ThreadID    string          `json:"threadId"`
	TurnID      string          `json:"turnId"`
	Plan        json.RawMessage `json:"plan"`
	Explanation *string         `json:"explanation,omitempty"`
}

// ItemNotification is the payload of item/started and item/completed.
type ItemNotification struct {
	ThreadID string          `json:"threadId"`
	TurnID   string          `json:"turnId"`
	Item     json.RawMessage `json:"item"`
}

// DeltaNotification is the payload shared by the streaming delta methods.
type DeltaNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
	ItemID   string `json:"itemId"`
	Delta    string `json:"delta"`
}

// McpToolCallProgressNotification reports MCP tool progress.
type McpToolCallProgressNotification struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
	ItemID   string `json:"itemId"`
	Message  string `json:"message"`
}

// ErrorNotification reports an agent-side failure.
type ErrorNotification struct {
	Error     json.RawMessage `json:"error"`
	WillRetry bool            `json:"willRetry,omitempty"`
	ThreadID  string          `json:"threadId,omitempty"`
	TurnID    string          `json:"turnId,omitempty"`
}

// IsDelta reports whether method streams incremental text.
func IsDelta(method string) bool {
	switch method {
	case NotifyAgentMessageDelta, NotifyPlanDelta, NotifyCommandExecutionOutputDelta,
		NotifyFileChangeOutputDelta, NotifyReasoningTextDelta, NotifyReasoningSummaryTextDelta:
		return true
	default:
		return false
	}
}
