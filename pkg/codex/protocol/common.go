package protocol

import "encoding/json"

// AskForApproval is the approval policy for commands the agent runs.
type AskForApproval string

const (
	ApprovalUntrusted AskForApproval = "untrusted"
	ApprovalOnFailure AskForApproval = "on-failure"
	ApprovalOnRequest AskForApproval = "on-request"
	ApprovalNever     AskForApproval = "never"
)

// SandboxMode selects a predefined sandbox.
type SandboxMode string

const (
	SandboxReadOnly         SandboxMode = "read-only"
	SandboxWorkspaceWrite   SandboxMode = "workspace-write"
	SandboxDangerFullAccess SandboxMode = "danger-full-access"
)

// NetworkAccess is the network setting of an external sandbox.
type NetworkAccess string

const (
	NetworkRestricted NetworkAccess = "restricted"
	NetworkEnabled    NetworkAccess = "enabled"
)

// ReasoningEffort tunes how much the model reasons.
type ReasoningEffort string

const (
	EffortNone    ReasoningEffort = "none"
	EffortMinimal ReasoningEffort = "minimal"
	EffortLow     ReasoningEffort = "low"
	EffortMedium  ReasoningEffort = "medium"
	EffortHigh    ReasoningEffort = "high"
	EffortXHigh   ReasoningEffort = "xhigh"
)

// ReasoningSummary selects the reasoning summary style.
type ReasoningSummary string

const (
	SummaryAuto     ReasoningSummary = "auto"
	SummaryConcise  ReasoningSummary = "concise"
	SummaryDetailed ReasoningSummary = "detailed"
	SummaryNone     ReasoningSummary = "none"
)

// InputModality is a kind of input a model accepts.
type InputModality string

const (
	ModalityText  InputModality = "text"
	ModalityImage InputModality = "image"
)

// MergeStrategy controls how a config edit combines with existing values.
type MergeStrategy string

const (
	MergeReplace MergeStrategy = "replace"
	MergeUpsert  MergeStrategy = "upsert"
)

// SkillScope is where a skill is installed.
type SkillScope string

const (
	SkillScopeUser   SkillScope = "user"
	SkillScopeRepo   SkillScope = "repo"
	SkillScopeSystem SkillScope = "system"
	SkillScopeAdmin  SkillScope = "admin"
)

// ClientInfo identifies this client during initialize.
type ClientInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}

// Capabilities are the optional features this client opts into.
type Capabilities struct {
	ExperimentalAPI bool `json:"experimentalApi"`
}

// InitializeParams is the payload of the initialize handshake.
type InitializeParams struct {
	ClientInfo   ClientInfo    `json:"clientInfo"`
	Capabilities *Capabilities `json:"capabilities"`
}

// GitInfo describes the repository a thread was started in.
type GitInfo struct {
	SHA       *string `json:"sha"`
	Branch    *string `json:"branch"`
	OriginURL *string `json:"originUrl"`
}

// ReasoningEffortOption is one effort level a model supports.
type ReasoningEffortOption struct {
	ReasoningEffort ReasoningEffort `json:"reasoningEffort"`
	Description     string          `json:"description"`
}

// EmptyResponse is the result of methods that return an empty object.
type EmptyResponse struct{}

// JSONValue is an arbitrary JSON document.
type JSONValue = json.RawMessage
