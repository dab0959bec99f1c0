package protocol

import "encoding/json"

// TurnStartParams submits user input to a thread.
type TurnStartParams struct {
	ThreadID          string            `json:"threadId"`
	Input             []UserInput       `json:"input"`
	Cwd               *string           `json:"cwd,omitempty"`
	ApprovalPolicy    *AskForApproval   `json:"approvalPolicy,omitempty"`
	SandboxPolicy     *SandboxPolicy    `json:"sandboxPolicy,omitempty"`
	Model             *string           `json:"model,omitempty"`
	Effort            *ReasoningEffort  `json:"effort,omitempty"`
	Summary           *ReasoningSummary `json:"summary,omitempty"`
	Personality       map[string]any    `json:"personality,omitempty"`
	OutputSchema      json.RawMessage   `json:"outputSchema,omitempty"`
	CollaborationMode *string           `json:"collaborationMode,omitempty"`
}

// TurnStartResponse is the result of turn/start.
type TurnStartResponse struct {
	Turn Turn `json:"turn"`
}

// TurnInterruptParams cancels a running turn.
type TurnInterruptParams struct {
	ThreadID string `json:"threadId"`
	TurnID   string `json:"turnId"`
}

// TurnInterruptResponse is the result of turn/interrupt.
type TurnInterruptResponse = EmptyResponse
