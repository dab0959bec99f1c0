package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Server request methods.
const (
	MethodCommandExecutionRequestApproval = "item/commandExecution/requestApproval"
	MethodFileChangeRequestApproval       = "item/fileChange/requestApproval"
	MethodToolRequestUserInput            = "item/tool/requestUserInput"
	MethodDynamicToolCall                 = "item/tool/call"
)

// ApprovalDecision is the plain-string form shared by command and file
// change approvals.
type ApprovalDecision string

const (
	DecisionAccept           ApprovalDecision = "accept"
	DecisionAcceptForSession ApprovalDecision = "acceptForSession"
	DecisionDecline          ApprovalDecision = "decline"
	DecisionCancel           ApprovalDecision = "cancel"
)

// ExecPolicyAmendment is a proposed execution policy rule, as argv tokens.
type ExecPolicyAmendment []string

// CommandExecutionRequestApprovalParams asks to run a command.
type CommandExecutionRequestApprovalParams struct {
	ThreadID                    string              `json:"threadId"`
	TurnID                      string              `json:"turnId"`
	ItemID                      string              `json:"itemId"`
	Reason                      *string             `json:"reason,omitempty"`
	Command                     *string             `json:"command,omitempty"`
	Cwd                         *string             `json:"cwd,omitempty"`
	CommandActions              []json.RawMessage   `json:"commandActions,omitempty"`
	ProposedExecpolicyAmendment ExecPolicyAmendment `json:"proposedExecpolicyAmendment,omitempty"`
}

// CommandExecutionApprovalDecision answers a command approval. Amendment is
// set only for the acceptWithExecpolicyAmendment form.
type CommandExecutionApprovalDecision struct {
	Decision  ApprovalDecision
	Amendment ExecPolicyAmendment
}

// AcceptWithAmendment accepts the command and records amendment.
func AcceptWithAmendment(amendment ExecPolicyAmendment) CommandExecutionApprovalDecision {
	if amendment == nil {
		amendment = ExecPolicyAmendment{}
	}

	return CommandExecutionApprovalDecision{Amendment: amendment}
}

type amendmentWire struct {
	AcceptWithExecpolicyAmendment struct {
		ExecpolicyAmendment ExecPolicyAmendment `json:"execpolicy_amendment"`
	} `json:"acceptWithExecpolicyAmendment"`
}

// MarshalJSON implements json.Marshaler.
func (d CommandExecutionApprovalDecision) MarshalJSON() ([]byte, error) {
	if d.Amendment != nil {
		var w amendmentWire
		w.AcceptWithExecpolicyAmendment.ExecpolicyAmendment = d.Amendment

		return json.Marshal(w)
	}
	if d.Decision == "" {
		return nil, errors.New("protocol: empty command approval decision")
	}

	return json.Marshal(string(d.Decision))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *CommandExecutionApprovalDecision) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = CommandExecutionApprovalDecision{Decision: ApprovalDecision(s)}

		return nil
	}

	var w amendmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("protocol: decode command approval decision: %w", err)
	}
	*d = CommandExecutionApprovalDecision{Amendment: w.AcceptWithExecpolicyAmendment.ExecpolicyAmendment}
	if d.Amendment == nil {
		d.Amendment = ExecPolicyAmendment{}
	}

	return nil
}

// CommandExecutionRequestApprovalResponse is the reply to a command approval.
type CommandExecutionRequestApprovalResponse struct {
	Decision CommandExecutionApprovalDecision `json:"decision"`
}

// FileChangeRequestApprovalParams asks to apply a file change.
type FileChangeRequestApprovalParams struct {
	ThreadID  string  `json:"threadId"`
	TurnID    string  `json:"turnId"`
	ItemID    string  `json:"itemId"`
	Reason    *string `json:"reason,omitempty"`
	GrantRoot *string `json:"grantRoot,omitempty"`
}

// FileChangeRequestApprovalResponse is the reply to a file change approval.
type FileChangeRequestApprovalResponse struct {
	Decision ApprovalDecision `json:"decision"`
}

// ToolRequestUserInputOption is one suggested answer.
type ToolRequestUserInputOption struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ToolRequestUserInputQuestion is one question posed to the user.
type ToolRequestUserInputQuestion struct {
	ID       string                       `json:"id"`
	Header   string                       `json:"header"`
	Question string                       `json:"question"`
	IsOther  bool                         `json:"isOther"`
	IsSecret bool                         `json:"isSecret"`
	Options  []ToolRequestUserInputOption `json:"options"`
}

// ToolRequestUserInputParams asks the user one or more questions.
type ToolRequestUserInputParams struct {
	ThreadID  string                         `json:"threadId"`
	TurnID    string                         `json:"turnId"`
	ItemID    string                         `json:"itemId"`
	Questions []ToolRequestUserInputQuestion `json:"questions"`
}

// ToolRequestUserInputAnswer holds the answers to one question.
type ToolRequestUserInputAnswer struct {
	Answers []string `json:"answers"`
}

// ToolRequestUserInputResponse maps question ids to answers.
type ToolRequestUserInputResponse struct {
	Answers map[string]ToolRequestUserInputAnswer `json:"answers"`
}
