package protocol

import (
	"encoding/json"

	"github.com/conneroisu/codex/pkg/codex/internal/jsonx"
)

// Thread is a conversation held by app-server.
type Thread struct {
	ID            string   `json:"id"`
	Preview       string   `json:"preview,omitempty"`
	Cwd           string   `json:"cwd,omitempty"`
	ModelProvider string   `json:"modelProvider,omitempty"`
	CreatedAt     int64    `json:"createdAt,omitempty"`
	UpdatedAt     int64    `json:"updatedAt,omitempty"`
	Path          *string  `json:"path,omitempty"`
	CLIVersion    string   `json:"cliVersion,omitempty"`
	GitInfo       *GitInfo `json:"gitInfo,omitempty"`
	Turns         []Turn   `json:"turns,omitempty"`
	// Source is a string such as "cli" or an object for sub-agent threads.
	Source json.RawMessage `json:"source,omitempty"`

	// Extra holds members not listed above.
	Extra map[string]json.RawMessage `json:"-"`
}

type threadFields Thread

// UnmarshalJSON implements json.Unmarshaler.
func (t *Thread) UnmarshalJSON(data []byte) error {
	var f threadFields
	extra, err := jsonx.Split(data, &f)
	if err != nil {
		return err
	}
	*t = Thread(f)
	t.Extra = extra

	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Thread) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(threadFields(t), t.Extra)
}

// Turn is one user request and the agent's work on it.
type Turn struct {
	ID     string            `json:"id"`
	Status string            `json:"status,omitempty"`
	Items  []json.RawMessage `json:"items,omitempty"`
	Error  json.RawMessage   `json:"error,omitempty"`

	// Extra holds members not listed above.
	Extra map[string]json.RawMessage `json:"-"`
}

type turnFields Turn

// UnmarshalJSON implements json.Unmarshaler.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var f turnFields
	extra, err := jsonx.Split(data, &f)
	if err != nil {
		return err
	}
	*t = Turn(f)
	t.Extra = extra

	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Turn) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(turnFields(t), t.Extra)
}
