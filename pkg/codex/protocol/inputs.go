package protocol

import (
	"encoding/json"
	"fmt"
)

// UserInputType discriminates UserInput variants.
type UserInputType string

const (
	InputText       UserInputType = "text"
	InputImage      UserInputType = "image"
	InputLocalImage UserInputType = "localImage"
	InputSkill      UserInputType = "skill"
	InputMention    UserInputType = "mention"
)

// TextElement marks a span inside a text input.
type TextElement struct {
	Start *int   `json:"start,omitempty"`
	End   *int   `json:"end,omitempty"`
	Type  string `json:"type,omitempty"`
}

// UserInput is one item of a turn's input. Use the constructors to build
// well-formed variants.
type UserInput struct {
	Type         UserInputType
	Text         string
	TextElements []TextElement
	URL          string
	Path         string
	Name         string
}

// TextInput returns a text input item.
func TextInput(text string) UserInput {
	return UserInput{Type: InputText, Text: text}
}

// ImageInput returns an image input referenced by URL.
func ImageInput(url string) UserInput {
	return UserInput{Type: InputImage, URL: url}
}

// LocalImageInput returns an image input read from the local filesystem.
func LocalImageInput(path string) UserInput {
	return UserInput{Type: InputLocalImage, Path: path}
}

// SkillInput references an installed skill.
func SkillInput(name, path string) UserInput {
	return UserInput{Type: InputSkill, Name: name, Path: path}
}

// MentionInput references a mentioned file or resource.
func MentionInput(name, path string) UserInput {
	return UserInput{Type: InputMention, Name: name, Path: path}
}

type textInputWire struct {
	Type         UserInputType `json:"type"`
	Text         string        `json:"text"`
	TextElements []TextElement `json:"text_elements"`
}

type imageInputWire struct {
	Type UserInputType `json:"type"`
	URL  string        `json:"url"`
}

type pathInputWire struct {
	Type UserInputType `json:"type"`
	Path string        `json:"path"`
}

type namedInputWire struct {
	Type UserInputType `json:"type"`
	Name string        `json:"name"`
	Path string        `json:"path"`
}

// MarshalJSON implements json.Marshaler.
func (u UserInput) MarshalJSON() ([]byte, error) {
	switch u.Type {
	case InputText:
		elems := u.TextElements
		if elems == nil {
			elems = []TextElement{}
		}

		return json.Marshal(textInputWire{Type: u.Type, Text: u.Text, TextElements: elems})
	case InputImage:
		return json.Marshal(imageInputWire{Type: u.Type, URL: u.URL})
	case InputLocalImage:
		return json.Marshal(pathInputWire{Type: u.Type, Path: u.Path})
	case InputSkill, InputMention:
		return json.Marshal(namedInputWire{Type: u.Type, Name: u.Name, Path: u.Path})
	default:
		return nil, fmt.Errorf("protocol: unknown user input type %q", u.Type)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UserInput) UnmarshalJSON(data []byte) error {
	var w struct {
		Type         UserInputType `json:"type"`
		Text         string        `json:"text"`
		TextElements []TextElement `json:"text_elements"`
		URL          string        `json:"url"`
		Path         string        `json:"path"`
		Name         string        `json:"name"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*u = UserInput(w)

	return nil
}

// SandboxPolicyType discriminates SandboxPolicy variants.
type SandboxPolicyType string

const (
	SandboxPolicyDangerFullAccess SandboxPolicyType = "dangerFullAccess"
	SandboxPolicyReadOnly         SandboxPolicyType = "readOnly"
	SandboxPolicyExternalSandbox  SandboxPolicyType = "externalSandbox"
	SandboxPolicyWorkspaceWrite   SandboxPolicyType = "workspaceWrite"
)

// SandboxPolicy is the per-turn sandbox. NetworkAccess applies to
// externalSandbox. The remaining fields apply to workspaceWrite.
type SandboxPolicy struct {
	Type                SandboxPolicyType
	NetworkAccess       NetworkAccess
	WritableRoots       []string
	NetworkEnabled      bool
	ExcludeTmpdirEnvVar bool
	ExcludeSlashTmp     bool
}

type workspaceWriteWire struct {
	Type                SandboxPolicyType `json:"type"`
	WritableRoots       []string          `json:"writableRoots"`
	NetworkAccess       bool              `json:"networkAccess"`
	ExcludeTmpdirEnvVar bool              `json:"excludeTmpdirEnvVar"`
	ExcludeSlashTmp     bool              `json:"excludeSlashTmp"`
}

type externalSandboxWire struct {
	Type          SandboxPolicyType `json:"type"`
	NetworkAccess NetworkAccess     `json:"networkAccess"`
}

type bareSandboxWire struct {
	Type SandboxPolicyType `json:"type"`
}

// MarshalJSON implements json.Marshaler.
func (p SandboxPolicy) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case SandboxPolicyWorkspaceWrite:
		roots := p.WritableRoots
		if roots == nil {
			roots = []string{}
		}

		return json.Marshal(workspaceWriteWire{
			Type:                p.Type,
			WritableRoots:       roots,
			NetworkAccess:       p.NetworkEnabled,
			ExcludeTmpdirEnvVar: p.ExcludeTmpdirEnvVar,
			ExcludeSlashTmp:     p.ExcludeSlashTmp,
		})
	case SandboxPolicyExternalSandbox:
		return json.Marshal(externalSandboxWire{Type: p.Type, NetworkAccess: p.NetworkAccess})
	case SandboxPolicyDangerFullAccess, SandboxPolicyReadOnly:
		return json.Marshal(bareSandboxWire{Type: p.Type})
	default:
		return nil, fmt.Errorf("protocol: unknown sandbox policy type %q", p.Type)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *SandboxPolicy) UnmarshalJSON(data []byte) error {
	var head bareSandboxWire
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	switch head.Type {
	case SandboxPolicyWorkspaceWrite:
		var w workspaceWriteWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*p = SandboxPolicy{
			Type:                w.Type,
			WritableRoots:       w.WritableRoots,
			NetworkEnabled:      w.NetworkAccess,
			ExcludeTmpdirEnvVar: w.ExcludeTmpdirEnvVar,
			ExcludeSlashTmp:     w.ExcludeSlashTmp,
		}
	case SandboxPolicyExternalSandbox:
		var w externalSandboxWire
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*p = SandboxPolicy{Type: w.Type, NetworkAccess: w.NetworkAccess}
	default:
		*p = SandboxPolicy{Type: head.Type}
	}

	return nil
}
