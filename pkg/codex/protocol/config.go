package protocol

import "encoding/json"

// ConfigReadParams reads the effective configuration.
type ConfigReadParams struct {
	IncludeLayers bool    `json:"includeLayers"`
	Cwd           *string `json:"cwd,omitempty"`
}

// ConfigReadResponse is the result of config/read.
type ConfigReadResponse struct {
	Config  map[string]json.RawMessage `json:"config"`
	Origins map[string]json.RawMessage `json:"origins,omitempty"`
	Layers  []json.RawMessage          `json:"layers,omitempty"`
}

// ConfigEdit is one key change of a batch write.
type ConfigEdit struct {
	KeyPath       string          `json:"keyPath"`
	Value         json.RawMessage `json:"value"`
	MergeStrategy MergeStrategy   `json:"mergeStrategy"`
}

// ConfigBatchWriteParams applies several edits atomically.
type ConfigBatchWriteParams struct {
	Edits           []ConfigEdit `json:"edits"`
	FilePath        *string      `json:"filePath,omitempty"`
	ExpectedVersion *string      `json:"expectedVersion,omitempty"`
}

// ConfigValueWriteParams writes one key.
type ConfigValueWriteParams struct {
	KeyPath         string          `json:"keyPath"`
	Value           json.RawMessage `json:"value"`
	MergeStrategy   MergeStrategy   `json:"mergeStrategy"`
	FilePath        *string         `json:"filePath,omitempty"`
	ExpectedVersion *string         `json:"expectedVersion,omitempty"`
}

// ConfigWriteResponse is the result of config/value/write and
// config/batchWrite. Its shape is server defined.
type ConfigWriteResponse = json.RawMessage

// ConfigRequirements are limits imposed by an administrator.
type ConfigRequirements struct {
	AllowedApprovalPolicies []AskForApproval `json:"allowedApprovalPolicies"`
	AllowedSandboxModes     []SandboxMode    `json:"allowedSandboxModes"`
	EnforceResidency        *string          `json:"enforceResidency"`
}

// ConfigRequirementsReadResponse is the result of configRequirements/read.
// Requirements is nil when no administrator policy applies.
type ConfigRequirementsReadResponse struct {
	Requirements *ConfigRequirements `json:"requirements"`
}
