package protocol

// SkillsListParams selects the working directories to scan.
type SkillsListParams struct {
	Cwds        []string `json:"cwds,omitempty"`
	ForceReload bool     `json:"forceReload,omitempty"`
}

// SkillInterface is optional presentation metadata of a skill.
type SkillInterface struct {
	DisplayName      string `json:"displayName,omitempty"`
	ShortDescription string `json:"shortDescription,omitempty"`
	IconSmall        string `json:"iconSmall,omitempty"`
	IconLarge        string `json:"iconLarge,omitempty"`
	BrandColor       string `json:"brandColor,omitempty"`
	DefaultPrompt    string `json:"defaultPrompt,omitempty"`
}

// SkillToolDependency is a tool a skill needs.
type SkillToolDependency struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Transport   string `json:"transport,omitempty"`
	Command     string `json:"command,omitempty"`
	URL         string `json:"url,omitempty"`
}

// SkillDependencies groups a skill's requirements.
type SkillDependencies struct {
	Tools []SkillToolDependency `json:"tools"`
}

// SkillMetadata describes one installed skill.
type SkillMetadata struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	ShortDescription string             `json:"shortDescription,omitempty"`
	Interface        *SkillInterface    `json:"interface,omitempty"`
	Dependencies     *SkillDependencies `json:"dependencies,omitempty"`
	Path             string             `json:"path"`
	Scope            SkillScope         `json:"scope"`
	Enabled          bool               `json:"enabled"`
}

// SkillErrorInfo reports a skill that failed to load.
type SkillErrorInfo struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SkillsListEntry holds the skills found for one working directory.
type SkillsListEntry struct {
	Cwd    string           `json:"cwd"`
	Skills []SkillMetadata  `json:"skills"`
	Errors []SkillErrorInfo `json:"errors"`
}

// SkillsListResponse is the result of skills/list.
type SkillsListResponse struct {
	Data []SkillsListEntry `json:"data"`
}

// SkillsRemoteReadParams is the empty payload of skills/remote/read.
type SkillsRemoteReadParams struct{}

// RemoteSkillSummary is a skill available for download.
type RemoteSkillSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SkillsRemoteReadResponse is the result of skills/remote/read.
type SkillsRemoteReadResponse struct {
	Data []RemoteSkillSummary `json:"data"`
}

// SkillsRemoteWriteParams installs a remote skill.
type SkillsRemoteWriteParams struct {
	HazelnutID string `json:"hazelnutId"`
	IsPreload  bool   `json:"isPreload"`
}

// SkillsRemoteWriteResponse describes the installed skill.
type SkillsRemoteWriteResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// SkillsConfigWriteParams enables or disables a skill.
type SkillsConfigWriteParams struct {
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

// SkillsConfigWriteResponse reports the resulting state.
type SkillsConfigWriteResponse struct {
	EffectiveEnabled bool `json:"effectiveEnabled"`
}
