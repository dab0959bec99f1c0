package protocol

// Model describes a model app-server can use.
type Model struct {
	ID                        string                  `json:"id"`
	Model                     string                  `json:"model"`
	Upgrade                   *string                 `json:"upgrade"`
	DisplayName               string                  `json:"displayName"`
	Description               string                  `json:"description"`
	SupportedReasoningEfforts []ReasoningEffortOption `json:"supportedReasoningEfforts"`
	DefaultReasoningEffort    ReasoningEffort         `json:"defaultReasoningEffort"`
	InputModalities           []InputModality         `json:"inputModalities"`
	SupportsPersonality       bool                    `json:"supportsPersonality"`
	IsDefault                 bool                    `json:"isDefault"`
}

// ModelListParams pages model/list.
type ModelListParams struct {
	Cursor *string `json:"cursor,omitempty"`
	Limit  *int    `json:"limit,omitempty"`
}

// ModelListResponse is one page of models.
type ModelListResponse struct {
	Data       []Model `json:"data"`
	NextCursor *string `json:"nextCursor"`
}

// SetDefaultModelParams changes the default model. Nil fields are sent as
// null, which clears them.
type SetDefaultModelParams struct {
	Model           *string          `json:"model"`
	ReasoningEffort *ReasoningEffort `json:"reasoningEffort"`
}

// SetDefaultModelResponse is the result of setDefaultModel.
type SetDefaultModelResponse = EmptyResponse

// AppInfo describes a connected app.
type AppInfo struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Description         *string `json:"description"`
	LogoURL             *string `json:"logoUrl"`
	LogoURLDark         *string `json:"logoUrlDark"`
	DistributionChannel *string `json:"distributionChannel"`
	InstallURL          *string `json:"installUrl"`
	IsAccessible        bool    `json:"isAccessible"`
}

// AppsListParams pages app/list.
type AppsListParams struct {
	Cursor *string `json:"cursor,omitempty"`
	Limit  *int    `json:"limit,omitempty"`
}

// AppsListResponse is one page of apps.
type AppsListResponse struct {
	Data       []AppInfo `json:"data"`
	NextCursor *string   `json:"nextCursor"`
}
