package protocol

import "encoding/json"

// DynamicToolSpec declares a client-implemented tool on thread/start.
type DynamicToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// DynamicToolCallParams is the payload of item/tool/call.
type DynamicToolCallParams struct {
	ThreadID  string          `json:"threadId"`
	TurnID    string          `json:"turnId"`
	CallID    string          `json:"callId"`
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// Content item types of a dynamic tool result.
const (
	ContentInputText  = "inputText"
	ContentInputImage = "inputImage"
)

// DynamicToolCallOutputContentItem is one piece of tool output.
type DynamicToolCallOutputContentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// TextContent returns an inputText item.
func TextContent(text string) DynamicToolCallOutputContentItem {
	return DynamicToolCallOutputContentItem{Type: ContentInputText, Text: text}
}

// ImageContent returns an inputImage item.
func ImageContent(url string) DynamicToolCallOutputContentItem {
	return DynamicToolCallOutputContentItem{Type: ContentInputImage, ImageURL: url}
}

// DynamicToolCallResponse is the reply to item/tool/call.
type DynamicToolCallResponse struct {
	ContentItems []DynamicToolCallOutputContentItem `json:"contentItems"`
	Success      bool                               `json:"success"`
}
