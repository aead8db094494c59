package types

import (
	"encoding/json"

	"github.com/openai/openai-go/v3/shared"
)

// Item types used in the Responses API input and output arrays.
const (
	ItemTypeMessage            = "message"
	ItemTypeReasoning          = "reasoning"
	ItemTypeFunctionCall       = "function_call"
	ItemTypeFunctionCallOutput = "function_call_output"
	ItemTypeCustomToolCall     = "custom_tool_call"
)

// Content part types.
const (
	ContentInputText  = "input_text"
	ContentOutputText = "output_text"
	ContentInputImage = "input_image"
	ContentSummary    = "summary_text"
)

// ResponseItem represents a single conversation item in the Responses API input array,
// or an output item reported by the upstream.
// Uses a flat discriminated union pattern: Type determines which fields are relevant.
type ResponseItem struct {
	Type             string        `json:"type"`
	ID               string        `json:"id,omitempty"`
	Role             string        `json:"role,omitempty"`
	Content          []ContentItem `json:"content,omitempty"`
	Name             string        `json:"name,omitempty"`
	Arguments        string        `json:"arguments,omitempty"`
	Input            string        `json:"input,omitempty"`
	CallID           string        `json:"call_id,omitempty"`
	Output           string        `json:"output,omitempty"`
	Summary          []ContentItem `json:"summary,omitempty"`
	EncryptedContent string        `json:"encrypted_content,omitempty"`
}

// ContentItem represents a content part of a message item.
type ContentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Text concatenates the text parts of a message item.
func (it ResponseItem) Text() string {
	var out string
	for _, c := range it.Content {
		out += c.Text
	}
	return out
}

// Tool describes a tool offered to the model in the Responses API format.
type Tool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Strict      *bool          `json:"strict,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Reasoning is the reasoning configuration attached to a request.
// It is only sent to model families that support reasoning summaries.
type Reasoning struct {
	Effort  shared.ReasoningEffort  `json:"effort"`
	Summary shared.ReasoningSummary `json:"summary"`
}

// TokenUsage is the token accounting reported with response.completed.
type TokenUsage struct {
	InputTokens           int64 `json:"input_tokens"`
	CachedInputTokens     int64 `json:"cached_input_tokens,omitempty"`
	OutputTokens          int64 `json:"output_tokens"`
	ReasoningOutputTokens int64 `json:"reasoning_output_tokens,omitempty"`
	TotalTokens           int64 `json:"total_tokens"`
}

// ResponsesAPIRequest is the payload POSTed to the Responses endpoint for a single turn.
type ResponsesAPIRequest struct {
	Model             string            `json:"model"`
	Instructions      string            `json:"instructions"`
	Input             []ResponseItem    `json:"input"`
	Tools             []json.RawMessage `json:"tools"`
	ToolChoice        string            `json:"tool_choice"`
	ParallelToolCalls bool              `json:"parallel_tool_calls"`
	Reasoning         *Reasoning        `json:"reasoning,omitempty"`
	Store             bool              `json:"store"`
	Stream            bool              `json:"stream"`
	Include           []string          `json:"include"`
	PromptCacheKey    string            `json:"prompt_cache_key,omitempty"`
}
