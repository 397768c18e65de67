// Package anthropicwire implements the Anthropic Messages API wire format.
// It is shared by the anthropic provider (direct API) and the bedrock
// provider (same body framed through AWS InvokeModel).
package anthropicwire

import "encoding/json"

// Request is a Messages API request body. Model is omitted on Bedrock,
// where the model travels in the URL path; Version is set only on Bedrock,
// where the API version travels in the body instead of a header.
type Request struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
	Tools       []Tool    `json:"tools,omitempty"`
	ToolChoice  any       `json:"tool_choice,omitempty"`
	Version     string    `json:"anthropic_version,omitempty"`
}

// Message is a conversational turn on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is a tool definition in Anthropic's shape: the JSON schema lives
// under input_schema rather than nested in a function object.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ContentBlock is one element of a response's content array.
type ContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Usage is Anthropic's split token accounting.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is a non-streaming Messages API response body.
type Response struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// EventDelta is the delta payload of a streaming event.
type EventDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"`
}

// APIError is the error payload of a streaming "error" event.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StreamEvent is one server-sent event of a streaming response.
type StreamEvent struct {
	Type         string        `json:"type"`
	Message      *Response     `json:"message,omitempty"`
	Index        int           `json:"index"`
	ContentBlock *ContentBlock `json:"content_block,omitempty"`
	Delta        *EventDelta   `json:"delta,omitempty"`
	Usage        *Usage        `json:"usage,omitempty"`
	Error        *APIError     `json:"error,omitempty"`
}
