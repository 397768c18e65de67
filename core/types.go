// Package core defines the canonical request/response model shared by all
// provider adapters.
package core

import (
	"context"
	"encoding/json"
)

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool" // For tool result messages
)

// FunctionCall is an invocation of a named function. Arguments is always a
// JSON-encoded string, never a structured object; it must round-trip through
// a JSON parser even though this package never decodes it.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall represents a tool invocation requested by the model.
// ID is assigned by the provider and unique within a response.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"` // always "function"
	Function FunctionCall `json:"function"`
}

// Message represents a single message in a conversation.
// Content is a pointer so that "no content" (assistant messages that carry
// only tool calls) is distinguishable from empty content.
type Message struct {
	Role         Role          `json:"role"`
	Content      *string       `json:"content,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"` // legacy single-call form
	Name         string        `json:"name,omitempty"`
}

// TextMessage builds a plain text message.
func TextMessage(role Role, content string) Message {
	return Message{Role: role, Content: &content}
}

// Text returns the message content, or "" when absent.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// Function describes a callable function exposed to the model. Parameters is
// a JSON-schema-shaped blob that is forwarded opaquely, never parsed here.
type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Tool is a tool definition in the canonical (OpenAI-shaped) form.
type Tool struct {
	Type     string   `json:"type"` // always "function"
	Function Function `json:"function"`
}

// Usage tracks token consumption for a request.
// TotalTokens = PromptTokens + CompletionTokens; each adapter enforces the
// identity when it constructs the value.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one completion alternative in a ModelResponse.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Canonical object type tags carried by responses and stream chunks.
const (
	ObjectChatCompletion      = "chat.completion"
	ObjectChatCompletionChunk = "chat.completion.chunk"
)

// ModelResponse is the canonical non-streaming completion response.
// It is constructed once per call and immutable thereafter; the caller owns it.
type ModelResponse struct {
	ID                string   `json:"id"`
	Object            string   `json:"object"` // "chat.completion"
	Created           int64    `json:"created"`
	Model             string   `json:"model"`
	Choices           []Choice `json:"choices"`
	Usage             *Usage   `json:"usage,omitempty"`
	SystemFingerprint string   `json:"system_fingerprint,omitempty"`
}

// FunctionCallDelta is an incremental fragment of a streamed function call.
type FunctionCallDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolCallDelta is an incremental fragment of a streamed tool call.
// Fragments with the same Index belong to the same call.
type ToolCallDelta struct {
	Index    int               `json:"index"`
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type,omitempty"`
	Function FunctionCallDelta `json:"function"`
}

// Delta is an incremental fragment of an in-progress streamed message.
// Content is a pointer so that a chunk that merely establishes the assistant
// role (content "") is distinguishable from a chunk with no content at all.
type Delta struct {
	Role         string             `json:"role,omitempty"`
	Content      *string            `json:"content,omitempty"`
	ToolCalls    []ToolCallDelta    `json:"tool_calls,omitempty"`
	FunctionCall *FunctionCallDelta `json:"function_call,omitempty"`
}

// StreamChoice is one alternative inside a StreamChunk.
// FinishReason is empty on all but the terminal chunk(s).
type StreamChoice struct {
	Index        int    `json:"index"`
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// StreamChunk is one element of a streamed response. Folding every chunk's
// Deltas in emission order reconstructs the equivalent ModelResponse.
type StreamChunk struct {
	ID                string         `json:"id"`
	Object            string         `json:"object"` // "chat.completion.chunk"
	Created           int64          `json:"created"`
	Model             string         `json:"model"`
	Choices           []StreamChoice `json:"choices"`
	Usage             *Usage         `json:"usage,omitempty"`
	SystemFingerprint string         `json:"system_fingerprint,omitempty"`
}

// ResponseFormat describes the desired output shape. Type is "text",
// "json_object", or "json_schema"; JSONSchema carries an opaque schema blob
// that adapters forward without interpreting.
type ResponseFormat struct {
	Type       string          `json:"type,omitempty"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// Request is the canonical completion request handed to an adapter.
// Model is the provider-local model name (already resolved, no provider
// prefix). Temperature is passed through without client-side range checks.
// Extra is an open bag of provider-specific parameters merged into the wire
// payload last, so provider-specific overrides win on key collisions.
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Tools          []Tool          `json:"tools,omitempty"`
	ToolChoice     any             `json:"tool_choice,omitempty"` // string or structured object
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Extra          map[string]any  `json:"-"`
}

// Provider is the interface every adapter implements. Implementations must be
// safe for concurrent calls; each call scopes its own transport resources and
// releases them unconditionally on exit.
type Provider interface {
	// ID returns the provider identifier (e.g., "openai", "anthropic").
	ID() string

	// Complete sends a non-streaming completion request.
	Complete(ctx context.Context, req *Request) (*ModelResponse, error)

	// Stream sends a streaming completion request. The returned stream is a
	// finite, single-consumer, forward-only sequence; abandon it by
	// cancelling ctx.
	Stream(ctx context.Context, req *Request) (*ChatStream, error)
}
