package openai

import "github.com/quill-labs/relay/core"

// openAIRequest is the chat completions request body. The canonical message
// and tool shapes serialize one-to-one onto this wire format, so they are
// embedded directly.
type openAIRequest struct {
	Model               string               `json:"model"`
	Messages            []core.Message       `json:"messages"`
	Temperature         *float64             `json:"temperature,omitempty"`
	MaxTokens           *int                 `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int                 `json:"max_completion_tokens,omitempty"`
	Stream              bool                 `json:"stream,omitempty"`
	Tools               []core.Tool          `json:"tools,omitempty"`
	ToolChoice          any                  `json:"tool_choice,omitempty"`
	ResponseFormat      *core.ResponseFormat `json:"response_format,omitempty"`
}

// openAIResponse is a non-streaming chat completions response body.
type openAIResponse struct {
	ID                string         `json:"id"`
	Object            string         `json:"object"`
	Created           int64          `json:"created"`
	Model             string         `json:"model"`
	Choices           []openAIChoice `json:"choices"`
	Usage             *openAIUsage   `json:"usage"`
	SystemFingerprint string         `json:"system_fingerprint"`
}

type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAIMessage struct {
	Role         string              `json:"role"`
	Content      *string             `json:"content"`
	ToolCalls    []openAIToolCall    `json:"tool_calls,omitempty"`
	FunctionCall *openAIFunctionCall `json:"function_call,omitempty"`
}

type openAIToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function openAIFunctionCall `json:"function"`
}

type openAIFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// openAIStreamChunk is one SSE-delivered chunk of a streaming response.
type openAIStreamChunk struct {
	ID                string               `json:"id"`
	Object            string               `json:"object"`
	Created           int64                `json:"created"`
	Model             string               `json:"model"`
	Choices           []openAIStreamChoice `json:"choices"`
	Usage             *openAIUsage         `json:"usage"`
	SystemFingerprint string               `json:"system_fingerprint"`
}

type openAIStreamChoice struct {
	Index        int         `json:"index"`
	Delta        openAIDelta `json:"delta"`
	FinishReason string      `json:"finish_reason"`
}

type openAIDelta struct {
	Role         string                   `json:"role,omitempty"`
	Content      *string                  `json:"content,omitempty"`
	ToolCalls    []openAIStreamToolCall   `json:"tool_calls,omitempty"`
	FunctionCall *openAIFunctionCallDelta `json:"function_call,omitempty"`
}

type openAIStreamToolCall struct {
	Index    int                     `json:"index"`
	ID       string                  `json:"id,omitempty"`
	Type     string                  `json:"type,omitempty"`
	Function openAIFunctionCallDelta `json:"function"`
}

type openAIFunctionCallDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}
