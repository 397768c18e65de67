package anthropicwire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quill-labs/relay/core"
)

// DefaultMaxTokens is applied when the caller does not set a token limit.
// The Messages API rejects requests without one.
const DefaultMaxTokens = 4096

// jsonModeInstruction emulates response_format, which the Messages API
// does not support natively.
const jsonModeInstruction = "You must respond with a valid JSON object and nothing else. Do not include any explanatory text outside the JSON."

// Mode selects wire details that differ between the direct API and Bedrock.
type Mode int

const (
	// ModeDirect targets api.anthropic.com: model in the body, streaming
	// via the stream flag, version via header.
	ModeDirect Mode = iota
	// ModeBedrock targets InvokeModel: model in the URL, streaming via the
	// endpoint, version pinned in the body.
	ModeBedrock
)

// BedrockVersion is the anthropic_version Bedrock requires in the body.
const BedrockVersion = "bedrock-2023-05-31"

// BuildRequest translates a canonical request into a Messages API body.
func BuildRequest(req *core.Request, mode Mode, stream bool) *Request {
	var systemParts []string
	messages := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == core.RoleSystem {
			systemParts = append(systemParts, m.Text())
			continue
		}
		messages = append(messages, Message{Role: string(m.Role), Content: m.Text()})
	}

	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	if req.ResponseFormat != nil && req.ResponseFormat.Type != "" && req.ResponseFormat.Type != "text" {
		systemParts = append(systemParts, jsonModeInstruction)
	}

	wire := &Request{
		Messages:    messages,
		MaxTokens:   maxTokens,
		System:      strings.Join(systemParts, "\n\n"),
		Temperature: req.Temperature,
		Tools:       buildTools(req.Tools),
		ToolChoice:  buildToolChoice(req.ToolChoice),
	}
	switch mode {
	case ModeBedrock:
		wire.Version = BedrockVersion
	default:
		wire.Model = req.Model
		wire.Stream = stream
	}
	return wire
}

func buildTools(tools []core.Tool) []Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		schema := t.Function.Parameters
		if len(schema) == 0 {
			schema = json.RawMessage(`{}`)
		}
		out = append(out, Tool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			InputSchema: schema,
		})
	}
	return out
}

// buildToolChoice maps the OpenAI-shaped tool_choice strings onto
// Anthropic's object form. Structured values pass through untouched;
// unrecognized strings are dropped.
func buildToolChoice(choice any) any {
	s, ok := choice.(string)
	if !ok {
		return choice
	}
	switch s {
	case "auto":
		return map[string]string{"type": "auto"}
	case "required", "any":
		return map[string]string{"type": "any"}
	default:
		return nil
	}
}

// ParseResponse translates a Messages API response into the canonical form.
// Text blocks concatenate into the message content; tool_use blocks become
// tool calls with their input re-serialized as a JSON string.
func ParseResponse(wire *Response, model string, created int64) (*core.ModelResponse, error) {
	var text strings.Builder
	var toolCalls []core.ToolCall
	for _, block := range wire.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			args, err := compactJSON(block.Input)
			if err != nil {
				return nil, fmt.Errorf("tool %q input: %w", block.Name, err)
			}
			toolCalls = append(toolCalls, core.ToolCall{
				ID:   block.ID,
				Type: "function",
				Function: core.FunctionCall{
					Name:      block.Name,
					Arguments: args,
				},
			})
		}
	}

	message := core.Message{Role: core.RoleAssistant, ToolCalls: toolCalls}
	if s := text.String(); s != "" {
		message.Content = &s
	}

	return &core.ModelResponse{
		ID:      wire.ID,
		Object:  core.ObjectChatCompletion,
		Created: created,
		Model:   model,
		Choices: []core.Choice{{
			Index:        0,
			Message:      message,
			FinishReason: wire.StopReason,
		}},
		Usage: &core.Usage{
			PromptTokens:     wire.Usage.InputTokens,
			CompletionTokens: wire.Usage.OutputTokens,
			TotalTokens:      wire.Usage.InputTokens + wire.Usage.OutputTokens,
		},
	}, nil
}

// ParseStreamEvent translates one streaming event into a canonical chunk.
// It returns nil for event types that carry nothing the canonical stream
// represents (ping, content_block_stop, message_stop, tool-use deltas).
func ParseStreamEvent(ev *StreamEvent, model string, created int64) *core.StreamChunk {
	chunk := &core.StreamChunk{
		Object:  core.ObjectChatCompletionChunk,
		Created: created,
		Model:   model,
	}

	switch ev.Type {
	case "message_start":
		if ev.Message != nil {
			chunk.ID = ev.Message.ID
		}
		chunk.Choices = []core.StreamChoice{{Index: 0}}
		return chunk

	case "content_block_start":
		if ev.ContentBlock == nil || ev.ContentBlock.Type != "text" {
			return nil
		}
		empty := ""
		chunk.Choices = []core.StreamChoice{{
			Index: 0,
			Delta: core.Delta{Role: string(core.RoleAssistant), Content: &empty},
		}}
		return chunk

	case "content_block_delta":
		if ev.Delta == nil || ev.Delta.Type != "text_delta" {
			return nil
		}
		text := ev.Delta.Text
		chunk.Choices = []core.StreamChoice{{
			Index: 0,
			Delta: core.Delta{Content: &text},
		}}
		return chunk

	case "message_delta":
		var finish string
		if ev.Delta != nil {
			finish = ev.Delta.StopReason
		}
		chunk.Choices = []core.StreamChoice{{Index: 0, FinishReason: finish}}
		if ev.Usage != nil {
			chunk.Usage = &core.Usage{
				CompletionTokens: ev.Usage.OutputTokens,
				TotalTokens:      ev.Usage.OutputTokens,
			}
		}
		return chunk
	}

	return nil
}

func compactJSON(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}
