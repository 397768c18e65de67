package anthropicwire

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/quill-labs/relay/core"
)

func TestBuildRequestSystemExtraction(t *testing.T) {
	req := &core.Request{
		Model: "claude-3-haiku-20240307",
		Messages: []core.Message{
			core.TextMessage(core.RoleSystem, "Be terse."),
			core.TextMessage(core.RoleUser, "hi"),
			core.TextMessage(core.RoleSystem, "Answer in French."),
		},
	}

	wire := BuildRequest(req, ModeDirect, false)
	if wire.System != "Be terse.\n\nAnswer in French." {
		t.Errorf("System = %q", wire.System)
	}
	if len(wire.Messages) != 1 || wire.Messages[0].Role != "user" || wire.Messages[0].Content != "hi" {
		t.Errorf("Messages = %+v", wire.Messages)
	}
	if wire.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want the default %d", wire.MaxTokens, DefaultMaxTokens)
	}
	if wire.Model != "claude-3-haiku-20240307" || wire.Stream {
		t.Errorf("direct mode: Model=%q Stream=%v", wire.Model, wire.Stream)
	}
}

func TestBuildRequestBedrockMode(t *testing.T) {
	req := &core.Request{
		Model:    "anthropic.claude-3-sonnet-20240229-v1:0",
		Messages: []core.Message{core.TextMessage(core.RoleUser, "hi")},
	}

	wire := BuildRequest(req, ModeBedrock, true)
	if wire.Model != "" {
		t.Errorf("bedrock mode must not put the model in the body, got %q", wire.Model)
	}
	if wire.Stream {
		t.Error("bedrock mode must not set the stream flag")
	}
	if wire.Version != BedrockVersion {
		t.Errorf("Version = %q, want %q", wire.Version, BedrockVersion)
	}
}

func TestBuildRequestTools(t *testing.T) {
	maxTokens := 100
	req := &core.Request{
		Model:     "claude-3-opus",
		MaxTokens: &maxTokens,
		Messages:  []core.Message{core.TextMessage(core.RoleUser, "weather?")},
		Tools: []core.Tool{{
			Type: "function",
			Function: core.Function{
				Name:        "get_weather",
				Description: "Current weather",
				Parameters:  json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}}}`),
			},
		}},
		ToolChoice: "required",
	}

	wire := BuildRequest(req, ModeDirect, false)
	if wire.MaxTokens != 100 {
		t.Errorf("MaxTokens = %d", wire.MaxTokens)
	}
	if len(wire.Tools) != 1 {
		t.Fatalf("Tools = %+v", wire.Tools)
	}
	tool := wire.Tools[0]
	if tool.Name != "get_weather" || tool.Description != "Current weather" {
		t.Errorf("tool = %+v", tool)
	}
	if !strings.Contains(string(tool.InputSchema), `"city"`) {
		t.Errorf("InputSchema = %s, want the parameters blob forwarded", tool.InputSchema)
	}
	want := map[string]string{"type": "any"}
	if !reflect.DeepEqual(wire.ToolChoice, want) {
		t.Errorf("ToolChoice = %v, want %v", wire.ToolChoice, want)
	}
}

func TestBuildToolChoice(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"auto", map[string]string{"type": "auto"}},
		{"any", map[string]string{"type": "any"}},
		{"required", map[string]string{"type": "any"}},
		{"none", nil},
		{map[string]any{"type": "tool", "name": "get_weather"}, map[string]any{"type": "tool", "name": "get_weather"}},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := buildToolChoice(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("buildToolChoice(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildRequestJSONMode(t *testing.T) {
	req := &core.Request{
		Model:          "claude-3-haiku",
		Messages:       []core.Message{core.TextMessage(core.RoleUser, "list three colors")},
		ResponseFormat: &core.ResponseFormat{Type: "json_object"},
	}

	wire := BuildRequest(req, ModeDirect, false)
	if !strings.Contains(wire.System, "valid JSON") {
		t.Errorf("System = %q, want the JSON instruction appended", wire.System)
	}
}

func TestParseResponseTextAndTools(t *testing.T) {
	wire := &Response{
		ID:         "msg_01",
		Role:       "assistant",
		StopReason: "tool_use",
		Content: []ContentBlock{
			{Type: "text", Text: "Let me check."},
			{Type: "tool_use", ID: "toolu_01", Name: "get_weather", Input: json.RawMessage(`{"city": "Paris"}`)},
		},
		Usage: Usage{InputTokens: 12, OutputTokens: 30},
	}

	resp, err := ParseResponse(wire, "claude-3-opus", 1700000000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.ID != "msg_01" || resp.Object != core.ObjectChatCompletion || resp.Model != "claude-3-opus" {
		t.Errorf("metadata = %+v", resp)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("Choices = %+v", resp.Choices)
	}
	choice := resp.Choices[0]
	if choice.FinishReason != "tool_use" {
		t.Errorf("FinishReason = %q", choice.FinishReason)
	}
	if choice.Message.Text() != "Let me check." {
		t.Errorf("content = %q", choice.Message.Text())
	}
	if len(choice.Message.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %+v", choice.Message.ToolCalls)
	}
	call := choice.Message.ToolCalls[0]
	if call.ID != "toolu_01" || call.Type != "function" || call.Function.Name != "get_weather" {
		t.Errorf("call = %+v", call)
	}
	if call.Function.Arguments != `{"city":"Paris"}` {
		t.Errorf("Arguments = %q, want compact JSON string", call.Function.Arguments)
	}
	if resp.Usage.TotalTokens != 42 || resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 30 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
}

func TestParseResponseEmptyToolInput(t *testing.T) {
	wire := &Response{
		ID:      "msg_02",
		Content: []ContentBlock{{Type: "tool_use", ID: "toolu_02", Name: "ping"}},
	}
	resp, err := ParseResponse(wire, "claude-3-haiku", 0)
	if err != nil {
		t.Fatal(err)
	}
	msg := resp.Choices[0].Message
	if msg.Content != nil {
		t.Errorf("Content = %v, want nil when the response has no text", *msg.Content)
	}
	if got := msg.ToolCalls[0].Function.Arguments; got != "{}" {
		t.Errorf("Arguments = %q, want empty object", got)
	}
}

func TestParseStreamEvent(t *testing.T) {
	const model = "claude-3-haiku"

	ev := &StreamEvent{Type: "message_start", Message: &Response{ID: "msg_03"}}
	chunk := ParseStreamEvent(ev, model, 1)
	if chunk == nil || chunk.ID != "msg_03" {
		t.Fatalf("message_start chunk = %+v", chunk)
	}
	if len(chunk.Choices) != 1 || chunk.Choices[0].Delta.Content != nil {
		t.Errorf("message_start should carry an empty delta, got %+v", chunk.Choices)
	}

	ev = &StreamEvent{Type: "content_block_start", ContentBlock: &ContentBlock{Type: "text"}}
	chunk = ParseStreamEvent(ev, model, 1)
	if chunk == nil {
		t.Fatal("content_block_start(text) should produce a chunk")
	}
	delta := chunk.Choices[0].Delta
	if delta.Role != "assistant" || delta.Content == nil || *delta.Content != "" {
		t.Errorf("delta = %+v, want assistant role with empty content", delta)
	}

	ev = &StreamEvent{Type: "content_block_delta", Delta: &EventDelta{Type: "text_delta", Text: "Hello"}}
	chunk = ParseStreamEvent(ev, model, 1)
	if chunk == nil || chunk.Choices[0].Delta.Content == nil || *chunk.Choices[0].Delta.Content != "Hello" {
		t.Fatalf("text_delta chunk = %+v", chunk)
	}

	ev = &StreamEvent{
		Type:  "message_delta",
		Delta: &EventDelta{StopReason: "end_turn"},
		Usage: &Usage{OutputTokens: 17},
	}
	chunk = ParseStreamEvent(ev, model, 1)
	if chunk == nil || chunk.Choices[0].FinishReason != "end_turn" {
		t.Fatalf("message_delta chunk = %+v", chunk)
	}
	if chunk.Usage == nil || chunk.Usage.CompletionTokens != 17 || chunk.Usage.PromptTokens != 0 {
		t.Errorf("Usage = %+v", chunk.Usage)
	}

	for _, typ := range []string{"ping", "content_block_stop", "message_stop"} {
		if got := ParseStreamEvent(&StreamEvent{Type: typ}, model, 1); got != nil {
			t.Errorf("ParseStreamEvent(%s) = %+v, want nil", typ, got)
		}
	}

	ev = &StreamEvent{Type: "content_block_start", ContentBlock: &ContentBlock{Type: "tool_use"}}
	if got := ParseStreamEvent(ev, model, 1); got != nil {
		t.Errorf("non-text content_block_start should be ignored, got %+v", got)
	}
}
