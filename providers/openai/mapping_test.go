package openai

import (
	"testing"

	"github.com/quill-labs/relay/core"
)

func TestBuildRequestMaxTokens(t *testing.T) {
	maxTokens := 256
	tests := []struct {
		model             string
		wantMaxTokens     bool
		wantMaxCompletion bool
	}{
		{"gpt-4o", true, false},
		{"gpt-4-turbo", true, false},
		{"o1-preview", false, true},
		{"o3-mini", false, true},
		{"gpt-5", false, true},
		{"gpt-5-turbo", false, true},
	}
	for _, tt := range tests {
		req := &core.Request{Model: tt.model, MaxTokens: &maxTokens}
		wire := buildRequest(req, false)
		if got := wire.MaxTokens != nil; got != tt.wantMaxTokens {
			t.Errorf("%s: max_tokens set = %v, want %v", tt.model, got, tt.wantMaxTokens)
		}
		if got := wire.MaxCompletionTokens != nil; got != tt.wantMaxCompletion {
			t.Errorf("%s: max_completion_tokens set = %v, want %v", tt.model, got, tt.wantMaxCompletion)
		}
	}
}

func TestBuildRequestNoMaxTokens(t *testing.T) {
	wire := buildRequest(&core.Request{Model: "o1-mini"}, true)
	if wire.MaxTokens != nil || wire.MaxCompletionTokens != nil {
		t.Error("neither token field should be set when the caller sets none")
	}
	if !wire.Stream {
		t.Error("stream flag not set")
	}
}

func TestMapResponseToolCalls(t *testing.T) {
	p := New("test-key")
	content := "checking"
	wire := &openAIResponse{
		ID:      "chatcmpl-1",
		Created: 1700000000,
		Model:   "gpt-4o-2024-05-13",
		Choices: []openAIChoice{{
			Index: 0,
			Message: openAIMessage{
				Role:    "assistant",
				Content: &content,
				ToolCalls: []openAIToolCall{{
					ID:   "call_1",
					Type: "function",
					Function: openAIFunctionCall{
						Name:      "get_weather",
						Arguments: `{"city":"Paris"}`,
					},
				}},
			},
			FinishReason: "tool_calls",
		}},
		Usage:             &openAIUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		SystemFingerprint: "fp_abc",
	}

	resp, err := p.mapResponse(wire, "gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Object != core.ObjectChatCompletion || resp.Model != "gpt-4o-2024-05-13" {
		t.Errorf("metadata = %+v", resp)
	}
	if resp.SystemFingerprint != "fp_abc" {
		t.Errorf("SystemFingerprint = %q", resp.SystemFingerprint)
	}
	call := resp.Choices[0].Message.ToolCalls[0]
	if call.Function.Arguments != `{"city":"Paris"}` {
		t.Errorf("Arguments = %q", call.Function.Arguments)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
}

func TestMapResponseInvalidToolArguments(t *testing.T) {
	p := New("test-key")
	wire := &openAIResponse{
		Choices: []openAIChoice{{
			Message: openAIMessage{
				Role: "assistant",
				ToolCalls: []openAIToolCall{{
					ID:       "call_1",
					Type:     "function",
					Function: openAIFunctionCall{Name: "f", Arguments: `{"broken`},
				}},
			},
		}},
	}
	if _, err := p.mapResponse(wire, "gpt-4o"); err == nil {
		t.Fatal("want error for non-JSON tool arguments")
	}
}

func TestMapStreamChunk(t *testing.T) {
	text := "Hel"
	wire := &openAIStreamChunk{
		ID:      "chatcmpl-2",
		Created: 1700000001,
		Choices: []openAIStreamChoice{{
			Index: 0,
			Delta: openAIDelta{Role: "assistant", Content: &text},
		}},
	}

	chunk := mapStreamChunk(wire, "gpt-4o")
	if chunk.Object != core.ObjectChatCompletionChunk {
		t.Errorf("Object = %q", chunk.Object)
	}
	if chunk.Model != "gpt-4o" {
		t.Errorf("Model = %q, want the request model when the wire omits it", chunk.Model)
	}
	delta := chunk.Choices[0].Delta
	if delta.Role != "assistant" || delta.Content == nil || *delta.Content != "Hel" {
		t.Errorf("delta = %+v", delta)
	}
}

func TestMapStreamChunkToolCallFragments(t *testing.T) {
	wire := &openAIStreamChunk{
		Choices: []openAIStreamChoice{{
			Delta: openAIDelta{
				ToolCalls: []openAIStreamToolCall{{
					Index:    0,
					ID:       "call_1",
					Type:     "function",
					Function: openAIFunctionCallDelta{Name: "get_weather", Arguments: `{"ci`},
				}},
			},
		}},
	}

	chunk := mapStreamChunk(wire, "gpt-4o")
	calls := chunk.Choices[0].Delta.ToolCalls
	if len(calls) != 1 || calls[0].Function.Arguments != `{"ci` {
		t.Errorf("fragments = %+v, want partial arguments preserved", calls)
	}
}
