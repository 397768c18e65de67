package providers

import (
	"errors"
	"testing"

	"github.com/quill-labs/relay/core"
)

func TestResolveExplicitPrefix(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider string
		wantName     string
	}{
		{"openai/gpt-4", "openai", "gpt-4"},
		{"OpenAI/gpt-4", "openai", "gpt-4"},
		{"anthropic/claude-3-5-sonnet-20240620", "anthropic", "claude-3-5-sonnet-20240620"},
		{"groq/llama-3.1-70b-versatile", "groq", "llama-3.1-70b-versatile"},
		{"bedrock/anthropic.claude-3-sonnet-20240229-v1:0", "bedrock", "anthropic.claude-3-sonnet-20240229-v1:0"},
		// Only the first slash splits; the rest belongs to the model name.
		{"bedrock/us.anthropic.claude/haiku", "bedrock", "us.anthropic.claude/haiku"},
	}
	for _, tt := range tests {
		provider, name, err := Resolve(tt.model)
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error %v", tt.model, err)
			continue
		}
		if provider != tt.wantProvider || name != tt.wantName {
			t.Errorf("Resolve(%q) = (%q, %q), want (%q, %q)",
				tt.model, provider, name, tt.wantProvider, tt.wantName)
		}
	}
}

func TestResolveBareName(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider string
	}{
		{"gpt-4o", "openai"},
		{"o1-preview", "openai"},
		{"o3-mini", "openai"},
		{"text-embedding-3-small", "openai"},
		{"claude-3-haiku-20240307", "anthropic"},
		{"llama-3.1-8b-instant", "groq"},
		{"mixtral-8x7b-32768", "groq"},
		{"gemma2-9b-it", "groq"},
		{"GPT-4o", "openai"},
		{"Claude-3-opus", "anthropic"},
		// Unknown names fall through to openai.
		{"some-model", "openai"},
		{"", "openai"},
	}
	for _, tt := range tests {
		provider, name, err := Resolve(tt.model)
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error %v", tt.model, err)
			continue
		}
		if provider != tt.wantProvider {
			t.Errorf("Resolve(%q) provider = %q, want %q", tt.model, provider, tt.wantProvider)
		}
		if name != tt.model {
			t.Errorf("Resolve(%q) name = %q, want the input verbatim", tt.model, name)
		}
	}
}

func TestResolveUnsupportedProvider(t *testing.T) {
	_, _, err := Resolve("unsupported/model-x")
	if !errors.Is(err, core.ErrUnsupportedProvider) {
		t.Fatalf("Resolve(unsupported/model-x) error = %v, want unsupported provider", err)
	}
	var ce *core.Error
	if !errors.As(err, &ce) {
		t.Fatalf("error is not a *core.Error: %v", err)
	}
	if ce.Model != "unsupported/model-x" || ce.Provider != "unsupported" {
		t.Errorf("error context = (%q, %q), want model and provider recorded", ce.Model, ce.Provider)
	}
}
