// Package openai implements the OpenAI chat completions adapter. The same
// adapter also serves Groq, whose API is OpenAI-compatible: Groq is a
// configuration variant (different endpoint, key variable and identifier),
// not a separate implementation.
package openai

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/quill-labs/relay/core"
)

// DefaultBaseURL is the default OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// GroqBaseURL is the default Groq API base URL.
const GroqBaseURL = "https://api.groq.com/openai/v1"

const defaultTimeout = 10 * time.Minute

// variant captures everything that differs between OpenAI-compatible
// backends.
type variant struct {
	id         string
	apiKeyEnv  string
	apiBaseEnv string
	baseURL    string
}

var (
	openAIVariant = variant{
		id:         "openai",
		apiKeyEnv:  "OPENAI_API_KEY",
		apiBaseEnv: "OPENAI_API_BASE",
		baseURL:    DefaultBaseURL,
	}
	groqVariant = variant{
		id:         "groq",
		apiKeyEnv:  "GROQ_API_KEY",
		apiBaseEnv: "GROQ_API_BASE",
		baseURL:    GroqBaseURL,
	}
)

// OpenAI is a provider adapter for OpenAI-compatible chat completion APIs.
// Safe for concurrent use.
type OpenAI struct {
	config  Config
	variant variant
}

// New creates an OpenAI provider. An empty apiKey falls back to
// OPENAI_API_KEY.
func New(apiKey string, opts ...Option) *OpenAI {
	return newVariant(openAIVariant, apiKey, opts...)
}

// NewGroq creates a Groq provider. An empty apiKey falls back to
// GROQ_API_KEY.
func NewGroq(apiKey string, opts ...Option) *OpenAI {
	return newVariant(groqVariant, apiKey, opts...)
}

func newVariant(v variant, apiKey string, opts ...Option) *OpenAI {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if apiKey == "" {
		apiKey = os.Getenv(v.apiKeyEnv)
	}
	cfg.APIKey = core.NewSecret(apiKey)

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv(v.apiBaseEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = v.baseURL
	}

	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &OpenAI{config: cfg, variant: v}
}

// ID returns the provider identifier.
func (p *OpenAI) ID() string {
	return p.variant.id
}

// Complete sends a non-streaming chat completion request.
func (p *OpenAI) Complete(ctx context.Context, req *core.Request) (*core.ModelResponse, error) {
	return p.doComplete(ctx, req)
}

// Stream sends a streaming chat completion request.
func (p *OpenAI) Stream(ctx context.Context, req *core.Request) (*core.ChatStream, error) {
	return p.doStream(ctx, req)
}

func (p *OpenAI) buildHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())
	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	return headers
}
