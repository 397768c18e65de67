// Package anthropic implements the Anthropic Messages API adapter.
package anthropic

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/quill-labs/relay/core"
)

// DefaultBaseURL is the default Anthropic API base URL.
const DefaultBaseURL = "https://api.anthropic.com/v1"

// apiVersion is the anthropic-version header value.
const apiVersion = "2023-06-01"

const defaultTimeout = 10 * time.Minute

// Anthropic is a provider adapter for the Anthropic Messages API.
// Safe for concurrent use.
type Anthropic struct {
	config Config
}

// New creates an Anthropic provider. An empty apiKey falls back to
// ANTHROPIC_API_KEY.
func New(apiKey string, opts ...Option) *Anthropic {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	cfg.APIKey = core.NewSecret(apiKey)

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("ANTHROPIC_API_BASE")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Anthropic{config: cfg}
}

// ID returns the provider identifier.
func (p *Anthropic) ID() string {
	return "anthropic"
}

// Complete sends a non-streaming Messages API request.
func (p *Anthropic) Complete(ctx context.Context, req *core.Request) (*core.ModelResponse, error) {
	return p.doComplete(ctx, req)
}

// Stream sends a streaming Messages API request.
func (p *Anthropic) Stream(ctx context.Context, req *core.Request) (*core.ChatStream, error) {
	return p.doStream(ctx, req)
}

func (p *Anthropic) buildHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("x-api-key", p.config.APIKey.Expose())
	headers.Set("anthropic-version", apiVersion)
	return headers
}
