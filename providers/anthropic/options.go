package anthropic

import (
	"net/http"
	"time"

	"github.com/quill-labs/relay/core"
)

// Config holds configuration for the Anthropic provider.
type Config struct {
	// APIKey authenticates requests. Falls back to ANTHROPIC_API_KEY
	// when empty.
	APIKey core.Secret

	// BaseURL is the API base URL. Falls back to ANTHROPIC_API_BASE,
	// then DefaultBaseURL.
	BaseURL string

	// HTTPClient is the HTTP client to use.
	HTTPClient *http.Client

	// Timeout bounds each request when no HTTPClient is supplied.
	Timeout time.Duration
}

// Option configures the Anthropic provider.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. When set, WithTimeout is
// ignored; the client's own timeout governs.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}
