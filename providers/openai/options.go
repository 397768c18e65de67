package openai

import (
	"net/http"
	"time"

	"github.com/quill-labs/relay/core"
)

// Config holds configuration for an OpenAI-compatible provider.
type Config struct {
	// APIKey authenticates requests. Falls back to the variant's key
	// environment variable when empty.
	APIKey core.Secret

	// BaseURL is the API base URL. Falls back to the variant's base
	// environment variable, then the variant default.
	BaseURL string

	// HTTPClient is the HTTP client to use.
	HTTPClient *http.Client

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout bounds each request when no HTTPClient is supplied.
	Timeout time.Duration
}

// Option configures the provider.
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

// WithHeader adds an extra header to every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = http.Header{}
		}
		c.Headers.Add(key, value)
	}
}
