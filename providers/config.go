package providers

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single provider request when no timeout or
// HTTP client is supplied.
const DefaultTimeout = 10 * time.Minute

// Config carries per-call overrides handed to a provider factory. Zero
// fields fall back to environment variables and then to provider defaults,
// in that order.
type Config struct {
	// APIKey overrides the provider's key environment variable.
	APIKey string

	// BaseURL overrides the provider's endpoint environment variable.
	BaseURL string

	// Region selects the AWS region for Bedrock. Ignored elsewhere.
	Region string

	// Timeout bounds the whole request, streaming reads included.
	Timeout time.Duration

	// HTTPClient, when set, is used as-is and Timeout is ignored.
	HTTPClient *http.Client
}
