package bedrock

import (
	"net/http"
	"time"

	"github.com/quill-labs/relay/core"
)

// Config holds configuration for the Bedrock provider.
type Config struct {
	// Region is the AWS region. Falls back to AWS_REGION_NAME, then
	// DefaultRegion.
	Region string

	// AccessKeyID, SecretAccessKey and SessionToken are the AWS
	// credentials. Each falls back to its standard environment variable.
	AccessKeyID     core.Secret
	SecretAccessKey core.Secret
	SessionToken    core.Secret

	// BaseURL overrides the regional bedrock-runtime endpoint.
	BaseURL string

	// HTTPClient is the HTTP client to use.
	HTTPClient *http.Client

	// Timeout bounds each request when no HTTPClient is supplied.
	Timeout time.Duration
}

// Option configures the Bedrock provider.
type Option func(*Config)

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// WithCredentials sets explicit AWS credentials. sessionToken may be empty
// for long-lived credentials.
func WithCredentials(accessKeyID, secretAccessKey, sessionToken string) Option {
	return func(c *Config) {
		c.AccessKeyID = core.NewSecret(accessKeyID)
		c.SecretAccessKey = core.NewSecret(secretAccessKey)
		c.SessionToken = core.NewSecret(sessionToken)
	}
}

// WithBaseURL sets a custom endpoint, e.g. a VPC endpoint or a test server.
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
