// Package bedrock implements the AWS Bedrock adapter for Anthropic models.
// Request and response bodies follow the Anthropic Messages API; what
// differs is the framing: SigV4 authentication, the model id in the URL
// path, and streaming delivered as AWS event stream messages rather than
// server-sent events.
package bedrock

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/quill-labs/relay/core"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

const defaultTimeout = 10 * time.Minute

// Bedrock is a provider adapter for Anthropic models on AWS Bedrock.
// Safe for concurrent use.
type Bedrock struct {
	config Config
}

// New creates a Bedrock provider. Region and credentials fall back to
// AWS_REGION_NAME, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_SESSION_TOKEN.
func New(opts ...Option) *Bedrock {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Region == "" {
		cfg.Region = os.Getenv("AWS_REGION_NAME")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	if cfg.AccessKeyID.IsEmpty() {
		cfg.AccessKeyID = core.NewSecret(os.Getenv("AWS_ACCESS_KEY_ID"))
	}
	if cfg.SecretAccessKey.IsEmpty() {
		cfg.SecretAccessKey = core.NewSecret(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	}
	if cfg.SessionToken.IsEmpty() {
		cfg.SessionToken = core.NewSecret(os.Getenv("AWS_SESSION_TOKEN"))
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://bedrock-runtime." + cfg.Region + ".amazonaws.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Bedrock{config: cfg}
}

// ID returns the provider identifier.
func (p *Bedrock) ID() string {
	return "bedrock"
}

// Complete sends a non-streaming InvokeModel request.
func (p *Bedrock) Complete(ctx context.Context, req *core.Request) (*core.ModelResponse, error) {
	return p.doComplete(ctx, req)
}

// Stream sends an InvokeModelWithResponseStream request.
func (p *Bedrock) Stream(ctx context.Context, req *core.Request) (*core.ChatStream, error) {
	return p.doStream(ctx, req)
}

func (p *Bedrock) credentials() credentials {
	return credentials{
		AccessKeyID:     p.config.AccessKeyID.Expose(),
		SecretAccessKey: p.config.SecretAccessKey.Expose(),
		SessionToken:    p.config.SessionToken.Expose(),
	}
}
