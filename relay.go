// Package relay dispatches chat completion requests to LLM providers
// behind one canonical request/response model. The model string selects
// the provider; adapters translate to and from each provider's wire
// format, so callers see OpenAI-shaped responses no matter which backend
// served them.
package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers"
)

// Client dispatches requests through a provider registry.
// Safe for concurrent use.
type Client struct {
	registry  *providers.Registry
	telemetry core.TelemetryHook
	retry     core.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithRegistry replaces the default provider registry.
func WithRegistry(r *providers.Registry) Option {
	return func(c *Client) {
		c.registry = r
	}
}

// WithTelemetry installs a telemetry hook observing every dispatch.
func WithTelemetry(hook core.TelemetryHook) Option {
	return func(c *Client) {
		c.telemetry = hook
	}
}

// WithRetryConfig overrides the backoff shape used for transient failures.
func WithRetryConfig(cfg core.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// New creates a Client over the built-in provider registry.
func New(opts ...Option) *Client {
	c := &Client{
		registry:  providers.Default(),
		telemetry: core.NoopTelemetryHook{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request is a dispatch request. Model carries an optional provider prefix
// ("openai/gpt-4"); bare names route by prefix and default to openai.
type Request struct {
	Model    string
	Messages []core.Message

	Temperature    *float64
	MaxTokens      *int
	Tools          []core.Tool
	ToolChoice     any
	ResponseFormat *core.ResponseFormat

	// NumRetries is the total attempt count for transient failures.
	// Zero means the default of 3; negative disables retries. Streaming
	// calls never retry regardless.
	NumRetries int

	// APIKey, BaseURL, Region and Timeout override the provider's
	// environment-derived configuration for this call only.
	APIKey  string
	BaseURL string
	Region  string
	Timeout time.Duration

	// HTTPClient, when set, is used as-is for this call.
	HTTPClient *http.Client

	// Extra holds provider-specific parameters merged into the wire
	// payload last, overriding anything the typed fields produced.
	Extra map[string]any
}

// Complete resolves the model, dispatches the request and returns the
// canonical response. RateLimit and Timeout failures are retried with
// exponential backoff; every other error kind propagates immediately.
func (c *Client) Complete(ctx context.Context, req Request) (*core.ModelResponse, error) {
	provider, creq, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.telemetry.OnRequestStart(core.RequestStartEvent{
		Provider: provider.ID(),
		Model:    creq.Model,
		Start:    start,
	})

	policy := c.policyFor(req)
	var resp *core.ModelResponse
	attempts := 0
	for {
		attempts++
		resp, err = provider.Complete(ctx, creq)
		if err == nil {
			break
		}
		delay, ok := policy.NextDelay(attempts-1, err)
		if !ok {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			err = contextError(provider.ID(), creq.Model, ctx.Err())
		}
		if ctx.Err() != nil {
			break
		}
	}

	end := core.RequestEndEvent{
		Provider: provider.ID(),
		Model:    creq.Model,
		Start:    start,
		End:      time.Now(),
		Attempts: attempts,
		Err:      err,
	}
	if resp != nil && resp.Usage != nil {
		end.Usage = *resp.Usage
	}
	c.telemetry.OnRequestEnd(end)

	return resp, err
}

// Stream resolves the model and opens a streaming dispatch. Streams are
// never retried; any failure surfaces once, either here or on the stream's
// error channel.
func (c *Client) Stream(ctx context.Context, req Request) (*core.ChatStream, error) {
	provider, creq, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.telemetry.OnRequestStart(core.RequestStartEvent{
		Provider: provider.ID(),
		Model:    creq.Model,
		Stream:   true,
		Start:    start,
	})

	stream, err := provider.Stream(ctx, creq)
	if err != nil {
		c.telemetry.OnRequestEnd(core.RequestEndEvent{
			Provider: provider.ID(),
			Model:    creq.Model,
			Stream:   true,
			Start:    start,
			End:      time.Now(),
			Attempts: 1,
			Err:      err,
		})
		return nil, err
	}

	return c.observeStream(ctx, provider.ID(), creq.Model, start, stream), nil
}

// prepare resolves the model string and instantiates the provider with
// this call's overrides applied.
func (c *Client) prepare(req Request) (core.Provider, *core.Request, error) {
	providerName, modelName, err := providers.Resolve(req.Model)
	if err != nil {
		return nil, nil, err
	}

	provider, err := c.registry.Create(providerName, providers.Config{
		APIKey:     req.APIKey,
		BaseURL:    req.BaseURL,
		Region:     req.Region,
		Timeout:    req.Timeout,
		HTTPClient: req.HTTPClient,
	})
	if err != nil {
		return nil, nil, err
	}

	return provider, &core.Request{
		Model:          modelName,
		Messages:       req.Messages,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		Tools:          req.Tools,
		ToolChoice:     req.ToolChoice,
		ResponseFormat: req.ResponseFormat,
		Extra:          req.Extra,
	}, nil
}

// contextError classifies context expiry during a backoff wait the same
// way the adapters classify transport failures, so Complete always returns
// a canonical error.
func contextError(provider, model string, err error) error {
	kind := core.KindAPI
	if errors.Is(err, context.DeadlineExceeded) {
		kind = core.KindTimeout
	}
	return &core.Error{
		Kind:     kind,
		Message:  err.Error(),
		Model:    model,
		Provider: provider,
	}
}

func (c *Client) policyFor(req Request) core.RetryPolicy {
	if req.NumRetries < 0 {
		return core.NoRetryPolicy()
	}
	cfg := c.retry
	if req.NumRetries > 0 {
		cfg.MaxAttempts = req.NumRetries
	}
	return core.NewRetryPolicy(cfg)
}

// observeStream forwards the stream while watching it for the telemetry
// end event: last usage seen, total duration, terminal error if any. An
// abandoned consumer stops reading, so every forwarding send pairs with
// ctx.Done to keep the goroutine from blocking forever.
func (c *Client) observeStream(ctx context.Context, provider, model string, start time.Time, in *core.ChatStream) *core.ChatStream {
	chunkCh := make(chan core.StreamChunk, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(chunkCh)
		defer close(errCh)

		var usage core.Usage
		var streamErr error
		chunks, errs := in.Ch, in.Err
	forward:
		for chunks != nil || errs != nil {
			select {
			case chunk, ok := <-chunks:
				if !ok {
					chunks = nil
					continue
				}
				if chunk.Usage != nil {
					usage = *chunk.Usage
				}
				select {
				case chunkCh <- chunk:
				case <-ctx.Done():
					streamErr = ctx.Err()
					break forward
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				if err != nil {
					streamErr = err
					errCh <- err
				}
			}
		}

		c.telemetry.OnRequestEnd(core.RequestEndEvent{
			Provider: provider,
			Model:    model,
			Stream:   true,
			Start:    start,
			End:      time.Now(),
			Attempts: 1,
			Usage:    usage,
			Err:      streamErr,
		})
	}()

	return &core.ChatStream{Ch: chunkCh, Err: errCh}
}
