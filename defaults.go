package relay

import (
	"context"
	"sync"

	"github.com/quill-labs/relay/core"
)

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns the shared package-level client, built on first use.
func Default() *Client {
	defaultOnce.Do(func() {
		defaultClient = New()
	})
	return defaultClient
}

// Complete dispatches through the shared default client.
func Complete(ctx context.Context, req Request) (*core.ModelResponse, error) {
	return Default().Complete(ctx, req)
}

// Stream dispatches a streaming request through the shared default client.
func Stream(ctx context.Context, req Request) (*core.ChatStream, error) {
	return Default().Stream(ctx, req)
}

// Responses dispatches a Responses-style request through the shared
// default client.
func Responses(ctx context.Context, req ResponsesRequest) (*core.ModelResponse, error) {
	return Default().Responses(ctx, req)
}
