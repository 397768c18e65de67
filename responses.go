package relay

import (
	"context"
	"strings"

	"github.com/quill-labs/relay/core"
)

// InputItem is one turn of Responses-style input. Content parts are
// flattened to a single text string before dispatch.
type InputItem struct {
	Role    core.Role
	Content []ContentPart
}

// ContentPart is one block of an input item.
type ContentPart struct {
	Type string
	Text string
}

// InputText builds a single-part text input item.
func InputText(role core.Role, text string) InputItem {
	return InputItem{Role: role, Content: []ContentPart{{Type: "input_text", Text: text}}}
}

// ResponsesRequest is a Responses-style dispatch request. It accepts
// block-structured input and runs through the same resolver, adapters and
// retry policy as Complete.
type ResponsesRequest struct {
	Model string
	Input []InputItem

	Temperature *float64
	MaxTokens   *int
	NumRetries  int

	APIKey  string
	BaseURL string
	Region  string

	Extra map[string]any
}

// Responses flattens the block-structured input into chat messages and
// dispatches it. Parts of an item join with single spaces.
func (c *Client) Responses(ctx context.Context, req ResponsesRequest) (*core.ModelResponse, error) {
	messages := make([]core.Message, 0, len(req.Input))
	for _, item := range req.Input {
		parts := make([]string, 0, len(item.Content))
		for _, part := range item.Content {
			parts = append(parts, part.Text)
		}
		messages = append(messages, core.TextMessage(item.Role, strings.Join(parts, " ")))
	}

	return c.Complete(ctx, Request{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		NumRetries:  req.NumRetries,
		APIKey:      req.APIKey,
		BaseURL:     req.BaseURL,
		Region:      req.Region,
		Extra:       req.Extra,
	})
}
