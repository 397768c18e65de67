package openai

import (
	"encoding/json"
	"strings"

	"github.com/quill-labs/relay/core"
)

// reasoningPrefixes name model families that reject max_tokens and require
// max_completion_tokens instead.
var reasoningPrefixes = []string{"o1", "o3", "gpt-5"}

func isReasoningModel(model string) bool {
	for _, prefix := range reasoningPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// buildRequest translates a canonical request into the wire body.
func buildRequest(req *core.Request, stream bool) *openAIRequest {
	wire := &openAIRequest{
		Model:          req.Model,
		Messages:       req.Messages,
		Temperature:    req.Temperature,
		Stream:         stream,
		Tools:          req.Tools,
		ToolChoice:     req.ToolChoice,
		ResponseFormat: req.ResponseFormat,
	}
	if req.MaxTokens != nil {
		if isReasoningModel(req.Model) {
			wire.MaxCompletionTokens = req.MaxTokens
		} else {
			wire.MaxTokens = req.MaxTokens
		}
	}
	return wire
}

// mapResponse translates the wire response into the canonical form.
func (p *OpenAI) mapResponse(resp *openAIResponse, model string) (*core.ModelResponse, error) {
	choices := make([]core.Choice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		msg, err := p.mapMessage(c.Message, model)
		if err != nil {
			return nil, err
		}
		choices = append(choices, core.Choice{
			Index:        c.Index,
			Message:      msg,
			FinishReason: c.FinishReason,
		})
	}

	out := &core.ModelResponse{
		ID:                resp.ID,
		Object:            core.ObjectChatCompletion,
		Created:           resp.Created,
		Model:             resp.Model,
		Choices:           choices,
		SystemFingerprint: resp.SystemFingerprint,
	}
	if out.Model == "" {
		out.Model = model
	}
	if resp.Usage != nil {
		out.Usage = &core.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

func (p *OpenAI) mapMessage(m openAIMessage, model string) (core.Message, error) {
	msg := core.Message{
		Role:    core.Role(m.Role),
		Content: m.Content,
	}
	for _, call := range m.ToolCalls {
		if !json.Valid([]byte(call.Function.Arguments)) {
			return core.Message{}, p.invalidToolArgsError(model, call.Function.Name)
		}
		msg.ToolCalls = append(msg.ToolCalls, core.ToolCall{
			ID:   call.ID,
			Type: call.Type,
			Function: core.FunctionCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}
	if m.FunctionCall != nil {
		msg.FunctionCall = &core.FunctionCall{
			Name:      m.FunctionCall.Name,
			Arguments: m.FunctionCall.Arguments,
		}
	}
	return msg, nil
}

// mapStreamChunk translates a wire chunk into the canonical form.
func mapStreamChunk(chunk *openAIStreamChunk, model string) *core.StreamChunk {
	choices := make([]core.StreamChoice, 0, len(chunk.Choices))
	for _, c := range chunk.Choices {
		delta := core.Delta{
			Role:    c.Delta.Role,
			Content: c.Delta.Content,
		}
		for _, call := range c.Delta.ToolCalls {
			delta.ToolCalls = append(delta.ToolCalls, core.ToolCallDelta{
				Index: call.Index,
				ID:    call.ID,
				Type:  call.Type,
				Function: core.FunctionCallDelta{
					Name:      call.Function.Name,
					Arguments: call.Function.Arguments,
				},
			})
		}
		if c.Delta.FunctionCall != nil {
			delta.FunctionCall = &core.FunctionCallDelta{
				Name:      c.Delta.FunctionCall.Name,
				Arguments: c.Delta.FunctionCall.Arguments,
			}
		}
		choices = append(choices, core.StreamChoice{
			Index:        c.Index,
			Delta:        delta,
			FinishReason: c.FinishReason,
		})
	}

	out := &core.StreamChunk{
		ID:                chunk.ID,
		Object:            core.ObjectChatCompletionChunk,
		Created:           chunk.Created,
		Model:             chunk.Model,
		Choices:           choices,
		SystemFingerprint: chunk.SystemFingerprint,
	}
	if out.Model == "" {
		out.Model = model
	}
	if chunk.Usage != nil {
		out.Usage = &core.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}
	}
	return out
}
