package openai

import (
	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/normalize"
)

func (p *OpenAI) httpError(model string, status int, body []byte) error {
	return normalize.HTTPError(p.variant.id, model, status, body)
}

func (p *OpenAI) transportError(model string, err error) error {
	return normalize.TransportError(p.variant.id, model, err)
}

func (p *OpenAI) decodeError(model string, err error) error {
	return normalize.DecodeError(p.variant.id, model, err)
}

func (p *OpenAI) invalidToolArgsError(model, tool string) error {
	return &core.Error{
		Kind:     core.KindAPI,
		Message:  "tool call " + tool + " returned arguments that are not valid JSON",
		Model:    model,
		Provider: p.variant.id,
	}
}
