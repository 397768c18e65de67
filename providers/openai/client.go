package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/extras"
)

// chatCompletionsPath is the API endpoint for chat completions.
const chatCompletionsPath = "/chat/completions"

func (p *OpenAI) doComplete(ctx context.Context, req *core.Request) (*core.ModelResponse, error) {
	body, err := extras.Apply(buildRequest(req, false), req.Extra)
	if err != nil {
		return nil, p.decodeError(req.Model, err)
	}

	url := p.config.BaseURL + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, p.transportError(req.Model, err)
	}
	httpReq.Header = p.buildHeaders()

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, p.transportError(req.Model, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.transportError(req.Model, err)
	}

	if resp.StatusCode >= 400 {
		return nil, p.httpError(req.Model, resp.StatusCode, respBody)
	}

	var wire openAIResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, p.decodeError(req.Model, err)
	}

	return p.mapResponse(&wire, req.Model)
}
