package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/anthropicwire"
	"github.com/quill-labs/relay/providers/internal/extras"
	"github.com/quill-labs/relay/providers/internal/normalize"
)

// messagesPath is the Messages API endpoint.
const messagesPath = "/messages"

func (p *Anthropic) doComplete(ctx context.Context, req *core.Request) (*core.ModelResponse, error) {
	wireReq := anthropicwire.BuildRequest(req, anthropicwire.ModeDirect, false)
	body, err := extras.Apply(wireReq, req.Extra)
	if err != nil {
		return nil, normalize.DecodeError("anthropic", req.Model, err)
	}

	url := p.config.BaseURL + messagesPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, normalize.TransportError("anthropic", req.Model, err)
	}
	httpReq.Header = p.buildHeaders()

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, normalize.TransportError("anthropic", req.Model, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalize.TransportError("anthropic", req.Model, err)
	}

	if resp.StatusCode >= 400 {
		return nil, normalize.HTTPError("anthropic", req.Model, resp.StatusCode, respBody)
	}

	var wireResp anthropicwire.Response
	if err := json.Unmarshal(respBody, &wireResp); err != nil {
		return nil, normalize.DecodeError("anthropic", req.Model, err)
	}

	out, err := anthropicwire.ParseResponse(&wireResp, req.Model, time.Now().Unix())
	if err != nil {
		return nil, normalize.DecodeError("anthropic", req.Model, err)
	}
	return out, nil
}
