package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/anthropicwire"
	"github.com/quill-labs/relay/providers/internal/extras"
	"github.com/quill-labs/relay/providers/internal/normalize"
)

func (p *Bedrock) invokeURL(model, action string) string {
	return p.config.BaseURL + "/model/" + url.PathEscape(model) + "/" + action
}

func (p *Bedrock) buildBody(req *core.Request) ([]byte, error) {
	wireReq := anthropicwire.BuildRequest(req, anthropicwire.ModeBedrock, false)
	return extras.Apply(wireReq, req.Extra)
}

func (p *Bedrock) send(ctx context.Context, model, action string, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.invokeURL(model, action), bytes.NewReader(body))
	if err != nil {
		return nil, normalize.TransportError("bedrock", model, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	signRequest(httpReq, body, p.credentials(), p.config.Region, time.Now().UTC())

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, normalize.TransportError("bedrock", model, err)
	}
	return resp, nil
}

func (p *Bedrock) doComplete(ctx context.Context, req *core.Request) (*core.ModelResponse, error) {
	body, err := p.buildBody(req)
	if err != nil {
		return nil, normalize.DecodeError("bedrock", req.Model, err)
	}

	resp, err := p.send(ctx, req.Model, "invoke", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalize.TransportError("bedrock", req.Model, err)
	}

	if resp.StatusCode >= 400 {
		return nil, p.httpError(req.Model, resp.StatusCode, respBody)
	}

	var wireResp anthropicwire.Response
	if err := json.Unmarshal(respBody, &wireResp); err != nil {
		return nil, normalize.DecodeError("bedrock", req.Model, err)
	}

	out, err := anthropicwire.ParseResponse(&wireResp, req.Model, time.Now().Unix())
	if err != nil {
		return nil, normalize.DecodeError("bedrock", req.Model, err)
	}
	if out.ID == "" {
		out.ID = newResponseID()
	}
	return out, nil
}

// newResponseID synthesizes an identifier for responses Bedrock returns
// without one.
func newResponseID() string {
	return "bedrock-" + uuid.NewString()
}
