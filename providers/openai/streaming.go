package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/extras"
)

// ssePrefix marks a data line in a server-sent-event stream.
const ssePrefix = "data:"

// sseDone is the terminal sentinel in a chat completions stream.
const sseDone = "[DONE]"

func (p *OpenAI) doStream(ctx context.Context, req *core.Request) (*core.ChatStream, error) {
	body, err := extras.Apply(buildRequest(req, true), req.Extra)
	if err != nil {
		return nil, p.decodeError(req.Model, err)
	}

	url := p.config.BaseURL + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, p.transportError(req.Model, err)
	}
	httpReq.Header = p.buildHeaders()
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, p.transportError(req.Model, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, p.httpError(req.Model, resp.StatusCode, respBody)
	}

	chunkCh := make(chan core.StreamChunk, 16)
	errCh := make(chan error, 1)
	go p.processSSE(ctx, resp.Body, req.Model, chunkCh, errCh)

	return &core.ChatStream{Ch: chunkCh, Err: errCh}, nil
}

// processSSE reads data lines from the stream and emits canonical chunks.
// Lines that are not valid JSON are skipped rather than failing the stream.
func (p *OpenAI) processSSE(
	ctx context.Context,
	body io.ReadCloser,
	model string,
	chunkCh chan<- core.StreamChunk,
	errCh chan<- error,
) {
	defer body.Close()
	defer close(chunkCh)
	defer close(errCh)

	reader := bufio.NewReader(body)
	for {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- p.transportError(model, err)
			return
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, ssePrefix) {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, ssePrefix))
		if data == "" {
			continue
		}
		if data == sseDone {
			return
		}

		var wire openAIStreamChunk
		if err := json.Unmarshal([]byte(data), &wire); err != nil {
			continue
		}

		select {
		case chunkCh <- *mapStreamChunk(&wire, model):
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		}
	}
}
