package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/anthropicwire"
	"github.com/quill-labs/relay/providers/internal/extras"
	"github.com/quill-labs/relay/providers/internal/normalize"
)

const ssePrefix = "data:"

func (p *Anthropic) doStream(ctx context.Context, req *core.Request) (*core.ChatStream, error) {
	wireReq := anthropicwire.BuildRequest(req, anthropicwire.ModeDirect, true)
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
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, normalize.TransportError("anthropic", req.Model, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, normalize.HTTPError("anthropic", req.Model, resp.StatusCode, respBody)
	}

	chunkCh := make(chan core.StreamChunk, 16)
	errCh := make(chan error, 1)
	go p.processSSE(ctx, resp.Body, req.Model, chunkCh, errCh)

	return &core.ChatStream{Ch: chunkCh, Err: errCh}, nil
}

// processSSE translates Messages API events into canonical chunks. Event
// types outside the canonical grammar are skipped, as are malformed data
// lines; the message id from message_start stamps every later chunk.
func (p *Anthropic) processSSE(
	ctx context.Context,
	body io.ReadCloser,
	model string,
	chunkCh chan<- core.StreamChunk,
	errCh chan<- error,
) {
	defer body.Close()
	defer close(chunkCh)
	defer close(errCh)

	created := time.Now().Unix()
	reader := bufio.NewReader(body)
	var messageID string

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
			errCh <- normalize.TransportError("anthropic", model, err)
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

		var ev anthropicwire.StreamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue
		}

		if ev.Type == "error" {
			message := "stream error"
			if ev.Error != nil {
				message = ev.Error.Message
			}
			errCh <- &core.Error{
				Kind:     core.KindAPI,
				Message:  message,
				Model:    model,
				Provider: "anthropic",
			}
			return
		}
		if ev.Type == "message_stop" {
			return
		}

		chunk := anthropicwire.ParseStreamEvent(&ev, model, created)
		if chunk == nil {
			continue
		}
		if chunk.ID != "" {
			messageID = chunk.ID
		} else {
			chunk.ID = messageID
		}

		select {
		case chunkCh <- *chunk:
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		}
	}
}
