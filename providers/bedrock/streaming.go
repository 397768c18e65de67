package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"time"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/anthropicwire"
	"github.com/quill-labs/relay/providers/internal/normalize"
)

func (p *Bedrock) doStream(ctx context.Context, req *core.Request) (*core.ChatStream, error) {
	body, err := p.buildBody(req)
	if err != nil {
		return nil, normalize.DecodeError("bedrock", req.Model, err)
	}

	resp, err := p.send(ctx, req.Model, "invoke-with-response-stream", body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, p.httpError(req.Model, resp.StatusCode, respBody)
	}

	chunkCh := make(chan core.StreamChunk, 16)
	errCh := make(chan error, 1)
	go p.processEventStream(ctx, resp.Body, req.Model, chunkCh, errCh)

	return &core.ChatStream{Ch: chunkCh, Err: errCh}, nil
}

// processEventStream reads AWS event stream frames, unwraps the
// base64-encoded Anthropic event from each chunk frame and emits canonical
// chunks. Exception frames fail the stream with a classified error.
func (p *Bedrock) processEventStream(
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
	reader := newEventStreamReader(body)
	messageID := ""

	for {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return
		default:
		}

		msg, err := reader.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			errCh <- normalize.TransportError("bedrock", model, err)
			return
		}

		if exceptionType := msg.Headers[":exception-type"]; exceptionType != "" {
			var payload struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(msg.Payload, &payload)
			errCh <- p.streamError(model, exceptionType, payload.Message)
			return
		}
		if msg.Headers[":event-type"] != "chunk" {
			continue
		}

		// Chunk payloads wrap the Anthropic event: {"bytes": "<base64>"}.
		var envelope struct {
			Bytes string `json:"bytes"`
		}
		if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(envelope.Bytes)
		if err != nil {
			continue
		}

		var ev anthropicwire.StreamEvent
		if err := json.Unmarshal(decoded, &ev); err != nil {
			continue
		}
		if ev.Type == "message_stop" {
			return
		}

		chunk := anthropicwire.ParseStreamEvent(&ev, model, created)
		if chunk == nil {
			continue
		}
		if ev.Type == "message_start" && chunk.ID == "" {
			chunk.ID = newResponseID()
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
