package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quill-labs/relay/core"
)

func chunkFrame(t *testing.T, event map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	payload, err := json.Marshal(map[string]string{
		"bytes": base64.StdEncoding.EncodeToString(raw),
	})
	if err != nil {
		t.Fatal(err)
	}
	return encodeEventStreamMessage(map[string]string{":event-type": "chunk"}, payload)
}

func TestStream(t *testing.T) {
	frames := [][]byte{
		chunkFrame(t, map[string]any{
			"type":    "message_start",
			"message": map[string]any{"id": "msg_bdrk_05"},
		}),
		chunkFrame(t, map[string]any{
			"type":          "content_block_start",
			"index":         0,
			"content_block": map[string]any{"type": "text", "text": ""},
		}),
		// Undecodable chunk frames are skipped: a broken envelope, bad
		// base64, and bytes that decode to truncated JSON.
		encodeEventStreamMessage(map[string]string{":event-type": "chunk"}, []byte(`{"bytes":`)),
		encodeEventStreamMessage(map[string]string{":event-type": "chunk"}, []byte(`{"bytes":"%%not-base64%%"}`)),
		encodeEventStreamMessage(map[string]string{":event-type": "chunk"}, []byte(`{"bytes":"`+base64.StdEncoding.EncodeToString([]byte(`{"type":`))+`"}`)),
		chunkFrame(t, map[string]any{
			"type":  "content_block_delta",
			"index": 0,
			"delta": map[string]any{"type": "text_delta", "text": "Hi"},
		}),
		chunkFrame(t, map[string]any{
			"type":  "content_block_delta",
			"index": 0,
			"delta": map[string]any{"type": "text_delta", "text": " there"},
		}),
		chunkFrame(t, map[string]any{"type": "content_block_stop", "index": 0}),
		chunkFrame(t, map[string]any{
			"type":  "message_delta",
			"delta": map[string]any{"stop_reason": "end_turn"},
			"usage": map[string]any{"output_tokens": 6},
		}),
		chunkFrame(t, map[string]any{"type": "message_stop"}),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model/anthropic.claude-3-haiku-20240307-v1:0/invoke-with-response-stream" {
			t.Errorf("path = %q", r.URL.Path)
		}
		for _, frame := range frames {
			w.Write(frame)
		}
	}))
	defer server.Close()

	p := testProvider(server.URL)
	stream, err := p.Stream(context.Background(), &core.Request{
		Model:    "anthropic.claude-3-haiku-20240307-v1:0",
		Messages: []core.Message{core.TextMessage(core.RoleUser, "hi")},
	})
	if err != nil {
		t.Fatal(err)
	}

	var chunks []core.StreamChunk
	for chunk := range stream.Ch {
		chunks = append(chunks, chunk)
	}
	if err := <-stream.Err; err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 5 {
		t.Fatalf("got %d chunks, want 5", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.ID != "msg_bdrk_05" {
			t.Errorf("chunk %d ID = %q", i, chunk.ID)
		}
	}

	resp := core.FoldChunks(chunks)
	if got := resp.Choices[0].Message.Text(); got != "Hi there" {
		t.Errorf("folded content = %q", got)
	}
	if resp.Choices[0].FinishReason != "end_turn" {
		t.Errorf("finish_reason = %q", resp.Choices[0].FinishReason)
	}
	if resp.Usage == nil || resp.Usage.CompletionTokens != 6 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestStreamExceptionFrame(t *testing.T) {
	frames := [][]byte{
		chunkFrame(t, map[string]any{
			"type":    "message_start",
			"message": map[string]any{"id": "msg_bdrk_06"},
		}),
		encodeEventStreamMessage(
			map[string]string{":exception-type": "throttlingException"},
			[]byte(`{"message":"ThrottlingException: too many tokens"}`),
		),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, frame := range frames {
			w.Write(frame)
		}
	}))
	defer server.Close()

	p := testProvider(server.URL)
	stream, err := p.Stream(context.Background(), &core.Request{Model: "anthropic.claude-3-haiku-20240307-v1:0"})
	if err != nil {
		t.Fatal(err)
	}

	for range stream.Ch {
	}
	err = <-stream.Err
	if core.KindOf(err) != core.KindRateLimit {
		t.Errorf("err = %v, want rate limit from the exception message", err)
	}
}

func TestStreamSynthesizedID(t *testing.T) {
	frames := [][]byte{
		chunkFrame(t, map[string]any{"type": "message_start", "message": map[string]any{}}),
		chunkFrame(t, map[string]any{
			"type":  "content_block_delta",
			"index": 0,
			"delta": map[string]any{"type": "text_delta", "text": "x"},
		}),
		chunkFrame(t, map[string]any{"type": "message_stop"}),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, frame := range frames {
			w.Write(frame)
		}
	}))
	defer server.Close()

	p := testProvider(server.URL)
	stream, err := p.Stream(context.Background(), &core.Request{Model: "anthropic.claude-3-haiku-20240307-v1:0"})
	if err != nil {
		t.Fatal(err)
	}

	var chunks []core.StreamChunk
	for chunk := range stream.Ch {
		chunks = append(chunks, chunk)
	}
	if err := <-stream.Err; err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].ID == "" || chunks[0].ID != chunks[1].ID {
		t.Errorf("ids = %q, %q, want one synthesized id on every chunk", chunks[0].ID, chunks[1].ID)
	}
}
