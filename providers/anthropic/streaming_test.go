package anthropic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quill-labs/relay/core"
)

const streamFixture = `event: message_start
data: {"type":"message_start","message":{"id":"msg_05","type":"message","role":"assistant","content":[],"usage":{"input_tokens":9,"output_tokens":1}}}

event: content_block_start
data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}

event: ping
data: {"type":"ping"}

data: {"type":"content_block_delta","ind

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" there"}}

event: content_block_stop
data: {"type":"content_block_stop","index":0}

event: message_delta
data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":12}}

event: message_stop
data: {"type":"message_stop"}

`

func TestStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(streamFixture))
	}))
	defer server.Close()

	p := New("sk-ant-test", WithBaseURL(server.URL))
	stream, err := p.Stream(context.Background(), &core.Request{
		Model:    "claude-3-haiku",
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

	// message_start, content_block_start, two text deltas, message_delta.
	// ping, content_block_stop, message_stop and the truncated data line
	// produce nothing.
	if len(chunks) != 5 {
		t.Fatalf("got %d chunks, want 5", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.ID != "msg_05" {
			t.Errorf("chunk %d ID = %q, want the message id stamped throughout", i, chunk.ID)
		}
		if chunk.Object != core.ObjectChatCompletionChunk {
			t.Errorf("chunk %d Object = %q", i, chunk.Object)
		}
	}

	if role := chunks[1].Choices[0].Delta.Role; role != "assistant" {
		t.Errorf("content_block_start role = %q", role)
	}

	resp := core.FoldChunks(chunks)
	if got := resp.Choices[0].Message.Text(); got != "Hello there" {
		t.Errorf("folded content = %q", got)
	}
	if resp.Choices[0].FinishReason != "end_turn" {
		t.Errorf("finish_reason = %q", resp.Choices[0].FinishReason)
	}
	if resp.Usage == nil || resp.Usage.CompletionTokens != 12 || resp.Usage.PromptTokens != 0 {
		t.Errorf("usage = %+v, want output tokens only", resp.Usage)
	}
}

func TestStreamErrorEvent(t *testing.T) {
	fixture := `event: message_start
data: {"type":"message_start","message":{"id":"msg_06"}}

event: error
data: {"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}

`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer server.Close()

	p := New("sk-ant-test", WithBaseURL(server.URL))
	stream, err := p.Stream(context.Background(), &core.Request{Model: "claude-3-haiku"})
	if err != nil {
		t.Fatal(err)
	}

	for range stream.Ch {
	}
	err = <-stream.Err
	if err == nil {
		t.Fatal("want error from the error event")
	}
	if core.KindOf(err) != core.KindAPI {
		t.Errorf("kind = %v", core.KindOf(err))
	}
}

func TestStreamWireRequest(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("data: {\"type\":\"message_stop\"}\n\n"))
	}))
	defer server.Close()

	p := New("sk-ant-test", WithBaseURL(server.URL))
	stream, err := p.Stream(context.Background(), &core.Request{Model: "claude-3-haiku"})
	if err != nil {
		t.Fatal(err)
	}
	for range stream.Ch {
	}
	<-stream.Err

	if gotAccept != "text/event-stream" {
		t.Errorf("Accept = %q", gotAccept)
	}
}
