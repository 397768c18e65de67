package core

import (
	"context"
	"sort"
	"strings"
)

// ChatStream represents a streaming response from a provider.
//
// Channel rules:
//   - Providers MUST close Ch and Err when the stream ends.
//   - Err emits at most one error; a failed stream raises at the point of
//     failure after zero or more valid chunks (delivered output stands).
//   - On context cancellation, providers MUST terminate promptly, release
//     the transport, and close both channels.
//
// A stream is single-consumer and forward-only; concurrent iteration by
// multiple consumers is undefined behavior.
type ChatStream struct {
	// Ch emits chunks in order. Closed when the stream ends.
	Ch <-chan StreamChunk

	// Err emits at most one error. Closed when the stream ends.
	Err <-chan error
}

// foldingCall accumulates streamed tool-call fragments for one index.
type foldingCall struct {
	id   string
	typ  string
	name string
	args strings.Builder
}

// foldState accumulates one choice across chunks.
type foldState struct {
	index        int
	role         string
	content      strings.Builder
	hasContent   bool
	finishReason string
	calls        map[int]*foldingCall
	functionCall *FunctionCallDelta
}

// FoldChunks folds a finite chunk sequence, in emission order, into the
// equivalent ModelResponse. Metadata (id, model, created) comes from the
// first chunk that carries it; usage from the last chunk that does.
func FoldChunks(chunks []StreamChunk) *ModelResponse {
	resp := &ModelResponse{Object: ObjectChatCompletion}
	states := make(map[int]*foldState)

	for _, chunk := range chunks {
		if resp.ID == "" {
			resp.ID = chunk.ID
		}
		if resp.Model == "" {
			resp.Model = chunk.Model
		}
		if resp.Created == 0 {
			resp.Created = chunk.Created
		}
		if resp.SystemFingerprint == "" {
			resp.SystemFingerprint = chunk.SystemFingerprint
		}
		if chunk.Usage != nil {
			u := *chunk.Usage
			resp.Usage = &u
		}

		for _, choice := range chunk.Choices {
			st, ok := states[choice.Index]
			if !ok {
				st = &foldState{index: choice.Index, calls: make(map[int]*foldingCall)}
				states[choice.Index] = st
			}

			d := choice.Delta
			if d.Role != "" {
				st.role = d.Role
			}
			if d.Content != nil {
				st.hasContent = true
				st.content.WriteString(*d.Content)
			}
			for _, frag := range d.ToolCalls {
				call, ok := st.calls[frag.Index]
				if !ok {
					call = &foldingCall{}
					st.calls[frag.Index] = call
				}
				if frag.ID != "" {
					call.id = frag.ID
				}
				if frag.Type != "" {
					call.typ = frag.Type
				}
				if frag.Function.Name != "" {
					call.name = frag.Function.Name
				}
				call.args.WriteString(frag.Function.Arguments)
			}
			if d.FunctionCall != nil {
				if st.functionCall == nil {
					st.functionCall = &FunctionCallDelta{}
				}
				if d.FunctionCall.Name != "" {
					st.functionCall.Name = d.FunctionCall.Name
				}
				st.functionCall.Arguments += d.FunctionCall.Arguments
			}
			if choice.FinishReason != "" {
				st.finishReason = choice.FinishReason
			}
		}
	}

	indexes := make([]int, 0, len(states))
	for idx := range states {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	for _, idx := range indexes {
		st := states[idx]
		msg := Message{Role: RoleAssistant}
		if st.role != "" {
			msg.Role = Role(st.role)
		}
		if st.hasContent {
			content := st.content.String()
			msg.Content = &content
		}
		msg.ToolCalls = st.assembledCalls()
		if st.functionCall != nil {
			msg.FunctionCall = &FunctionCall{
				Name:      st.functionCall.Name,
				Arguments: st.functionCall.Arguments,
			}
		}
		resp.Choices = append(resp.Choices, Choice{
			Index:        st.index,
			Message:      msg,
			FinishReason: st.finishReason,
		})
	}

	return resp
}

// assembledCalls returns the accumulated tool calls in fragment-index order.
func (st *foldState) assembledCalls() []ToolCall {
	if len(st.calls) == 0 {
		return nil
	}
	indexes := make([]int, 0, len(st.calls))
	for idx := range st.calls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	calls := make([]ToolCall, 0, len(indexes))
	for _, idx := range indexes {
		c := st.calls[idx]
		typ := c.typ
		if typ == "" {
			typ = "function"
		}
		calls = append(calls, ToolCall{
			ID:   c.id,
			Type: typ,
			Function: FunctionCall{
				Name:      c.name,
				Arguments: c.args.String(),
			},
		})
	}
	return calls
}

// DrainStream consumes the whole stream and returns the folded ModelResponse.
// Partial output already delivered is lost when the stream fails; the error
// is returned instead, matching the "raise at point of failure" contract.
func DrainStream(ctx context.Context, s *ChatStream) (*ModelResponse, error) {
	if s == nil {
		return nil, &Error{Kind: KindBadRequest, Message: "nil stream"}
	}

	var chunks []StreamChunk
	ch := s.Ch
	errCh := s.Err
	for ch != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk, ok := <-ch:
			if !ok {
				ch = nil
				continue
			}
			chunks = append(chunks, chunk)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return FoldChunks(chunks), nil
}
