// Package core defines the provider-agnostic vocabulary of the Relay SDK:
// the canonical request/response model, the streaming chunk model, the error
// taxonomy, and the retry policy.
//
// # Canonical model
//
// Every provider adapter translates between these types and its own wire
// format. A [Request] carries an ordered message list, optional sampling
// parameters, tool definitions, and an open Extra bag of provider-specific
// parameters. A non-streaming call yields a [ModelResponse]; a streaming
// call yields a [ChatStream] of [StreamChunk] values whose deltas, folded in
// emission order with [FoldChunks], reconstruct the equivalent response.
//
// # Errors
//
// All failures surface as *[Error] tagged with an [ErrorKind]. Each kind has
// a sentinel matchable with errors.Is:
//
//	resp, err := provider.Complete(ctx, req)
//	if errors.Is(err, core.ErrRateLimited) {
//	    // throttled
//	}
//
// Adapters classify every transport failure before it leaves adapter code;
// raw transport errors never cross the boundary.
//
// # Retry
//
// [RetryPolicy] recovers RateLimit and Timeout failures with bounded
// exponential backoff. It applies to non-streaming calls only: a stream may
// already have delivered partial output, so streaming failures always
// propagate on first occurrence.
package core
