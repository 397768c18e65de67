package core

import "time"

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use it for logging, metrics, or tracing.
//
// Event types intentionally never include sensitive data: no API keys, no
// message content, no response content. Only operational metadata (provider,
// model, timing, token counts) is exposed, so events are safe to ship to
// external monitoring systems.
type TelemetryHook interface {
	// OnRequestStart is called when a request to a provider begins.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a request to a provider completes.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Provider string    // Provider identifier (e.g., "openai", "anthropic")
	Model    string    // Caller-supplied model string
	Stream   bool      // Whether this is a streaming call
	Start    time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
type RequestEndEvent struct {
	Provider string    // Provider identifier
	Model    string    // Caller-supplied model string
	Stream   bool      // Whether this was a streaming call
	Start    time.Time // When the request started
	End      time.Time // When the request completed
	Attempts int       // How many attempts were made (>=1)
	Usage    Usage     // Token consumption, zeroed when unavailable
	Err      error     // Classified error if the request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is the default no-op TelemetryHook.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

var _ TelemetryHook = NoopTelemetryHook{}
