// Package normalize provides shared provider error classification helpers.
package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/quill-labs/relay/core"
)

// errorEnvelope covers both common wire shapes:
// {"error":{"message":"...","type":"...","code":"..."}} (OpenAI, Groq) and
// {"type":"error","error":{"type":"...","message":"..."}} (Anthropic).
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// KindForStatus maps an HTTP status code to the canonical error kind.
func KindForStatus(status int) core.ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return core.KindAuthentication
	case http.StatusBadRequest:
		return core.KindBadRequest
	case http.StatusTooManyRequests:
		return core.KindRateLimit
	case http.StatusGatewayTimeout:
		return core.KindTimeout
	default:
		return core.KindAPI
	}
}

// HTTPError classifies a non-2xx response by status and extracts the
// provider's error message from the body when one is present.
func HTTPError(provider, model string, status int, body []byte) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)

	message := env.Error.Message
	if message == "" && len(body) > 0 {
		message = string(body)
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return &core.Error{
		Kind:     KindForStatus(status),
		Message:  message,
		Status:   status,
		Model:    model,
		Provider: provider,
	}
}

// ErrorMessage extracts the message field from either error envelope shape,
// falling back to the raw body.
func ErrorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	return string(body)
}

// TransportError classifies a transport-level failure. Deadline expiry and
// network timeouts map to the timeout kind; everything else is an API error.
func TransportError(provider, model string, err error) error {
	kind := core.KindAPI
	if isTimeout(err) {
		kind = core.KindTimeout
	}
	return &core.Error{
		Kind:     kind,
		Message:  err.Error(),
		Model:    model,
		Provider: provider,
	}
}

// DecodeError wraps a response-parsing failure as an API error.
func DecodeError(provider, model string, err error) error {
	return &core.Error{
		Kind:     core.KindAPI,
		Message:  "decoding response: " + err.Error(),
		Model:    model,
		Provider: provider,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
