package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure into one of the canonical categories.
// Retriability is a property of the kind, decided by the retry policy; no
// error value carries retriable state of its own.
type ErrorKind string

const (
	KindAuthentication      ErrorKind = "authentication"
	KindBadRequest          ErrorKind = "bad_request"
	KindRateLimit           ErrorKind = "rate_limit"
	KindTimeout             ErrorKind = "timeout"
	KindAPI                 ErrorKind = "api"
	KindUnsupportedProvider ErrorKind = "unsupported_provider"
)

// Sentinel errors for classification with errors.Is. Every *Error unwraps to
// the sentinel matching its kind.
var (
	ErrAuthentication      = errors.New("authentication failed")
	ErrBadRequest          = errors.New("bad request")
	ErrRateLimited         = errors.New("rate limited")
	ErrTimeout             = errors.New("request timed out")
	ErrAPI                 = errors.New("api error")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Sentinel returns the sentinel error for the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindAuthentication:
		return ErrAuthentication
	case KindBadRequest:
		return ErrBadRequest
	case KindRateLimit:
		return ErrRateLimited
	case KindTimeout:
		return ErrTimeout
	case KindUnsupportedProvider:
		return ErrUnsupportedProvider
	default:
		return ErrAPI
	}
}

// Error is the single error type that crosses the adapter boundary. Adapters
// classify every transport failure into exactly one kind before returning;
// no raw transport error reaches the caller.
type Error struct {
	Kind     ErrorKind
	Message  string
	Status   int    // HTTP status when known, 0 otherwise
	Model    string // the caller-supplied model string
	Provider string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (kind=%s, status=%d, model=%s)",
			e.Provider, e.Message, e.Kind, e.Status, e.Model)
	}
	return fmt.Sprintf("%s: %s (kind=%s, model=%s)", e.Provider, e.Message, e.Kind, e.Model)
}

// Unwrap returns the kind sentinel so callers can match with errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind.Sentinel()
}

// KindOf extracts the canonical kind from err. Unclassified errors report
// KindAPI; nil reports "".
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrRateLimited):
		return KindRateLimit
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrUnsupportedProvider):
		return KindUnsupportedProvider
	default:
		return KindAPI
	}
}
