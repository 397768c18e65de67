package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorUnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want error
	}{
		{KindAuthentication, ErrAuthentication},
		{KindBadRequest, ErrBadRequest},
		{KindRateLimit, ErrRateLimited},
		{KindTimeout, ErrTimeout},
		{KindAPI, ErrAPI},
		{KindUnsupportedProvider, ErrUnsupportedProvider},
	}
	for _, tt := range tests {
		err := &Error{Kind: tt.kind, Message: "x", Provider: "openai"}
		if !errors.Is(err, tt.want) {
			t.Errorf("kind %s does not unwrap to its sentinel", tt.kind)
		}
		for _, other := range tests {
			if other.kind != tt.kind && errors.Is(err, other.want) {
				t.Errorf("kind %s unexpectedly matches %s", tt.kind, other.kind)
			}
		}
	}
}

func TestErrorMatchesThroughWrapping(t *testing.T) {
	inner := &Error{Kind: KindRateLimit, Message: "slow down", Provider: "groq"}
	wrapped := fmt.Errorf("dispatch: %w", inner)

	if !errors.Is(wrapped, ErrRateLimited) {
		t.Error("wrapped error lost its kind")
	}
	var e *Error
	if !errors.As(wrapped, &e) || e.Provider != "groq" {
		t.Error("wrapped error lost its context")
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{
		Kind:     KindAuthentication,
		Message:  "bad key",
		Status:   401,
		Model:    "gpt-4o",
		Provider: "openai",
	}
	s := err.Error()
	for _, want := range []string{"openai", "bad key", "401", "gpt-4o", "authentication"} {
		if !strings.Contains(s, want) {
			t.Errorf("Error() = %q, missing %q", s, want)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ""},
		{&Error{Kind: KindTimeout}, KindTimeout},
		{fmt.Errorf("wrap: %w", &Error{Kind: KindBadRequest}), KindBadRequest},
		{ErrRateLimited, KindRateLimit},
		{errors.New("mystery"), KindAPI},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
