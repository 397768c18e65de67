package bedrock

import (
	"encoding/json"
	"strings"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/internal/normalize"
)

// errorPattern classifies a Bedrock failure by an AWS exception name
// appearing in the error message. Bedrock reports most failures this way
// rather than through distinctive HTTP statuses, so classification is a
// data table over message substrings.
type errorPattern struct {
	substring string
	kind      core.ErrorKind
}

var errorPatterns = []errorPattern{
	{"AuthenticationException", core.KindAuthentication},
	{"UnrecognizedClientException", core.KindAuthentication},
	{"ValidationException", core.KindBadRequest},
	{"ThrottlingException", core.KindRateLimit},
}

func classifyMessage(message string) core.ErrorKind {
	for _, p := range errorPatterns {
		if strings.Contains(message, p.substring) {
			return p.kind
		}
	}
	return core.KindAPI
}

// httpError classifies a non-2xx Bedrock response. AWS returns errors as
// {"message": "..."}; fall back to the shared envelope handling otherwise.
func (p *Bedrock) httpError(model string, status int, body []byte) error {
	var aws struct {
		Message string `json:"message"`
	}
	message := ""
	if json.Unmarshal(body, &aws) == nil {
		message = aws.Message
	}
	if message == "" {
		message = normalize.ErrorMessage(body)
	}
	return &core.Error{
		Kind:     classifyMessage(message + " " + string(body)),
		Message:  message,
		Status:   status,
		Model:    model,
		Provider: "bedrock",
	}
}

func (p *Bedrock) streamError(model, exceptionType, message string) error {
	if message == "" {
		message = exceptionType
	}
	return &core.Error{
		Kind:     classifyMessage(exceptionType + " " + message),
		Message:  message,
		Model:    model,
		Provider: "bedrock",
	}
}
