// Package providers maps model identifiers to provider adapters.
//
// It hosts the resolver (model string -> provider + model name) and the
// registry (provider name -> adapter factory). Adapter implementations live
// in the per-provider subpackages.
package providers

import (
	"fmt"
	"strings"

	"github.com/quill-labs/relay/core"
)

// Supported provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderBedrock   = "bedrock"
)

// supported is the set of providers the resolver accepts in
// "provider/model" form.
var supported = map[string]bool{
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderGroq:      true,
	ProviderBedrock:   true,
}

// prefixRoute routes a model-name prefix to a provider.
type prefixRoute struct {
	prefix   string
	provider string
}

// prefixRoutes is scanned in order; the first match wins.
var prefixRoutes = []prefixRoute{
	{"gpt", ProviderOpenAI},
	{"o1", ProviderOpenAI},
	{"o3", ProviderOpenAI},
	{"text-embedding", ProviderOpenAI},
	{"claude", ProviderAnthropic},
	{"llama", ProviderGroq},
	{"mixtral", ProviderGroq},
	{"gemma", ProviderGroq},
}

// Resolve maps a model string to its provider and provider-local model name.
//
// "provider/model-name" splits on the first slash; the provider segment is
// lower-cased and must be supported. A bare model name is routed by prefix
// (case-insensitive on the prefix side only; the name is returned verbatim).
// Names matching no prefix default to "openai" -- a deliberate
// backward-compatibility choice matching the widely deployed convention,
// surprising but load-bearing.
func Resolve(model string) (provider, name string, err error) {
	if i := strings.Index(model, "/"); i >= 0 {
		provider = strings.ToLower(model[:i])
		name = model[i+1:]
		if !supported[provider] {
			return "", "", &core.Error{
				Kind:     core.KindUnsupportedProvider,
				Message:  fmt.Sprintf("provider %q is not supported", provider),
				Model:    model,
				Provider: provider,
			}
		}
		return provider, name, nil
	}

	lower := strings.ToLower(model)
	for _, r := range prefixRoutes {
		if strings.HasPrefix(lower, r.prefix) {
			return r.provider, model, nil
		}
	}

	return ProviderOpenAI, model, nil
}
