package providers

import (
	"net/http"

	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers/anthropic"
	"github.com/quill-labs/relay/providers/bedrock"
	"github.com/quill-labs/relay/providers/openai"
)

// Default returns a registry with all built-in providers wired in:
// openai, anthropic, groq and bedrock.
func Default() *Registry {
	r := NewRegistry()
	r.Register(ProviderOpenAI, func(cfg Config) core.Provider {
		return openai.New(cfg.APIKey, openAIOptions(cfg)...)
	})
	r.Register(ProviderGroq, func(cfg Config) core.Provider {
		return openai.NewGroq(cfg.APIKey, openAIOptions(cfg)...)
	})
	r.Register(ProviderAnthropic, func(cfg Config) core.Provider {
		opts := []anthropic.Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		opts = append(opts, anthropic.WithHTTPClient(httpClient(cfg)))
		return anthropic.New(cfg.APIKey, opts...)
	})
	r.Register(ProviderBedrock, func(cfg Config) core.Provider {
		opts := []bedrock.Option{}
		if cfg.Region != "" {
			opts = append(opts, bedrock.WithRegion(cfg.Region))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, bedrock.WithBaseURL(cfg.BaseURL))
		}
		opts = append(opts, bedrock.WithHTTPClient(httpClient(cfg)))
		return bedrock.New(opts...)
	})
	return r
}

func openAIOptions(cfg Config) []openai.Option {
	opts := []openai.Option{}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, openai.WithHTTPClient(httpClient(cfg)))
	return opts
}

func httpClient(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
