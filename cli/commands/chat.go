package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	relay "github.com/quill-labs/relay"
	"github.com/quill-labs/relay/core"
	"github.com/quill-labs/relay/providers"
)

var (
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	numRetries  int
	stream      bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Send a chat completion request",
	Long: `Send a chat completion request.

Examples:
  relay chat --model gpt-4o --prompt "Hello"
  relay chat --model anthropic/claude-3-haiku-20240307 --prompt "Hello" --stream
  relay chat --model llama-3.1-8b-instant --prompt "Hello" --json`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&prompt, "prompt", "", "user message (required)")
	chatCmd.Flags().StringVar(&system, "system", "", "system message")
	chatCmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature (0 = provider default)")
	chatCmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "max completion tokens (0 = provider default)")
	chatCmd.Flags().IntVar(&numRetries, "retries", 0, "total attempts for transient failures (0 = default, negative disables)")
	chatCmd.Flags().BoolVar(&stream, "stream", false, "stream the response")

	_ = chatCmd.MarkFlagRequired("prompt")
}

func runChat(cmd *cobra.Command, args []string) error {
	if model == "" {
		return fmt.Errorf("model required: use --model or set default_model in %s", configPath())
	}

	req := relay.Request{
		Model:      model,
		NumRetries: numRetries,
	}
	if system != "" {
		req.Messages = append(req.Messages, core.TextMessage(core.RoleSystem, system))
	}
	req.Messages = append(req.Messages, core.TextMessage(core.RoleUser, prompt))
	if temperature > 0 {
		req.Temperature = &temperature
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}

	// Config-file credentials for the resolved provider, if any.
	if providerID, _, err := providers.Resolve(model); err == nil {
		pc := cfg.Provider(providerID)
		req.APIKey = pc.APIKey
		req.BaseURL = pc.BaseURL
		req.Region = pc.Region
	}

	ctx := context.Background()
	if stream {
		return runStreamingChat(ctx, req)
	}
	return runCompleteChat(ctx, req)
}

func runCompleteChat(ctx context.Context, req relay.Request) error {
	resp, err := relay.Complete(ctx, req)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	for _, choice := range resp.Choices {
		fmt.Println(choice.Message.Text())
	}
	return nil
}

func runStreamingChat(ctx context.Context, req relay.Request) error {
	s, err := relay.Stream(ctx, req)
	if err != nil {
		return err
	}

	for chunk := range s.Ch {
		if jsonOutput {
			data, err := json.Marshal(chunk)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != nil {
				fmt.Print(*choice.Delta.Content)
			}
		}
	}
	if !jsonOutput {
		fmt.Println()
	}

	if err := <-s.Err; err != nil {
		return err
	}
	return nil
}
