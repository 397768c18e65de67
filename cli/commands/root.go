// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/quill-labs/relay/cli/config"
)

var (
	// Global flags
	cfgFile    string
	model      string
	jsonOutput bool

	// Loaded configuration
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay - unified LLM dispatch CLI",
	Long: `Relay sends chat completion requests to OpenAI, Anthropic, Groq and
AWS Bedrock through one canonical interface. The model string selects the
provider: "anthropic/claude-3-5-sonnet-20240620" is explicit, bare names
like "gpt-4o" or "claude-3-haiku" route by prefix.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.relay/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model string (e.g. gpt-4o, anthropic/claude-3-haiku)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func initConfig() error {
	var err error
	cfg, err = config.Load(configPath())
	if err != nil {
		return err
	}
	if model == "" && cfg.DefaultModel != "" {
		model = cfg.DefaultModel
	}
	return nil
}
