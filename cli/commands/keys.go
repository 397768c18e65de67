package commands

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quill-labs/relay/cli/config"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
	Long:  `Manage API keys stored in the config file. Keys set here override environment variables.`,
}

var keysSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Set the API key for a provider",
	Long:  `Set the API key for a provider. The key is prompted without echo.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysSet,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers with stored keys",
	Long:  `List providers that have a stored API key. Key values are never shown.`,
	RunE:  runKeysList,
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Delete the API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysDelete,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysSetCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysDeleteCmd)
}

func runKeysSet(cmd *cobra.Command, args []string) error {
	provider := args[0]

	fmt.Printf("Enter API key for %s: ", provider)

	var apiKey string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		apiKey = string(keyBytes)
		fmt.Println()
	} else {
		// Piped input
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		apiKey = strings.TrimSpace(line)
	}

	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	pc := cfg.Provider(provider)
	pc.APIKey = apiKey
	cfg.SetProvider(provider, pc)
	if err := config.Save(configPath(), cfg); err != nil {
		return fmt.Errorf("storing key: %w", err)
	}

	fmt.Printf("API key for %s stored in %s.\n", provider, configPath())
	return nil
}

func runKeysList(cmd *cobra.Command, args []string) error {
	var names []string
	for name, pc := range cfg.Providers {
		if pc.APIKey != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Println("No API keys stored.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runKeysDelete(cmd *cobra.Command, args []string) error {
	provider := args[0]

	pc := cfg.Provider(provider)
	if pc.APIKey == "" {
		return fmt.Errorf("no API key stored for %s", provider)
	}
	pc.APIKey = ""
	cfg.SetProvider(provider, pc)
	if err := config.Save(configPath(), cfg); err != nil {
		return err
	}

	fmt.Printf("API key for %s deleted.\n", provider)
	return nil
}
