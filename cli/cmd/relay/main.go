// Relay CLI - unified LLM dispatch from the command line.
package main

import (
	"os"

	"github.com/quill-labs/relay/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
