package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull [model]",
	Short: "Download a model into Ollama",
	Long: `Asks the Ollama server to pull a model. With no argument the configured
generator model is pulled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	if modelService == nil {
		return errors.New("model service not configured")
	}

	var model string
	if len(args) == 1 {
		model = args[0]
	}

	last := ""
	err := modelService.Pull(cmd.Context(), model, func(status string) {
		if status != last {
			cmd.Println(status)
			last = status
		}
	})
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	cmd.Println("Model ready.")
	return nil
}
