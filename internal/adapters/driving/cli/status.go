package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is loaded and whether the model is reachable",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	status, err := statusService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if statusJSON {
		return outputJSON(cmd, status)
	}

	outputStatus(cmd, status)
	return nil
}

func outputStatus(cmd *cobra.Command, status *domain.Status) {
	if status.Loaded {
		cmd.Printf("PDF Loaded: Yes (%s)\n", strings.Join(status.Documents, ", "))
	} else {
		cmd.Println("PDF Loaded: No")
	}
	cmd.Printf("Model: %s\n", status.Model)
	cmd.Printf("Ollama URL: %s\n", status.BaseURL)
	cmd.Printf("Status: %s\n", status.State())

	if !verbose && status.GeneratorReachable {
		return
	}

	cmd.Println()
	cmd.Printf("  Segments: %s\n", humanize.Comma(int64(status.Segments)))
	cmd.Printf("  Embedding model: %s\n", status.EmbeddingModel)
	if status.IndexLocation != "" {
		cmd.Printf("  Index: %s (%s)\n", status.IndexBackend, status.IndexLocation)
	} else {
		cmd.Printf("  Index: %s\n", status.IndexBackend)
	}
	cmd.Printf("  OCR: %s\n", availability(status.OCRAvailable))
	if status.GeneratorReachable {
		cmd.Println("  Generator: reachable")
	} else {
		errorColor.Fprintf(cmd.OutOrStdout(), "  Generator: %s\n", status.GeneratorError) //nolint:errcheck // terminal output
	}
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "not installed"
}
