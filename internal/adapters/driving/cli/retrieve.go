package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

var (
	retrieveTopK int
	retrieveJSON bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <query...>",
	Short: "Show the segments a question would be grounded on",
	Long: `Embeds the query and lists the most similar indexed segments with their
similarity scores, without calling the language model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 3, "number of segments to retrieve")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

// retrievedSegment is the JSON form of one hit.
type retrievedSegment struct {
	Document string  `json:"document"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if retrieveTopK <= 0 {
		return fmt.Errorf("%w: --top-k must be positive", domain.ErrInvalidInput)
	}

	hits, err := retrievalService.RetrieveScored(cmd.Context(), query, retrieveTopK)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		out := make([]retrievedSegment, 0, len(hits))
		for _, h := range hits {
			out = append(out, retrievedSegment{
				Document: h.Segment.DocumentID,
				Page:     h.Segment.Page,
				Score:    h.Score,
				Text:     h.Segment.Text,
			})
		}
		return outputJSON(cmd, out)
	}

	return outputRetrieveTable(cmd, hits)
}

func outputRetrieveTable(cmd *cobra.Command, hits []domain.ScoredSegment) error {
	if len(hits) == 0 {
		cmd.Println("No matching segments.")
		return nil
	}

	cmd.Println("Segments:")
	cmd.Println()
	for i, h := range hits {
		// Format: [N] Document: x | Page n (score)
		cmd.Printf("[%d] %s (%.3f)\n", i+1, h.Segment.Citation(), h.Score)
		cmd.Printf("    %s\n", snippet(h.Segment.Text, 200))
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and truncates s to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
