package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

var (
	loadAppend bool
	loadJSON   bool
)

var loadCmd = &cobra.Command{
	Use:   "load [path]",
	Short: "Load a PDF or a directory of PDFs",
	Long: `Extracts text from a PDF, or from every PDF directly inside a directory,
splits it into segments and indexes their embeddings.

Loading replaces the documents loaded before unless --append is given. With no
path, the configured library directory is loaded.

Pages without a text layer are read with OCR when it is available.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVarP(&loadAppend, "append", "a", false, "keep previously loaded documents")
	loadCmd.Flags().BoolVar(&loadJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := libraryDir
	if len(args) == 1 {
		path = args[0]
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("no path given and no library directory configured")
	}

	opts := domain.IngestOptions{Accumulate: loadAppend}

	var bar *progressbar.ProgressBar
	if !loadJSON && isTerminal(cmd.ErrOrStderr()) {
		opts.Progress = func(file string, done, total int) {
			if bar == nil {
				bar = newProgressBar(cmd.ErrOrStderr(), total, "Loading")
			}
			bar.Describe(filepath.Base(file))
			_ = bar.Set(done) //nolint:errcheck // progress is cosmetic
		}
	}

	result, err := ingestService.Load(cmd.Context(), path, opts)
	if bar != nil {
		_ = bar.Finish() //nolint:errcheck // progress is cosmetic
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	if loadJSON && result != nil {
		if jerr := outputJSON(cmd, result); jerr != nil {
			return jerr
		}
	} else if result != nil {
		outputLoadSummary(cmd, result)
	}

	if needsOCR(result, err) && ocrHelp != "" {
		cmd.Println()
		cmd.Println(ocrHelp)
	}

	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	return nil
}

func outputLoadSummary(cmd *cobra.Command, result *domain.IngestResult) {
	if result.Loaded() > 0 {
		cmd.Printf("Loaded %d of %s, %s segments.\n",
			result.Loaded(),
			english.Plural(result.Files, "document", ""),
			humanize.Comma(int64(result.Segments)))
	}

	for _, doc := range result.Documents {
		line := fmt.Sprintf("  %s: %s, %s", doc.ID,
			english.Plural(doc.Pages, "page", ""),
			english.Plural(doc.Segments, "segment", ""))
		if doc.OCRPages > 0 {
			line += fmt.Sprintf(" (%d via OCR)", doc.OCRPages)
		}
		cmd.Println(line)
	}

	if len(result.Failures) > 0 {
		cmd.Println("Skipped:")
		for _, f := range result.Failures {
			cmd.Printf("  %s: %s\n", f.Path, f.Reason)
		}
	}
}

// needsOCR reports whether any document failed only for lack of an OCR engine.
func needsOCR(result *domain.IngestResult, err error) bool {
	if errors.Is(err, domain.ErrNoTextOCRUnavailable) {
		return true
	}
	if result == nil {
		return false
	}
	for _, f := range result.Failures {
		if errors.Is(f.Err, domain.ErrNoTextOCRUnavailable) {
			return true
		}
	}
	return false
}
