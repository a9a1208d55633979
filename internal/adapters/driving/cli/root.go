// Package cli provides the edubridge command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
)

// version is overridden at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// annotationServices limits what a command needs built. Commands without it
// get every service.
const annotationServices = "edubridge.services"

const (
	servicesNone     = "none"
	servicesSettings = "settings"
)

// Services bundles the driving ports the commands use.
type Services struct {
	Tutor     driving.TutorService
	Retrieval driving.RetrievalService
	Ingest    driving.IngestService
	Status    driving.StatusService
	Models    driving.ModelService
	Settings  driving.SettingsService

	// LibraryDir is loaded when `load` is given no path.
	LibraryDir string

	// OCRHelp is printed when a document needs OCR that is not installed.
	OCRHelp string

	// Close releases the index and provider clients.
	Close func() error
}

// Options carries root flags into a Builder.
type Options struct {
	ConfigDir string
	Verbose   bool

	// SettingsOnly asks for the settings service alone, so that a broken
	// provider or index configuration can still be fixed.
	SettingsOnly bool
}

// Builder wires services for a command. It runs once, after flags are parsed.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	tutorService     driving.TutorService
	retrievalService driving.RetrievalService
	ingestService    driving.IngestService
	statusService    driving.StatusService
	modelService     driving.ModelService
	settingsService  driving.SettingsService
	libraryDir       string
	ocrHelp          string
	closeServices    func() error

	builder   Builder
	built     bool
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "edubridge",
	Short: "Ask questions about your PDFs",
	Long: `EduBridge answers questions using only the PDF documents you load.

Load a PDF or a directory of PDFs, then ask questions about them. Answers are
grounded in the retrieved pages; when the documents do not cover a question
the answer is "Not Found".

Scanned pages are read with OCR when tesseract and poppler are installed.`,
	SilenceUsage:      true,
	PersistentPreRunE: buildServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show pipeline stages and timings")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.edubridge)")
}

// SetServices installs services directly, bypassing the builder.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	tutorService = s.Tutor
	retrievalService = s.Retrieval
	ingestService = s.Ingest
	statusService = s.Status
	modelService = s.Models
	settingsService = s.Settings
	libraryDir = s.LibraryDir
	ocrHelp = s.OCRHelp
	closeServices = s.Close
	built = true
}

// Execute runs the root command. b is called lazily so that commands such
// as version never touch the index or the providers.
func Execute(b Builder) error {
	builder = b

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cmd.Print* writes to stderr unless an output is set.
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)

	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
	}
	return err
}

func buildServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	need := cmd.Annotations[annotationServices]
	if builder == nil || built || need == servicesNone {
		return nil
	}

	svc, err := builder(cmd.Context(), Options{
		ConfigDir:    configDir,
		Verbose:      verbose,
		SettingsOnly: need == servicesSettings,
	})
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}
