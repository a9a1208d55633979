// Command edubridge answers questions about PDF documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/ai"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/config/file"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/vectorindex"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driving/cli"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/services"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/normalisers/pdf"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/observability"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/postprocessors"
)

func main() {
	// A missing .env file is normal.
	_ = godotenv.Load() //nolint:errcheck // optional file

	if err := cli.Execute(build); err != nil {
		os.Exit(1)
	}
}

// build wires the adapters behind every driving port.
func build(ctx context.Context, opts cli.Options) (_ *cli.Services, err error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewProviderChecker())
	settingsService.ApplyEnv(os.LookupEnv)

	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		return nil, fmt.Errorf("%w\nRun 'edubridge settings show' to review your configuration", err)
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = closeAll() //nolint:errcheck // already failing
		}
	}()

	tracer, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  "edubridge",
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	})
	if err != nil {
		return nil, err
	}
	closers = append(closers, func() error { return tracer.Shutdown(context.Background()) })

	aiServices, err := ai.Init(settings)
	if err != nil {
		return nil, err
	}
	closers = append(closers, func() error { aiServices.Close(); return nil })

	indexSettings := settings.Index
	if indexSettings.Path == "" && opts.ConfigDir != "" {
		indexSettings.Path = filepath.Join(opts.ConfigDir, "vectorstore")
	}
	index, err := vectorindex.Open(ctx, indexSettings,
		aiServices.Embedder.ModelName(), aiServices.Embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	closers = append(closers, index.Close)

	if err := index.Load(ctx); err != nil {
		if !errors.Is(err, domain.ErrIndexMismatch) {
			return nil, err
		}
		logger.Warn("stored index does not match %s, load your documents again: %v",
			aiServices.Embedder.ModelName(), err)
	}

	extractorOpts := []pdf.Option{pdf.WithScale(settings.OCR.Scale)}
	if settings.OCR.Enabled {
		extractorOpts = append(extractorOpts, pdf.WithRecognizer(pdf.NewTesseract(nil, settings.OCR.Language)))
	}
	extractor := pdf.New(extractorOpts...)

	pipeline, err := postprocessors.NewDefaultPipeline(settings.Chunking)
	if err != nil {
		return nil, fmt.Errorf("building chunking pipeline: %w", err)
	}

	var promptDir string
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, err
	}

	retriever := services.NewRetriever(aiServices.Embedder, index, settings.Retrieval)
	assembler := services.NewAnswerAssembler(aiServices.Generator, prompts, settings.LLM, settings.Answer)

	return &cli.Services{
		Tutor:      services.NewTutorService(services.NewIntentClassifier(), retriever, assembler, index),
		Retrieval:  retriever,
		Ingest:     services.NewIngestService(extractor, pipeline, aiServices.Embedder, index),
		Status:     services.NewStatusService(index, aiServices.Generator, aiServices.Embedder, extractor, settings.LLM),
		Models:     services.NewModelService(aiServices.Puller, settings.LLM.Model),
		Settings:   settingsService,
		LibraryDir: settings.LibraryDir,
		OCRHelp:    pdf.InstallInstructions(),
		Close:      closeAll,
	}, nil
}
