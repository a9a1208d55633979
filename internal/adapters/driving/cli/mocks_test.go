package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
)

// MockTutorService implements driving.TutorService for testing.
type MockTutorService struct {
	AskFunc func(ctx context.Context, input string) (*domain.Reply, error)

	mu     sync.Mutex
	inputs []string
}

func (m *MockTutorService) Ask(ctx context.Context, input string) (*domain.Reply, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	if m.AskFunc != nil {
		return m.AskFunc(ctx, input)
	}
	return &domain.Reply{Input: input, IntentName: "content_query", Answer: domain.NotFound}, nil
}

func (m *MockTutorService) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// MockRetrievalService implements driving.RetrievalService for testing.
type MockRetrievalService struct {
	RetrieveScoredFunc func(ctx context.Context, query string, k int) ([]domain.ScoredSegment, error)
}

func (m *MockRetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.Segment, error) {
	hits, err := m.RetrieveScored(ctx, query, k)
	if err != nil {
		return nil, err
	}
	segments := make([]domain.Segment, 0, len(hits))
	for _, h := range hits {
		segments = append(segments, h.Segment)
	}
	return segments, nil
}

func (m *MockRetrievalService) RetrieveScored(
	ctx context.Context, query string, k int,
) ([]domain.ScoredSegment, error) {
	if m.RetrieveScoredFunc != nil {
		return m.RetrieveScoredFunc(ctx, query, k)
	}
	return []domain.ScoredSegment{}, nil
}

// MockIngestService implements driving.IngestService for testing.
type MockIngestService struct {
	LoadFunc func(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestResult, error)

	mu    sync.Mutex
	paths []string
	opts  []domain.IngestOptions
}

func (m *MockIngestService) Load(
	ctx context.Context, path string, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, path, opts)
	}
	return &domain.IngestResult{
		Success:   true,
		Files:     1,
		Segments:  4,
		Documents: []domain.DocumentSummary{{ID: "notes.pdf", Pages: 2, TextPages: 2, Segments: 4}},
	}, nil
}

func (m *MockIngestService) LoadFile(
	ctx context.Context, path string, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	return m.Load(ctx, path, opts)
}

func (m *MockIngestService) LoadDirectory(
	ctx context.Context, dir string, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	return m.Load(ctx, dir, opts)
}

func (m *MockIngestService) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

func (m *MockIngestService) Options() []domain.IngestOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.IngestOptions(nil), m.opts...)
}

// MockStatusService implements driving.StatusService for testing.
type MockStatusService struct {
	StatusFunc func(ctx context.Context) (*domain.Status, error)
}

func (m *MockStatusService) Status(ctx context.Context) (*domain.Status, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return &domain.Status{
		Documents:          []string{},
		Model:              "llama3.2:1b",
		EmbeddingModel:     "nomic-embed-text",
		BaseURL:            "http://localhost:11434",
		GeneratorReachable: true,
		IndexBackend:       "sqlite",
	}, nil
}

// MockModelService implements driving.ModelService for testing.
type MockModelService struct {
	PullFunc func(ctx context.Context, model string, progress func(string)) error
}

func (m *MockModelService) Pull(ctx context.Context, model string, progress func(string)) error {
	if m.PullFunc != nil {
		return m.PullFunc(ctx, model, progress)
	}
	if progress != nil {
		progress("success")
	}
	return nil
}

// MockSettingsService implements driving.SettingsService over a flat map.
type MockSettingsService struct {
	SetFunc                     func(key, value string) error
	ValidateFunc                func() error
	ValidateEmbeddingConfigFunc func() error
	ValidateLLMConfigFunc       func() error

	mu     sync.Mutex
	values map[string]string
}

func NewMockSettingsService() *MockSettingsService {
	return &MockSettingsService{values: map[string]string{
		"llm.provider":       "ollama",
		"llm.model":          "llama3.2:1b",
		"llm.api_key":        "",
		"embedding.provider": "ollama",
		"embedding.model":    "nomic-embed-text",
		"chunking.size":      "1000",
		"retrieval.top_k":    "3",
	}}
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *MockSettingsService) Save(_ *domain.AppSettings) error {
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetFunc != nil {
		if err := m.SetFunc(key, value); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockSettingsService) Value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func (m *MockSettingsService) Keys() []string {
	return []string{
		"llm.provider", "llm.model", "llm.api_key",
		"embedding.provider", "embedding.model",
		"chunking.size", "retrieval.top_k",
	}
}

func (m *MockSettingsService) Display(_ *domain.AppSettings, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.values[key]
	if strings.HasSuffix(key, ".api_key") && v != "" {
		return "****"
	}
	return v
}

func (m *MockSettingsService) ApplyEnv(_ func(string) (string, bool)) {}

func (m *MockSettingsService) Validate() error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc()
	}
	return nil
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error {
	if m.ValidateEmbeddingConfigFunc != nil {
		return m.ValidateEmbeddingConfigFunc()
	}
	return nil
}

func (m *MockSettingsService) ValidateLLMConfig() error {
	if m.ValidateLLMConfigFunc != nil {
		return m.ValidateLLMConfigFunc()
	}
	return nil
}

var (
	_ driving.TutorService     = (*MockTutorService)(nil)
	_ driving.RetrievalService = (*MockRetrievalService)(nil)
	_ driving.IngestService    = (*MockIngestService)(nil)
	_ driving.StatusService    = (*MockStatusService)(nil)
	_ driving.ModelService     = (*MockModelService)(nil)
	_ driving.SettingsService  = (*MockSettingsService)(nil)
)

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	tutor     *MockTutorService
	retrieval *MockRetrievalService
	ingest    *MockIngestService
	status    *MockStatusService
	models    *MockModelService
	settings  *MockSettingsService
}

// setupTestServices installs mocks for every service and resets flag state.
// The returned function restores the previous services.
func setupTestServices() (*testServices, func()) {
	prev := Services{
		Tutor:      tutorService,
		Retrieval:  retrievalService,
		Ingest:     ingestService,
		Status:     statusService,
		Models:     modelService,
		Settings:   settingsService,
		LibraryDir: libraryDir,
		OCRHelp:    ocrHelp,
		Close:      closeServices,
	}
	prevBuilder, prevBuilt, prevNoColor := builder, built, color.NoColor

	ts := &testServices{
		tutor:     &MockTutorService{},
		retrieval: &MockRetrievalService{},
		ingest:    &MockIngestService{},
		status:    &MockStatusService{},
		models:    &MockModelService{},
		settings:  NewMockSettingsService(),
	}
	SetServices(&Services{
		Tutor:      ts.tutor,
		Retrieval:  ts.retrieval,
		Ingest:     ts.ingest,
		Status:     ts.status,
		Models:     ts.models,
		Settings:   ts.settings,
		LibraryDir: "syllabus",
		OCRHelp:    "install tesseract",
	})
	builder = nil
	color.NoColor = true
	resetFlags()

	return ts, func() {
		SetServices(&prev)
		builder, built, color.NoColor = prevBuilder, prevBuilt, prevNoColor
		resetFlags()
	}
}

func resetFlags() {
	verbose, configDir = false, ""
	loadAppend, loadJSON = false, false
	askJSON = false
	retrieveTopK, retrieveJSON = 3, false
	statusJSON = false
}

// executeCommand runs the root command with args and stdin, returning its output.
func executeCommand(stdin string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
