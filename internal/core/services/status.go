package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// pingTimeout bounds the generator reachability check.
const pingTimeout = 5 * time.Second

// OCRChecker reports whether scanned pages can be recognised.
type OCRChecker interface {
	OCRAvailable() bool
}

// StatusService summarises readiness for the status command.
type StatusService struct {
	index     driven.VectorIndex
	generator driven.Generator
	embedder  driven.EmbeddingService
	ocr       OCRChecker
	llm       domain.LLMSettings
}

// NewStatusService creates a status service. generator, embedder and ocr may be nil.
func NewStatusService(
	index driven.VectorIndex,
	generator driven.Generator,
	embedder driven.EmbeddingService,
	ocr OCRChecker,
	llm domain.LLMSettings,
) *StatusService {
	return &StatusService{
		index:     index,
		generator: generator,
		embedder:  embedder,
		ocr:       ocr,
		llm:       llm,
	}
}

// Status reports loaded documents, models and backend reachability.
func (s *StatusService) Status(ctx context.Context) (*domain.Status, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}

	status := &domain.Status{
		Loaded:        !stats.IsEmpty(),
		Documents:     stats.Documents,
		Segments:      stats.Records,
		Model:         s.llm.Model,
		BaseURL:       s.llm.BaseURL,
		IndexBackend:  stats.Backend,
		IndexLocation: stats.Location,
	}
	if status.Documents == nil {
		status.Documents = []string{}
	}
	if s.embedder != nil {
		status.EmbeddingModel = s.embedder.ModelName()
	}
	if s.ocr != nil {
		status.OCRAvailable = s.ocr.OCRAvailable()
	}

	if s.generator == nil {
		status.GeneratorError = domain.ErrLLMUnavailable.Error()
		return status, nil
	}
	status.Model = s.generator.ModelName()
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.generator.Ping(pingCtx); err != nil {
		status.GeneratorError = err.Error()
	} else {
		status.GeneratorReachable = true
	}
	return status, nil
}
