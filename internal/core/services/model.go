package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
)

// Ensure ModelService implements the interface.
var _ driving.ModelService = (*ModelService)(nil)

// ModelService downloads generator models into a local inference server.
type ModelService struct {
	puller       driven.ModelPuller
	defaultModel string
}

// NewModelService creates a model service. puller is nil for providers
// that host their own models.
func NewModelService(puller driven.ModelPuller, defaultModel string) *ModelService {
	return &ModelService{puller: puller, defaultModel: defaultModel}
}

// Pull downloads model, or the configured model when model is empty.
func (s *ModelService) Pull(ctx context.Context, model string, progress func(status string)) error {
	if s.puller == nil {
		return fmt.Errorf("%w: provider does not support pulling models", domain.ErrLLMUnavailable)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = s.defaultModel
	}
	if model == "" {
		return fmt.Errorf("%w: no model named", domain.ErrInvalidInput)
	}

	defer logger.Stage("pull %s", model)()
	if err := s.puller.Pull(ctx, model, progress); err != nil {
		return fmt.Errorf("pull %s: %w", model, err)
	}
	return nil
}
