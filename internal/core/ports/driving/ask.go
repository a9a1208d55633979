package driving

import (
	"context"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// TutorService answers one line of user input.
type TutorService interface {
	// Ask classifies the input and, for questions, answers it from the loaded
	// documents. System commands are returned unanswered for the caller to dispatch.
	// Generator failures surface in Reply.Answer, never as an error.
	Ask(ctx context.Context, input string) (*domain.Reply, error)
}

// RetrievalService exposes the retrieval step on its own.
type RetrievalService interface {
	// Retrieve returns up to k segments relevant to query, best first.
	// An empty index or no match yields an empty slice and a nil error.
	Retrieve(ctx context.Context, query string, k int) ([]domain.Segment, error)

	// RetrieveScored is Retrieve with similarity scores kept.
	RetrieveScored(ctx context.Context, query string, k int) ([]domain.ScoredSegment, error)
}

// StatusService reports readiness.
type StatusService interface {
	// Status summarises loaded documents, models and backend reachability.
	Status(ctx context.Context) (*domain.Status, error)
}

// ModelService manages generator models.
type ModelService interface {
	// Pull downloads a model. An empty name pulls the configured model.
	Pull(ctx context.Context, model string, progress func(status string)) error
}
