package driven

import (
	"context"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// SegmentProcessor produces or refines the segments of a document.
// SegmentProcessors are chained in a pipeline (e.g., chunking, filtering).
type SegmentProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns segments.
	// A processor that creates segments (the chunker) receives nil.
	// A processor that refines segments receives and returns them.
	Process(ctx context.Context, doc *domain.Document, segments []domain.Segment) ([]domain.Segment, error)
}

// SegmentPipeline chains multiple SegmentProcessors.
type SegmentPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final segments after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Segment, error)
}
