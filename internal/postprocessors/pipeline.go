// Package postprocessors turns extracted pages into retrievable segments.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.SegmentPipeline = (*Pipeline)(nil)

// Pipeline chains multiple SegmentProcessors and runs them in order.
type Pipeline struct {
	processors []driven.SegmentProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.SegmentProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the document through all processors in order.
// The first processor receives nil segments and should create them.
// Subsequent processors receive and may filter or modify the segments.
//
// A document with text on at least one page that ends up with no segments
// fails with domain.ErrNoSegments.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Segment, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	var segments []domain.Segment

	for _, processor := range p.processors {
		var err error
		segments, err = processor.Process(ctx, doc, segments)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
		logger.Debug("processor %s: %s -> %d segments", processor.Name(), doc.ID, len(segments))
	}

	if len(segments) == 0 && len(p.processors) > 0 && doc.TextPages() > 0 {
		return nil, fmt.Errorf("%s: %w", doc.ID, domain.ErrNoSegments)
	}

	return segments, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.SegmentProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
