// Package minlength drops segments too short to be worth retrieving.
package minlength

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.SegmentProcessor = (*Processor)(nil)

// DefaultMinLength drops only whitespace-only segments.
const DefaultMinLength = 1

// Processor filters out segments whose trimmed text is shorter than a minimum.
type Processor struct {
	minLength int
}

// New creates a filter. Values below 1 are raised to 1.
func New(minLength int) *Processor {
	if minLength < 1 {
		minLength = DefaultMinLength
	}
	return &Processor{minLength: minLength}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "minlength"
}

// Process returns the segments long enough to keep, in order.
// Positions are left as assigned by the chunker.
func (p *Processor) Process(_ context.Context, _ *domain.Document, segments []domain.Segment) ([]domain.Segment, error) {
	kept := segments[:0:0]
	for _, seg := range segments {
		if utf8.RuneCountInString(strings.TrimSpace(seg.Text)) >= p.minLength {
			kept = append(kept, seg)
		}
	}
	return kept, nil
}
