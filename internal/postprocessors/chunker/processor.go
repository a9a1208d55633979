// Package chunker provides a recursive, boundary-aware text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.SegmentProcessor = (*Processor)(nil)

// DefaultChunkSize is the default maximum number of characters per segment.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultSeparators are tried coarsest first: paragraph, line, sentence,
// word, then raw characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// segmentNamespace scopes the name-based segment IDs.
var segmentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("edubridge:segment"))

// Processor splits each page of a document into overlapping segments.
// It implements the SegmentProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum segment size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between segments in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator list. Leaving out "" disables the
// raw character split, so an indivisible run longer than the chunk size is
// emitted whole.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = append([]string(nil), separators...)
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document pages into segments.
// Input segments are ignored; this processor creates new segments from page text.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Segment) ([]domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Chunk(doc.ID, doc.Pages), nil
}

// Chunk splits every page into segments. Each page is its own stream, so a
// segment never spans two pages. Blank pages produce no segments.
func (p *Processor) Chunk(documentID string, pages []domain.Page) []domain.Segment {
	var segments []domain.Segment
	position := 0

	for _, page := range pages {
		if page.IsBlank() {
			continue
		}
		for _, w := range p.windows(page.Text) {
			text := page.Text[w.start:w.end]
			if strings.TrimSpace(text) == "" {
				continue
			}
			segments = append(segments, domain.Segment{
				ID:         segmentID(documentID, page.Number, position),
				DocumentID: documentID,
				Page:       page.Number,
				Position:   position,
				Start:      w.start,
				End:        w.end,
				Text:       text,
			})
			position++
		}
	}

	return segments
}

func segmentID(documentID string, page, position int) string {
	name := fmt.Sprintf("%s/%d/%d", documentID, page, position)
	return uuid.NewSHA1(segmentNamespace, []byte(name)).String()
}
