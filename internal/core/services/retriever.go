package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/observability"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever embeds a query and looks up the nearest segments.
type Retriever struct {
	embedder      driven.EmbeddingService
	index         driven.VectorIndex
	topK          int
	minSimilarity float64
}

// NewRetriever creates a retriever. Hits scoring at or below minSimilarity
// are dropped; k <= 0 in a call falls back to topK.
func NewRetriever(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	settings domain.RetrievalSettings,
) *Retriever {
	topK := settings.TopK
	if topK <= 0 {
		topK = domain.DefaultAppSettings().Retrieval.TopK
	}
	return &Retriever{
		embedder:      embedder,
		index:         index,
		topK:          topK,
		minSimilarity: settings.MinSimilarity,
	}
}

// Retrieve returns up to k segments relevant to query, best first.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.Segment, error) {
	scored, err := r.RetrieveScored(ctx, query, k)
	if err != nil {
		return nil, err
	}
	segments := make([]domain.Segment, len(scored))
	for i, s := range scored {
		segments[i] = s.Segment
	}
	return segments, nil
}

// RetrieveScored returns up to k segments with their similarity scores.
func (r *Retriever) RetrieveScored(ctx context.Context, query string, k int) (_ []domain.ScoredSegment, err error) {
	if k <= 0 {
		k = r.topK
	}
	ctx, span := observability.StartSpan(ctx, "retriever.retrieve", attribute.Int("retrieval.k", k))
	defer func() { observability.EndSpan(span, err) }()

	logger.Section("Retrieval")
	logger.Debug("Query: %q (k=%d, floor=%.2f)", query, k, r.minSimilarity)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.ScoredSegment{}, nil
	}

	stats, err := r.index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	if stats.IsEmpty() {
		logger.Debug("Index is empty")
		return []domain.ScoredSegment{}, nil
	}

	done := logger.Stage("embed query")
	vector, err := r.embedder.Embed(ctx, query)
	done()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	hits, err := r.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	kept := make([]domain.ScoredSegment, 0, len(hits))
	for _, h := range hits {
		if h.Score <= r.minSimilarity {
			logger.Debug("Dropping %s (score %.3f)", h.Segment.Citation(), h.Score)
			continue
		}
		kept = append(kept, h)
	}
	span.SetAttributes(attribute.Int("retrieval.hits", len(kept)))
	logger.Debug("Kept %d of %d hits", len(kept), len(hits))
	return kept, nil
}
