// Package hashing provides an offline embedding service based on feature hashing.
//
// Each lower-cased word that is not a stopword is hashed into one of a fixed
// number of buckets with a signed weight, and the resulting vector is
// L2-normalised. The same text always maps to the same vector, and texts
// that share content words have a positive cosine similarity.
package hashing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "hashing-v1"
	DefaultDimensions = 384
)

// EmbeddingService embeds text without a model server.
type EmbeddingService struct {
	dimensions int
	model      string
}

// NewEmbeddingService creates a hashing embedder with the given number of
// buckets. Zero uses DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	model := DefaultModel
	if dimensions != DefaultDimensions {
		model = fmt.Sprintf("%s-%d", DefaultModel, dimensions)
	}
	return &EmbeddingService{dimensions: dimensions, model: model}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("hashing: %w: empty text", domain.ErrInvalidInput)
	}

	vec := make([]float64, s.dimensions)
	for _, tok := range features(text) {
		h := xxhash.Sum64String(tok)
		bucket := int(h % uint64(s.dimensions))
		if h>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	return normalise(vec), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// features returns the content words of text. When every word is a
// stopword the stopwords are kept, and text with no words at all hashes
// as a single feature, so the vector is never zero.
func features(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	content := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopwords[w]; !stop {
			content = append(content, w)
		}
	}
	if len(content) > 0 {
		return content
	}
	if len(words) > 0 {
		return words
	}
	return []string{strings.TrimSpace(text)}
}

func normalise(vec []float64) []float32 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	out := make([]float32, len(vec))
	if sum == 0 {
		// Colliding words with opposite signs can cancel out.
		out[0] = 1
		return out
	}
	norm := math.Sqrt(sum)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
