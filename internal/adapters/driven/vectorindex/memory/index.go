// Package memory provides an in-process vector index with brute-force
// cosine search and optional snapshot persistence.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds embedding records in memory.
type Index struct {
	mu         sync.RWMutex
	records    []domain.EmbeddingRecord
	norms      []float64
	dimensions int
	model      string
	expected   int
	store      driven.IndexSnapshotStore
}

// Option configures the index.
type Option func(*Index)

// WithSnapshotStore enables Persist and Load against the given store.
func WithSnapshotStore(store driven.IndexSnapshotStore) Option {
	return func(idx *Index) {
		idx.store = store
	}
}

// WithDimensions sets the vector size the embedder produces. Load refuses a
// snapshot of any other size. Zero means the size is not known in advance.
func WithDimensions(n int) Option {
	return func(idx *Index) {
		idx.expected = n
	}
}

// New creates an empty index for vectors produced by model.
func New(model string, opts ...Option) *Index {
	idx := &Index{model: model}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Add appends records. The first record fixes the index dimension.
func (idx *Index) Add(ctx context.Context, records []domain.EmbeddingRecord) error {
	return idx.Replace(ctx, domain.Replacement{Records: records})
}

// Replace drops the records named by r and appends r.Records under one
// write lock. Validation happens first, so an error leaves the index unchanged.
func (idx *Index) Replace(ctx context.Context, r domain.Replacement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	drop := make(map[string]struct{}, len(r.Documents))
	for _, id := range r.Documents {
		drop[id] = struct{}{}
	}
	remove := func(rec domain.EmbeddingRecord) bool {
		if r.All {
			return true
		}
		_, ok := drop[rec.Segment.DocumentID]
		return ok
	}

	kept := 0
	for _, rec := range idx.records {
		if !remove(rec) {
			kept++
		}
	}

	dims := 0
	if kept > 0 {
		dims = idx.dimensions
	} else if len(r.Records) > 0 {
		dims = len(r.Records[0].Vector)
	}
	for i, rec := range r.Records {
		if len(rec.Vector) == 0 {
			return fmt.Errorf("memory: %w: record %d has no vector", domain.ErrInvalidInput, i)
		}
		if len(rec.Vector) != dims {
			return fmt.Errorf("memory: %w: record %d has %d dimensions, index has %d",
				domain.ErrIndexMismatch, i, len(rec.Vector), dims)
		}
	}

	if kept == len(idx.records) && len(r.Records) == 0 {
		return nil
	}

	records := make([]domain.EmbeddingRecord, 0, kept+len(r.Records))
	norms := make([]float64, 0, kept+len(r.Records))
	for i, rec := range idx.records {
		if remove(rec) {
			continue
		}
		records = append(records, rec)
		norms = append(norms, idx.norms[i])
	}
	for _, rec := range r.Records {
		vec := make([]float32, len(rec.Vector))
		copy(vec, rec.Vector)
		records = append(records, domain.EmbeddingRecord{Segment: rec.Segment, Vector: vec})
		norms = append(norms, norm(vec))
	}

	idx.records = records
	idx.norms = norms
	idx.dimensions = dims
	return nil
}

// Query returns the k records closest to vector by cosine similarity.
// Ties keep insertion order.
func (idx *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.records) == 0 || k <= 0 {
		return []domain.ScoredSegment{}, nil
	}
	if len(vector) != idx.dimensions {
		return nil, fmt.Errorf("memory: %w: query has %d dimensions, index has %d",
			domain.ErrIndexMismatch, len(vector), idx.dimensions)
	}

	qnorm := norm(vector)
	hits := make([]domain.ScoredSegment, len(idx.records))
	for i, r := range idx.records {
		hits[i] = domain.ScoredSegment{
			Segment: r.Segment,
			Score:   cosine(vector, qnorm, r.Vector, idx.norms[i]),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteDocument removes every record of documentID.
func (idx *Index) DeleteDocument(ctx context.Context, documentID string) error {
	return idx.Replace(ctx, domain.Replacement{Documents: []string{documentID}})
}

// Reset removes every record.
func (idx *Index) Reset(ctx context.Context) error {
	return idx.Replace(ctx, domain.Replacement{All: true})
}

// Stats describes the current contents.
func (idx *Index) Stats(_ context.Context) (domain.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]struct{})
	docs := []string{}
	for _, r := range idx.records {
		if _, ok := seen[r.Segment.DocumentID]; ok {
			continue
		}
		seen[r.Segment.DocumentID] = struct{}{}
		docs = append(docs, r.Segment.DocumentID)
	}
	sort.Strings(docs)

	stats := domain.IndexStats{
		Backend:    string(domain.IndexBackendMemory),
		Records:    len(idx.records),
		Documents:  docs,
		Dimensions: idx.dimensions,
		Model:      idx.model,
	}
	if idx.store != nil {
		stats.Backend = string(domain.IndexBackendSQLite)
		stats.Location = idx.store.Location()
	}
	return stats, nil
}

// Persist saves a snapshot. Without a snapshot store it does nothing.
func (idx *Index) Persist(ctx context.Context) error {
	if idx.store == nil {
		return nil
	}

	idx.mu.RLock()
	snapshot := domain.IndexSnapshot{
		Model:      idx.model,
		Dimensions: idx.dimensions,
		Records:    make([]domain.EmbeddingRecord, len(idx.records)),
	}
	copy(snapshot.Records, idx.records)
	idx.mu.RUnlock()

	if err := idx.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	return nil
}

// Load replaces the contents with the stored snapshot. A snapshot built by a
// different embedding model, or of a different vector size, is refused and
// leaves the index empty.
func (idx *Index) Load(ctx context.Context) error {
	if idx.store == nil {
		return nil
	}

	snapshot, err := idx.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.records = nil
	idx.norms = nil
	idx.dimensions = 0

	if snapshot == nil || len(snapshot.Records) == 0 {
		return nil
	}
	if snapshot.Model != "" && idx.model != "" && snapshot.Model != idx.model {
		return fmt.Errorf("memory: %w: snapshot built with %s, embedder is %s",
			domain.ErrIndexMismatch, snapshot.Model, idx.model)
	}
	if idx.expected != 0 && snapshot.Dimensions != idx.expected {
		return fmt.Errorf("memory: %w: snapshot has %d dimensions, embedder produces %d",
			domain.ErrIndexMismatch, snapshot.Dimensions, idx.expected)
	}

	idx.records = make([]domain.EmbeddingRecord, len(snapshot.Records))
	idx.norms = make([]float64, len(snapshot.Records))
	for i, r := range snapshot.Records {
		idx.records[i] = r
		idx.norms[i] = norm(r.Vector)
	}
	idx.dimensions = snapshot.Dimensions
	return nil
}

// Close releases the snapshot store.
func (idx *Index) Close() error {
	if idx.store == nil {
		return nil
	}
	return idx.store.Close()
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine returns 0 when either vector has zero length.
func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}
