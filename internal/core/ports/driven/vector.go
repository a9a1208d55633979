package driven

import (
	"context"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// VectorIndex stores embedding records and answers similarity lookups.
// Implementations must allow concurrent Query calls while no write is in flight.
type VectorIndex interface {
	// Add appends records. Duplicate content is stored again, never rejected.
	Add(ctx context.Context, records []domain.EmbeddingRecord) error

	// Query returns up to k records ordered by descending cosine similarity.
	// An empty index yields an empty result and a nil error.
	// A vector whose size differs from the index fails with domain.ErrIndexMismatch.
	Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredSegment, error)

	// DeleteDocument removes every record of the given document.
	DeleteDocument(ctx context.Context, documentID string) error

	// Reset removes every record.
	Reset(ctx context.Context) error

	// Replace applies r as one step. The new records are validated before
	// anything is removed, and a failed Replace leaves the stored records of
	// other documents in place.
	Replace(ctx context.Context, r domain.Replacement) error

	// Stats describes the current contents.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Persist writes the current contents to durable storage.
	// Backends that write through return nil.
	Persist(ctx context.Context) error

	// Load replaces the current contents with the durable snapshot.
	// A missing snapshot leaves the index empty and is not an error.
	Load(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// IndexSnapshotStore persists the full contents of an in-memory index.
type IndexSnapshotStore interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot domain.IndexSnapshot) error

	// Load returns the stored snapshot, or nil when none has been saved.
	Load(ctx context.Context) (*domain.IndexSnapshot, error)

	// Location returns where the snapshot lives.
	Location() string

	// Close releases resources.
	Close() error
}
