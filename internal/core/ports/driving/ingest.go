package driving

import (
	"context"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// IngestService loads PDF documents into the vector index.
//
// The returned result is never nil. The error is non-nil when no document
// was loaded or when the index could not be persisted afterwards; per-file
// problems are listed in result.Failures.
type IngestService interface {
	// Load dispatches to LoadFile or LoadDirectory depending on what path is.
	Load(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestResult, error)

	// LoadFile ingests a single PDF.
	LoadFile(ctx context.Context, path string, opts domain.IngestOptions) (*domain.IngestResult, error)

	// LoadDirectory ingests every *.pdf directly inside dir, sorted by file name,
	// accumulating them into one index.
	LoadDirectory(ctx context.Context, dir string, opts domain.IngestOptions) (*domain.IngestResult, error)
}
