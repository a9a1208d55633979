// Package vectorindex selects the vector index backend from settings.
package vectorindex

import (
	"context"
	"fmt"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/storage/sqlite"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/vectorindex/memory"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/vectorindex/pgvector"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/vectorindex/qdrant"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Open creates the index named by settings.Backend for vectors from model.
// dimensions is the embedder's vector size, or 0 when it is not known yet.
// The returned index is empty; callers run Load to restore stored contents.
func Open(
	ctx context.Context, settings domain.IndexSettings, model string, dimensions int,
) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.IndexBackendSQLite, "":
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return memory.New(model, memory.WithSnapshotStore(store), memory.WithDimensions(dimensions)), nil
	case domain.IndexBackendMemory:
		return memory.New(model, memory.WithDimensions(dimensions)), nil
	case domain.IndexBackendPgvector:
		return pgvector.New(ctx, pgvector.Config{
			DSN:   settings.PostgresDSN,
			Table: pgvectorTable(settings.Collection),
			Model: model,
		})
	case domain.IndexBackendQdrant:
		return qdrant.New(qdrant.Config{
			Host:       settings.QdrantHost,
			Port:       settings.QdrantPort,
			Collection: settings.Collection,
			Model:      model,
		})
	default:
		return nil, fmt.Errorf("%w: index backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

// pgvectorTable maps the collection name onto a table name.
func pgvectorTable(collection string) string {
	if collection == "" {
		return ""
	}
	return collection + "_segments"
}
