package vectorindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name     string
		settings domain.IndexSettings
		backend  string
		wantErr  error
	}{
		{"sqlite", domain.IndexSettings{Backend: domain.IndexBackendSQLite, Path: dir}, "sqlite", nil},
		{"memory", domain.IndexSettings{Backend: domain.IndexBackendMemory}, "memory", nil},
		{"pgvector without dsn", domain.IndexSettings{Backend: domain.IndexBackendPgvector}, "", domain.ErrVectorIndexUnavailable},
		{"qdrant without host", domain.IndexSettings{Backend: domain.IndexBackendQdrant}, "", domain.ErrVectorIndexUnavailable},
		{"unknown", domain.IndexSettings{Backend: "faiss"}, "", domain.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Open(ctx, tt.settings, "m", 0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = idx.Close() })

			stats, err := idx.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.backend, stats.Backend)
			assert.Equal(t, "m", stats.Model)
		})
	}
}

func TestOpen_SQLiteLocation(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(context.Background(), domain.IndexSettings{Backend: domain.IndexBackendSQLite, Path: dir}, "m", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.db"), stats.Location)
}

func TestOpen_SQLiteRefusesOtherDimension(t *testing.T) {
	ctx := context.Background()
	settings := domain.IndexSettings{Backend: domain.IndexBackendSQLite, Path: t.TempDir()}

	idx, err := Open(ctx, settings, "m", 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx, []domain.EmbeddingRecord{{
		Segment: domain.Segment{ID: "a-1", DocumentID: "a.pdf", Page: 1, Text: "text"},
		Vector:  []float32{1, 0},
	}}))
	require.NoError(t, idx.Persist(ctx))
	require.NoError(t, idx.Close())

	same, err := Open(ctx, settings, "m", 2)
	require.NoError(t, err)
	require.NoError(t, same.Load(ctx))
	require.NoError(t, same.Close())

	other, err := Open(ctx, settings, "m", 3)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })
	assert.ErrorIs(t, other.Load(ctx), domain.ErrIndexMismatch)
}

func TestPgvectorTable(t *testing.T) {
	assert.Equal(t, "", pgvectorTable(""))
	assert.Equal(t, "edubridge_segments", pgvectorTable("edubridge"))
}
