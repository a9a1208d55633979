// Package pgvector provides a vector index stored in PostgreSQL with the
// pgvector extension. Writes go straight to the database, so Persist and
// Load only verify the stored model against the embedder.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTable is the segment table name.
const DefaultTable = "edubridge_segments"

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Config holds connection settings.
type Config struct {
	// DSN is the PostgreSQL connection string (required).
	DSN string

	// Table is the segment table name (default: edubridge_segments).
	Table string

	// Model is the embedding model the index is built with.
	Model string
}

// Index stores segments and vectors in PostgreSQL.
type Index struct {
	pool  *pgxpool.Pool
	dsn   string
	table string
	meta  string
	model string
}

// New connects to PostgreSQL and ensures the extension and metadata table exist.
// The segment table is created on the first Add, once the dimension is known.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector: %w: postgres DSN is required", domain.ErrVectorIndexUnavailable)
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if !tableName.MatchString(cfg.Table) {
		return nil, fmt.Errorf("pgvector: %w: table name %q", domain.ErrInvalidInput, cfg.Table)
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgvector: %w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector: %w: %w", domain.ErrVectorIndexUnavailable, err)
	}

	idx := &Index{
		pool:  pool,
		dsn:   cfg.DSN,
		table: cfg.Table,
		meta:  cfg.Table + "_meta",
		model: cfg.Model,
	}
	if err := idx.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) initialize(ctx context.Context) error {
	if _, err := idx.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("pgvector: create extension: %w", err)
	}
	_, err := idx.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			model TEXT NOT NULL,
			dimensions INTEGER NOT NULL
		)`, idx.meta))
	if err != nil {
		return fmt.Errorf("pgvector: create metadata table: %w", err)
	}
	return nil
}

// ensureTable creates the segment table for dims and records the metadata.
// An existing table of a different dimension is a mismatch.
func (idx *Index) ensureTable(ctx context.Context, tx pgx.Tx, dims int) error {
	model, stored, err := readMeta(ctx, tx, idx.meta)
	if err != nil {
		return err
	}
	if stored != 0 {
		if stored != dims {
			return fmt.Errorf("pgvector: %w: records have %d dimensions, index has %d",
				domain.ErrIndexMismatch, dims, stored)
		}
		if model != idx.model {
			return fmt.Errorf("pgvector: %w: index built with %s, embedder is %s",
				domain.ErrIndexMismatch, model, idx.model)
		}
		return nil
	}

	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, idx.table),
		fmt.Sprintf(`
			CREATE TABLE %s (
				seq BIGSERIAL PRIMARY KEY,
				id TEXT NOT NULL,
				document_id TEXT NOT NULL,
				page INTEGER NOT NULL,
				position INTEGER NOT NULL,
				start_offset INTEGER NOT NULL,
				end_offset INTEGER NOT NULL,
				content TEXT NOT NULL,
				embedding vector(%d) NOT NULL
			)`, idx.table, dims),
		fmt.Sprintf(`CREATE INDEX %s_document_idx ON %s (document_id)`, idx.table, idx.table),
		fmt.Sprintf(`CREATE INDEX %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`, idx.table, idx.table),
		fmt.Sprintf(`INSERT INTO %s (id, model, dimensions) VALUES (1, $1, $2)`, idx.meta),
	}
	for i, stmt := range stmts {
		args := []any{}
		if i == len(stmts)-1 {
			args = []any{idx.model, dims}
		}
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("pgvector: create segment table: %w", err)
		}
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// readMeta returns zero values when nothing has been stored yet.
func readMeta(ctx context.Context, q querier, table string) (string, int, error) {
	var model string
	var dims int
	err := q.QueryRow(ctx, fmt.Sprintf(`SELECT model, dimensions FROM %s WHERE id = 1`, table)).Scan(&model, &dims)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("pgvector: read metadata: %w", err)
	}
	return model, dims, nil
}

// Add inserts records in a single transaction.
func (idx *Index) Add(ctx context.Context, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return idx.Replace(ctx, domain.Replacement{Records: records})
}

// Replace removes and inserts inside one transaction, so a failed insert
// rolls the removal back.
func (idx *Index) Replace(ctx context.Context, r domain.Replacement) error {
	dims, err := recordDimensions(r.Records)
	if err != nil {
		return err
	}

	tx, err := idx.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgvector: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	switch {
	case r.All:
		for _, stmt := range idx.resetStatements() {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("pgvector: reset: %w", err)
			}
		}
	case len(r.Documents) > 0:
		_, stored, err := readMeta(ctx, tx, idx.meta)
		if err != nil {
			return err
		}
		if stored != 0 {
			stmt := fmt.Sprintf(`DELETE FROM %s WHERE document_id = ANY($1)`, idx.table)
			if _, err := tx.Exec(ctx, stmt, r.Documents); err != nil {
				return fmt.Errorf("pgvector: delete documents: %w", err)
			}
		}
	}

	if len(r.Records) > 0 {
		if err := idx.ensureTable(ctx, tx, dims); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		stmt := fmt.Sprintf(`
			INSERT INTO %s (id, document_id, page, position, start_offset, end_offset, content, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, idx.table)
		for _, rec := range r.Records {
			s := rec.Segment
			batch.Queue(stmt, s.ID, s.DocumentID, s.Page, s.Position, s.Start, s.End, s.Text, pgvector.NewVector(rec.Vector))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("pgvector: insert segments: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgvector: commit: %w", err)
	}
	return nil
}

// recordDimensions checks that every record carries a vector of one size.
func recordDimensions(records []domain.EmbeddingRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	dims := len(records[0].Vector)
	for i, r := range records {
		if len(r.Vector) == 0 {
			return 0, fmt.Errorf("pgvector: %w: record %d has no vector", domain.ErrInvalidInput, i)
		}
		if len(r.Vector) != dims {
			return 0, fmt.Errorf("pgvector: %w: record %d has %d dimensions, expected %d",
				domain.ErrIndexMismatch, i, len(r.Vector), dims)
		}
	}
	return dims, nil
}

// Query returns the k nearest segments by cosine distance.
func (idx *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredSegment, error) {
	if k <= 0 {
		return []domain.ScoredSegment{}, nil
	}
	_, dims, err := readMeta(ctx, idx.pool, idx.meta)
	if err != nil {
		return nil, err
	}
	if dims == 0 {
		return []domain.ScoredSegment{}, nil
	}
	if len(vector) != dims {
		return nil, fmt.Errorf("pgvector: %w: query has %d dimensions, index has %d",
			domain.ErrIndexMismatch, len(vector), dims)
	}

	rows, err := idx.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, document_id, page, position, start_offset, end_offset, content,
			1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, seq
		LIMIT $2`, idx.table), pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("pgvector: query: %w", err)
	}
	defer rows.Close()

	hits := []domain.ScoredSegment{}
	for rows.Next() {
		var h domain.ScoredSegment
		s := &h.Segment
		if err := rows.Scan(&s.ID, &s.DocumentID, &s.Page, &s.Position, &s.Start, &s.End, &s.Text, &h.Score); err != nil {
			return nil, fmt.Errorf("pgvector: scan row: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgvector: query: %w", err)
	}
	return hits, nil
}

// DeleteDocument removes every segment of documentID.
func (idx *Index) DeleteDocument(ctx context.Context, documentID string) error {
	return idx.Replace(ctx, domain.Replacement{Documents: []string{documentID}})
}

// Reset drops every segment and forgets the dimension.
func (idx *Index) Reset(ctx context.Context) error {
	return idx.Replace(ctx, domain.Replacement{All: true})
}

func (idx *Index) resetStatements() []string {
	return []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, idx.table),
		fmt.Sprintf(`DELETE FROM %s`, idx.meta),
	}
}

// Stats counts segments and lists documents.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats := domain.IndexStats{
		Backend:   string(domain.IndexBackendPgvector),
		Location:  redactDSN(idx.dsn),
		Documents: []string{},
		Model:     idx.model,
	}

	model, dims, err := readMeta(ctx, idx.pool, idx.meta)
	if err != nil || dims == 0 {
		return stats, err
	}
	stats.Dimensions = dims
	stats.Model = model

	rows, err := idx.pool.Query(ctx, fmt.Sprintf(
		`SELECT document_id, COUNT(*) FROM %s GROUP BY document_id`, idx.table))
	if err != nil {
		return stats, fmt.Errorf("pgvector: stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var doc string
		var n int
		if err := rows.Scan(&doc, &n); err != nil {
			return stats, fmt.Errorf("pgvector: stats: %w", err)
		}
		stats.Documents = append(stats.Documents, doc)
		stats.Records += n
	}
	sort.Strings(stats.Documents)
	return stats, rows.Err()
}

// Persist is a no-op: every Add is committed.
func (idx *Index) Persist(_ context.Context) error {
	return nil
}

// Load checks that the stored segments were built by the configured model.
func (idx *Index) Load(ctx context.Context) error {
	model, dims, err := readMeta(ctx, idx.pool, idx.meta)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexPersistence, err)
	}
	if dims != 0 && idx.model != "" && model != idx.model {
		return fmt.Errorf("pgvector: %w: index built with %s, embedder is %s",
			domain.ErrIndexMismatch, model, idx.model)
	}
	return nil
}

// Close releases the connection pool.
func (idx *Index) Close() error {
	idx.pool.Close()
	return nil
}

// redactDSN hides the password in a connection string.
func redactDSN(dsn string) string {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return "postgres"
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
}
