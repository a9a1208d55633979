package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexSnapshotStore = (*Store)(nil)

// dbFile is the database file name inside the data directory.
const dbFile = "index.db"

// Store persists vector index snapshots in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.edubridge/vectorstore/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".edubridge", "vectorstore")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the database file path.
func (s *Store) Location() string {
	return s.path
}

// Save replaces the stored snapshot in a single transaction.
func (s *Store) Save(ctx context.Context, snapshot domain.IndexSnapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", domain.ErrIndexPersistence, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM segments`); err != nil {
		return fmt.Errorf("%w: clearing segments: %w", domain.ErrIndexPersistence, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM index_meta`); err != nil {
		return fmt.Errorf("%w: clearing metadata: %w", domain.ErrIndexPersistence, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO index_meta (id, model, dimensions, records, saved_at)
		VALUES (1, ?, ?, ?, ?)
	`, snapshot.Model, snapshot.Dimensions, len(snapshot.Records), s.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: saving metadata: %w", domain.ErrIndexPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segments (seq, id, document_id, page, position, start_offset, end_offset, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %w", domain.ErrIndexPersistence, err)
	}
	defer stmt.Close()

	for i, rec := range snapshot.Records {
		seg := rec.Segment
		_, err = stmt.ExecContext(ctx, i, seg.ID, seg.DocumentID, seg.Page, seg.Position,
			seg.Start, seg.End, seg.Text, float32SliceToBytes(rec.Vector))
		if err != nil {
			return fmt.Errorf("%w: saving segment %s: %w", domain.ErrIndexPersistence, seg.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrIndexPersistence, err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when none has been saved.
// Records come back in the order they were saved.
func (s *Store) Load(ctx context.Context) (*domain.IndexSnapshot, error) {
	var snap domain.IndexSnapshot
	var records int
	err := s.db.QueryRowContext(ctx, `SELECT model, dimensions, records FROM index_meta WHERE id = 1`).
		Scan(&snap.Model, &snap.Dimensions, &records)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading metadata: %w", domain.ErrIndexPersistence, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, page, position, start_offset, end_offset, text, embedding
		FROM segments ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying segments: %w", domain.ErrIndexPersistence, err)
	}
	defer rows.Close()

	snap.Records = make([]domain.EmbeddingRecord, 0, records)
	for rows.Next() {
		var rec domain.EmbeddingRecord
		var blob []byte
		seg := &rec.Segment
		if err := rows.Scan(&seg.ID, &seg.DocumentID, &seg.Page, &seg.Position,
			&seg.Start, &seg.End, &seg.Text, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning segment: %w", domain.ErrIndexPersistence, err)
		}
		if len(blob)%4 != 0 {
			return nil, fmt.Errorf("%w: segment %s has a truncated vector", domain.ErrIndexPersistence, seg.ID)
		}
		rec.Vector = bytesToFloat32Slice(blob)
		if snap.Dimensions > 0 && len(rec.Vector) != snap.Dimensions {
			return nil, fmt.Errorf("%w: segment %s has %d dimensions, snapshot has %d",
				domain.ErrIndexPersistence, seg.ID, len(rec.Vector), snap.Dimensions)
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating segments: %w", domain.ErrIndexPersistence, err)
	}
	if len(snap.Records) != records {
		return nil, fmt.Errorf("%w: expected %d records, found %d",
			domain.ErrIndexPersistence, records, len(snap.Records))
	}

	return &snap, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
