package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/observability"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// maxIngestWorkers caps how many files are prepared at once.
const maxIngestWorkers = 4

// IngestService extracts, chunks and embeds PDFs into the vector index.
type IngestService struct {
	extractor driven.TextExtractor
	pipeline  driven.SegmentPipeline
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	workers   int

	// mu serialises loads so index replacement is never interleaved.
	mu sync.Mutex
	now func() time.Time
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithWorkers sets how many files are prepared concurrently.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractor driven.TextExtractor,
	pipeline driven.SegmentPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		workers:   min(runtime.NumCPU(), maxIngestWorkers),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// prepared is a document ready to be added to the index.
type prepared struct {
	summary domain.DocumentSummary
	records []domain.EmbeddingRecord
}

// Load ingests path, which may be a PDF file or a directory of PDFs.
func (s *IngestService) Load(
	ctx context.Context, path string, opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	path = cleanPath(path)
	info, err := os.Stat(path)
	if err != nil {
		return failed(path, fmt.Errorf("%w: %s", domain.ErrPathNotFound, path))
	}
	if info.IsDir() {
		return s.LoadDirectory(ctx, path, opts)
	}
	return s.LoadFile(ctx, path, opts)
}

// LoadFile ingests a single PDF.
func (s *IngestService) LoadFile(
	ctx context.Context, path string, opts domain.IngestOptions,
) (_ *domain.IngestResult, err error) {
	path = cleanPath(path)
	ctx, span := observability.StartSpan(ctx, "ingest.file", attribute.String("ingest.path", path))
	defer func() { observability.EndSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Load File")
	doc, perr := s.prepare(ctx, path)
	if opts.Progress != nil {
		opts.Progress(path, 1, 1)
	}
	if perr != nil {
		return failed(path, perr)
	}

	result := &domain.IngestResult{Files: 1}
	return result, s.commit(ctx, result, []*prepared{doc}, opts.Accumulate)
}

// LoadDirectory ingests every *.pdf directly inside dir in file name order.
func (s *IngestService) LoadDirectory(
	ctx context.Context, dir string, opts domain.IngestOptions,
) (_ *domain.IngestResult, err error) {
	dir = cleanPath(dir)
	ctx, span := observability.StartSpan(ctx, "ingest.directory", attribute.String("ingest.path", dir))
	defer func() { observability.EndSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Load Directory")
	paths, err := listPDFs(dir)
	if err != nil {
		return &domain.IngestResult{}, err
	}
	if len(paths) == 0 {
		return &domain.IngestResult{}, fmt.Errorf("%w in %s", domain.ErrNoDocuments, dir)
	}
	logger.Debug("Found %d PDF files in %s", len(paths), dir)
	span.SetAttributes(attribute.Int("ingest.files", len(paths)))

	docs := make([]*prepared, len(paths))
	errs := make([]error, len(paths))

	var (
		progressMu sync.Mutex
		done       int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			docs[i], errs[i] = s.prepare(gctx, path)
			if opts.Progress != nil {
				progressMu.Lock()
				done++
				opts.Progress(path, done, len(paths))
				progressMu.Unlock()
			}
			// A bad file is recorded, not fatal to its siblings.
			if errors.Is(errs[i], context.Canceled) || errors.Is(errs[i], context.DeadlineExceeded) {
				return errs[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &domain.IngestResult{Files: len(paths)}, err
	}

	result := &domain.IngestResult{Files: len(paths)}
	var ready []*prepared
	for i, path := range paths {
		if errs[i] != nil {
			result.Failures = append(result.Failures, failure(path, errs[i]))
			continue
		}
		ready = append(ready, docs[i])
	}
	if len(ready) == 0 {
		return result, fmt.Errorf("no document in %s could be loaded: %w", dir, result.Failures[0].Err)
	}

	return result, s.commit(ctx, result, ready, opts.Accumulate)
}

// prepare extracts, chunks and embeds one file without touching the index.
func (s *IngestService) prepare(ctx context.Context, path string) (*prepared, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	id := filepath.Base(abs)

	done := logger.Stage("extract %s", id)
	pages, err := s.extractor.Extract(ctx, abs)
	done()
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{ID: id, Path: abs, Pages: pages, LoadedAt: s.now()}
	segments, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrNoSegments)
	}

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	done = logger.Stage("embed %d segments of %s", len(segments), id)
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	done()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrEmbedding, id, err)
	}
	if len(vectors) != len(segments) {
		return nil, fmt.Errorf("%w: %s: got %d vectors for %d segments",
			domain.ErrEmbedding, id, len(vectors), len(segments))
	}

	records := make([]domain.EmbeddingRecord, len(segments))
	for i, seg := range segments {
		records[i] = domain.EmbeddingRecord{Segment: seg, Vector: vectors[i]}
	}

	logger.Debug("%s: %d pages (%d OCR), %d segments", id, doc.PageCount(), doc.OCRPages(), len(segments))
	return &prepared{
		summary: domain.DocumentSummary{
			ID:        id,
			Pages:     doc.PageCount(),
			TextPages: doc.TextPages(),
			OCRPages:  doc.OCRPages(),
			Segments:  len(segments),
		},
		records: records,
	}, nil
}

// commit writes prepared documents to the index and persists it.
// Without accumulate the index is replaced; with it, reloaded documents
// supersede their previous segments. The swap is a single Replace, so a
// failed write keeps what was indexed before.
func (s *IngestService) commit(
	ctx context.Context, result *domain.IngestResult, docs []*prepared, accumulate bool,
) error {
	change := domain.Replacement{All: !accumulate}
	for _, d := range docs {
		if accumulate {
			change.Documents = append(change.Documents, d.summary.ID)
		}
		change.Records = append(change.Records, d.records...)
	}

	done := logger.Stage("index %d segments", len(change.Records))
	err := s.index.Replace(ctx, change)
	done()
	if err != nil {
		return fmt.Errorf("update index: %w", err)
	}

	for _, d := range docs {
		result.Documents = append(result.Documents, d.summary)
		result.Segments += d.summary.Segments
	}
	result.Success = len(result.Failures) == 0

	if err := s.index.Persist(ctx); err != nil {
		result.Success = false
		return fmt.Errorf("%w: %w", domain.ErrIndexPersistence, err)
	}
	return nil
}

// listPDFs returns the *.pdf files directly inside dir, sorted by name.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func failed(path string, err error) (*domain.IngestResult, error) {
	return &domain.IngestResult{
		Files:    1,
		Failures: []domain.IngestFailure{failure(path, err)},
	}, err
}

func failure(path string, err error) domain.IngestFailure {
	return domain.IngestFailure{Path: path, Reason: err.Error(), Err: err}
}

// cleanPath trims whitespace and the quotes left by drag-and-drop into a terminal.
func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		if (path[0] == '"' && path[len(path)-1] == '"') || (path[0] == '\'' && path[len(path)-1] == '\'') {
			path = path[1 : len(path)-1]
		}
	}
	return path
}
