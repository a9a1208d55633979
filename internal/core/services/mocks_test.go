package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// mockEmbeddingService returns fixed vectors keyed by text.
type mockEmbeddingService struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dims    int
	err     error
	calls   int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, m.dims)
	if m.dims > 0 {
		v[0] = 1
	}
	return v, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return m.dims }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return m.err }
func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex returns canned hits and records mutations.
type mockVectorIndex struct {
	mu         sync.Mutex
	stats      domain.IndexStats
	hits       []domain.ScoredSegment
	queryErr   error
	statsErr   error
	persistErr error
	replaceErr error
	added      []domain.EmbeddingRecord
	deleted    []string
	resets     int
	persists   int
	gotK       int
}

func (m *mockVectorIndex) Add(_ context.Context, records []domain.EmbeddingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, records...)
	m.stats.Records += len(records)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, k int) ([]domain.ScoredSegment, error) {
	m.gotK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockVectorIndex) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.added = nil
	m.stats.Records = 0
	return nil
}

// Replace applies r unless replaceErr is set, in which case nothing changes.
func (m *mockVectorIndex) Replace(_ context.Context, r domain.Replacement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if r.All {
		m.resets++
		m.added = nil
		m.stats.Records = 0
	}
	m.deleted = append(m.deleted, r.Documents...)
	m.added = append(m.added, r.Records...)
	m.stats.Records += len(r.Records)
	return nil
}

func (m *mockVectorIndex) Stats(context.Context) (domain.IndexStats, error) {
	return m.stats, m.statsErr
}

func (m *mockVectorIndex) Persist(context.Context) error {
	m.persists++
	return m.persistErr
}

func (m *mockVectorIndex) Load(context.Context) error { return nil }
func (m *mockVectorIndex) Close() error { return nil }

// spyGenerator records every prompt it is asked to complete.
type spyGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	pingErr  error
	panicMsg string
	prompts  []string
	opts     []driven.GenerateOptions
}

func (g *spyGenerator) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.opts = append(g.opts, opts)
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	return g.response, g.err
}

func (g *spyGenerator) ModelName() string { return "spy-model" }
func (g *spyGenerator) Ping(context.Context) error { return g.pingErr }
func (g *spyGenerator) Close() error { return nil }

func (g *spyGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// stubPrompts serves fixed templates.
type stubPrompts map[string]string

func (p stubPrompts) Load(name string) (string, error) {
	if t, ok := p[name]; ok {
		return t, nil
	}
	return "", errors.New("no such prompt")
}

func (p stubPrompts) Reload() {}

// stubExtractor returns pages or an error keyed by file name.
type stubExtractor struct {
	pages map[string][]domain.Page
	errs  map[string]error
}

func (e *stubExtractor) Extract(_ context.Context, path string) ([]domain.Page, error) {
	name := filepath.Base(path)
	if err, ok := e.errs[name]; ok {
		return nil, err
	}
	if pages, ok := e.pages[name]; ok {
		return pages, nil
	}
	return nil, domain.ErrCorruptPDF
}

// stubPuller records pulled models.
type stubPuller struct {
	pulled []string
	err    error
}

func (p *stubPuller) Pull(_ context.Context, model string, progress func(string)) error {
	p.pulled = append(p.pulled, model)
	if progress != nil {
		progress("success")
	}
	return p.err
}

type stubOCR bool

func (o stubOCR) OCRAvailable() bool { return bool(o) }

func seg(doc string, page, pos int, text string) domain.Segment {
	return domain.Segment{
		ID:         fmt.Sprintf("%s/%d/%d", doc, page, pos),
		DocumentID: doc,
		Page:       page,
		Position:   pos,
		Text:       text,
	}
}
