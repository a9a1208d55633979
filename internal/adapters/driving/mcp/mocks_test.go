package mcp

import (
	"context"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

// mockTutorService is a mock implementation of driving.TutorService.
type mockTutorService struct {
	reply *domain.Reply
	err   error
	asked []string
}

func (m *mockTutorService) Ask(_ context.Context, input string) (*domain.Reply, error) {
	m.asked = append(m.asked, input)
	return m.reply, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	hits []domain.ScoredSegment
	err  error
	gotK int
}

func (m *mockRetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.Segment, error) {
	hits, err := m.RetrieveScored(ctx, query, k)
	segs := make([]domain.Segment, len(hits))
	for i, h := range hits {
		segs[i] = h.Segment
	}
	return segs, err
}

func (m *mockRetrievalService) RetrieveScored(_ context.Context, _ string, k int) ([]domain.ScoredSegment, error) {
	m.gotK = k
	return m.hits, m.err
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status *domain.Status
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.Status, error) {
	return m.status, m.err
}
