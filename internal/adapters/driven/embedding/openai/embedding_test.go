package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

func newService(t *testing.T, handler http.HandlerFunc, cfg Config) *EmbeddingService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "sk-test"
	}
	s, err := NewEmbeddingService(cfg)
	require.NoError(t, err)
	return s
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewEmbeddingService_Dimensions(t *testing.T) {
	tests := []struct {
		model string
		dims  int
		want  int
	}{
		{"text-embedding-3-small", 0, 1536},
		{"text-embedding-3-large", 0, 3072},
		{"text-embedding-3-large", 256, 256},
		{"something-else", 0, 1536},
	}
	for _, tt := range tests {
		s, err := NewEmbeddingService(Config{APIKey: "k", Model: tt.model, Dimensions: tt.dims})
		require.NoError(t, err)
		assert.Equal(t, tt.want, s.Dimensions(), tt.model)
	}
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	var got embeddingRequest
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0,1]},
			{"index":0,"embedding":[1,0]}
		]}`))
	}, Config{Model: "text-embedding-3-small", Dimensions: 2})

	vecs, err := s.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
	assert.Equal(t, []string{"first", "second"}, got.Input)
	assert.Equal(t, 2, got.Dimensions)
}

func TestEmbed_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"api error", `{"error":{"message":"bad key","type":"auth"}}`, http.StatusUnauthorized},
		{"status without error body", `{}`, http.StatusBadGateway},
		{"no data", `{"data":[]}`, http.StatusOK},
		{"index out of range", `{"data":[{"index":4,"embedding":[1]}]}`, http.StatusOK},
		{"not json", `<html>`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}, Config{})
			_, err := s.Embed(context.Background(), "text")
			assert.ErrorIs(t, err, domain.ErrEmbedding)
		})
	}
}

func TestEmbedBatch_EmptyText(t *testing.T) {
	s := newService(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	}, Config{})

	_, err := s.EmbedBatch(context.Background(), []string{"ok", " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	vecs, err := s.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestPing(t *testing.T) {
	s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid api key"))
	}, Config{})

	err := s.Ping(context.Background())
	assert.ErrorContains(t, err, "status 401")
	assert.NoError(t, s.Close())
}
