// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"
	"time"

	hashingembed "github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/llm/ollama"
	openaillm "github.com/sathvika-palakurthi-7/edu-bridge/internal/adapters/driven/llm/openai"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// fixHint is appended to configuration errors.
const fixHint = "Run 'edubridge settings show' to review and 'edubridge settings set' to fix"

// InitResult contains the AI services built from settings.
type InitResult struct {
	Embedder  driven.EmbeddingService
	Generator driven.Generator

	// Puller is set when the generator can download models.
	Puller driven.ModelPuller
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Embedder != nil {
		r.Embedder.Close()
	}
	if r.Generator != nil {
		r.Generator.Close()
	}
}

// Init creates the embedder and generator without contacting them.
// Reachability is reported by status and surfaced per question, so an
// offline generator never blocks loading documents.
func Init(settings *domain.AppSettings) (*InitResult, error) {
	embedder, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, fixHint)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding.provider %q is not configured. %s",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider, fixHint)
	}

	generator, err := CreateGenerator(&settings.LLM)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, fixHint)
	}
	if generator == nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: llm.provider %q is not configured. %s",
			domain.ErrLLMUnavailable, settings.LLM.Provider, fixHint)
	}

	result := &InitResult{Embedder: embedder, Generator: generator}
	if puller, ok := generator.(driven.ModelPuller); ok {
		result.Puller = puller
	}
	return result, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama, openai or hashing")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderHashing:
		return hashingembed.NewEmbeddingService(settings.Dimensions), nil

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateGenerator creates the appropriate generator based on settings.
// Returns nil if the provider is not configured.
func CreateGenerator(settings *domain.LLMSettings) (driven.Generator, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderHashing {
		return nil, fmt.Errorf("hashing is an embedding provider, use ollama, openai or anthropic")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:           settings.BaseURL,
		Model:             settings.Model,
		Dimensions:        settings.Dimensions,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		Model:             settings.Model,
		Dimensions:        settings.Dimensions,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.Generator {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.Generator, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.Generator, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}
