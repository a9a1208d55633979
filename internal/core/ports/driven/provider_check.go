package driven

import "github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"

// ProviderChecker confirms that the configured embedding and answer
// providers respond. A provider that is not configured passes.
type ProviderChecker interface {
	// CheckEmbedder reports whether the embedding provider in settings can
	// serve vectors. The offline hashing embedder always can.
	CheckEmbedder(settings *domain.EmbeddingSettings) error

	// CheckGenerator reports whether the answer model in settings is reachable.
	CheckGenerator(settings *domain.LLMSettings) error
}
