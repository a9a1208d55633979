package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

var _ driven.ProviderChecker = (*ProviderChecker)(nil)

// ProviderChecker builds each configured service and pings it.
type ProviderChecker struct {
	timeout time.Duration
}

// NewProviderChecker creates a checker that waits pingTimeout per provider.
func NewProviderChecker() *ProviderChecker {
	return &ProviderChecker{timeout: pingTimeout}
}

// CheckEmbedder implements driven.ProviderChecker.
func (c *ProviderChecker) CheckEmbedder(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("%w. %s", err, fixHint)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	if settings.Provider == domain.AIProviderHashing {
		return nil
	}
	return c.ping(svc.Ping, "embedding", settings.Provider, settings.Model, settings.BaseURL)
}

// CheckGenerator implements driven.ProviderChecker.
func (c *ProviderChecker) CheckGenerator(settings *domain.LLMSettings) error {
	svc, err := CreateGenerator(settings)
	if err != nil {
		return fmt.Errorf("%w. %s", err, fixHint)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	return c.ping(svc.Ping, "llm", settings.Provider, settings.Model, settings.BaseURL)
}

func (c *ProviderChecker) ping(
	ping func(context.Context) error,
	prefix string,
	provider domain.AIProvider,
	model, baseURL string,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		return fmt.Errorf("%s for %s is unreachable: %w. %s",
			provider.Description(), model, err, unreachableHint(prefix, provider, baseURL))
	}
	return nil
}

// unreachableHint tells the user what to try when provider does not answer.
func unreachableHint(prefix string, provider domain.AIProvider, baseURL string) string {
	switch provider {
	case domain.AIProviderOllama:
		if baseURL == "" {
			return fmt.Sprintf("Start Ollama with 'ollama serve' or set %s.base_url", prefix)
		}
		return fmt.Sprintf("Start Ollama with 'ollama serve' or fix %s.base_url (now %s)", prefix, baseURL)
	case domain.AIProviderOpenAI, domain.AIProviderAnthropic:
		return fmt.Sprintf("Check %s.api_key and %s.base_url with 'edubridge settings show'", prefix, prefix)
	default:
		return fixHint
	}
}
