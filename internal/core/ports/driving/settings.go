package driving

import "github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single dotted key (e.g. "chunking.size") from its string form.
	Set(key, value string) error

	// Keys returns every settable key in display order.
	Keys() []string

	// Display formats the value of key for output, masking secrets.
	// Unknown keys yield an empty string.
	Display(settings *domain.AppSettings, key string) string

	// ApplyEnv records environment overrides that take precedence over stored values.
	// lookup has the signature of os.LookupEnv.
	ApplyEnv(lookup func(string) (string, bool))

	// Validate checks the current settings and joins every problem found.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
