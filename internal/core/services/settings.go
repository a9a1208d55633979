package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driving"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// settingKey binds a dotted config key to a field of domain.AppSettings.
type settingKey struct {
	name string

	// env lists environment variables that override the stored value.
	env []string

	// secret keys are not written when empty and are masked for display.
	secret bool

	// parse applies the string form of a value to the settings.
	parse func(s *domain.AppSettings, value string) error

	// value returns the typed value stored in the config file.
	value func(s *domain.AppSettings) any
}

// settingKeys lists every settable key in display order.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
var settingKeys = []settingKey{
	{
		name:  "llm.provider",
		parse: func(s *domain.AppSettings, v string) error { return parseProvider(&s.LLM.Provider, v) },
		value: func(s *domain.AppSettings) any { return s.LLM.Provider.String() },
	},
	{
		name:  "llm.model",
		env:   []string{"OLLAMA_MODEL"},
		parse: func(s *domain.AppSettings, v string) error { s.LLM.Model = v; return nil },
		value: func(s *domain.AppSettings) any { return s.LLM.Model },
	},
	{
		name:  "llm.base_url",
		env:   []string{"OLLAMA_BASE_URL"},
		parse: func(s *domain.AppSettings, v string) error { s.LLM.BaseURL = v; return nil },
		value: func(s *domain.AppSettings) any { return s.LLM.BaseURL },
	},
	{
		name:   "llm.api_key",
		secret: true,
		parse:  func(s *domain.AppSettings, v string) error { s.LLM.APIKey = v; return nil },
		value:  func(s *domain.AppSettings) any { return s.LLM.APIKey },
	},
	{
		name:  "llm.temperature",
		env:   []string{"TEMPERATURE"},
		parse: func(s *domain.AppSettings, v string) error { return parseFloat(&s.LLM.Temperature, v) },
		value: func(s *domain.AppSettings) any { return s.LLM.Temperature },
	},
	{
		name:  "llm.max_tokens",
		parse: func(s *domain.AppSettings, v string) error { return parseInt(&s.LLM.MaxTokens, v) },
		value: func(s *domain.AppSettings) any { return s.LLM.MaxTokens },
	},
	{
		name:  "llm.timeout",
		parse: func(s *domain.AppSettings, v string) error { return parseDuration(&s.LLM.Timeout, v) },
		value: func(s *domain.AppSettings) any { return s.LLM.Timeout.String() },
	},
	{
		name:  "embedding.provider",
		parse: func(s *domain.AppSettings, v string) error { return parseProvider(&s.Embedding.Provider, v) },
		value: func(s *domain.AppSettings) any { return s.Embedding.Provider.String() },
	},
	{
		name:  "embedding.model",
		parse: func(s *domain.AppSettings, v string) error { s.Embedding.Model = v; return nil },
		value: func(s *domain.AppSettings) any { return s.Embedding.Model },
	},
	{
		name:  "embedding.base_url",
		env:   []string{"OLLAMA_BASE_URL"},
		parse: func(s *domain.AppSettings, v string) error { s.Embedding.BaseURL = v; return nil },
		value: func(s *domain.AppSettings) any { return s.Embedding.BaseURL },
	},
	{
		name:   "embedding.api_key",
		secret: true,
		parse:  func(s *domain.AppSettings, v string) error { s.Embedding.APIKey = v; return nil },
		value:  func(s *domain.AppSettings) any { return s.Embedding.APIKey },
	},
	{
		name:  "embedding.dimensions",
		parse: func(s *domain.AppSettings, v string) error { return parseInt(&s.Embedding.Dimensions, v) },
		value: func(s *domain.AppSettings) any { return s.Embedding.Dimensions },
	},
	{
		name: "embedding.requests_per_second",
		parse: func(s *domain.AppSettings, v string) error {
			return parseFloat(&s.Embedding.RequestsPerSecond, v)
		},
		value: func(s *domain.AppSettings) any { return s.Embedding.RequestsPerSecond },
	},
	{
		name:  "chunking.size",
		env:   []string{"CHUNK_SIZE"},
		parse: func(s *domain.AppSettings, v string) error { return parseInt(&s.Chunking.Size, v) },
		value: func(s *domain.AppSettings) any { return s.Chunking.Size },
	},
	{
		name:  "chunking.overlap",
		env:   []string{"CHUNK_OVERLAP"},
		parse: func(s *domain.AppSettings, v string) error { return parseInt(&s.Chunking.Overlap, v) },
		value: func(s *domain.AppSettings) any { return s.Chunking.Overlap },
	},
	{
		name:  "chunking.min_length",
		parse: func(s *domain.AppSettings, v string) error { return parseInt(&s.Chunking.MinLength, v) },
		value: func(s *domain.AppSettings) any { return s.Chunking.MinLength },
	},
	{
		name:  "retrieval.top_k",
		env:   []string{"MAX_CONTEXT_DOCS"},
		parse: func(s *domain.AppSettings, v string) error { return parseInt(&s.Retrieval.TopK, v) },
		value: func(s *domain.AppSettings) any { return s.Retrieval.TopK },
	},
	{
		name: "retrieval.min_similarity",
		parse: func(s *domain.AppSettings, v string) error {
			return parseFloat(&s.Retrieval.MinSimilarity, v)
		},
		value: func(s *domain.AppSettings) any { return s.Retrieval.MinSimilarity },
	},
	{
		name: "index.backend",
		env:  []string{"EDUBRIDGE_INDEX_BACKEND"},
		parse: func(s *domain.AppSettings, v string) error {
			b := domain.IndexBackend(strings.ToLower(v))
			if !b.IsValid() {
				return fmt.Errorf("%w: index backend %q", domain.ErrUnsupportedType, v)
			}
			s.Index.Backend = b
			return nil
		},
		value: func(s *domain.AppSettings) any { return s.Index.Backend.String() },
	},
	{
		name:  "index.path",
		env:   []string{"VECTOR_STORE_PATH"},
		parse: func(s *domain.AppSettings, v string) error { s.Index.Path = v; return nil },
		value: func(s *domain.AppSettings) any { return s.Index.Path },
	},
	{
		name:   "index.postgres_dsn",
		env:    []string{"EDUBRIDGE_POSTGRES_DSN"},
		secret: true,
		parse:  func(s *domain.AppSettings, v string) error { s.Index.PostgresDSN = v; return nil },
		value:  func(s *domain.AppSettings) any { return s.Index.PostgresDSN },
	},
	{
		name:  "index.qdrant_host",
		parse: func(s *domain.AppSettings, v string) error { s.Index.QdrantHost = v; return nil },
		value: func(s *domain.AppSettings) any { return s.Index.QdrantHost },
	},
	{
		name:  "index.qdrant_port",
		parse: func(s *domain.AppSettings, v string) error { return parseInt(&s.Index.QdrantPort, v) },
		value: func(s *domain.AppSettings) any { return s.Index.QdrantPort },
	},
	{
		name:  "index.collection",
		parse: func(s *domain.AppSettings, v string) error { s.Index.Collection = v; return nil },
		value: func(s *domain.AppSettings) any { return s.Index.Collection },
	},
	{
		name:  "ocr.enabled",
		parse: func(s *domain.AppSettings, v string) error { return parseBool(&s.OCR.Enabled, v) },
		value: func(s *domain.AppSettings) any { return s.OCR.Enabled },
	},
	{
		name:  "ocr.scale",
		parse: func(s *domain.AppSettings, v string) error { return parseFloat(&s.OCR.Scale, v) },
		value: func(s *domain.AppSettings) any { return s.OCR.Scale },
	},
	{
		name:  "ocr.language",
		parse: func(s *domain.AppSettings, v string) error { s.OCR.Language = v; return nil },
		value: func(s *domain.AppSettings) any { return s.OCR.Language },
	},
	{
		name:  "answer.strict",
		parse: func(s *domain.AppSettings, v string) error { return parseBool(&s.Answer.Strict, v) },
		value: func(s *domain.AppSettings) any { return s.Answer.Strict },
	},
	{
		name:  "library.dir",
		parse: func(s *domain.AppSettings, v string) error { s.LibraryDir = v; return nil },
		value: func(s *domain.AppSettings) any { return s.LibraryDir },
	},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	providers   driven.ProviderChecker

	mu  sync.RWMutex
	env map[string]string
}

// NewSettingsService creates a new settings service.
// providers may be nil, in which case provider checks always pass.
func NewSettingsService(configStore driven.ConfigStore, providers driven.ProviderChecker) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		providers:   providers,
		env:         make(map[string]string),
	}
}

// ApplyEnv records environment overrides for every key that has one.
func (s *SettingsService) ApplyEnv(lookup func(string) (string, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range settingKeys {
		for _, name := range k.env {
			if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
				s.env[k.name] = strings.TrimSpace(v)
				logger.Debug("settings: %s overridden by $%s", k.name, name)
			}
		}
	}
}

// Get retrieves current application settings.
// Stored values that do not parse fall back to the default for that key.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	for _, k := range settingKeys {
		raw, ok := s.configStore.Get(k.name)
		if !ok {
			continue
		}
		str := fmt.Sprint(raw)
		if str == "" {
			continue
		}
		if err := k.parse(&settings, str); err != nil {
			logger.Warn("settings: ignoring %s: %v", k.name, err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range settingKeys {
		if v, ok := s.env[k.name]; ok {
			if err := k.parse(&settings, v); err != nil {
				logger.Warn("settings: ignoring environment override for %s: %v", k.name, err)
			}
		}
	}

	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	for _, k := range settingKeys {
		v := k.value(settings)
		if k.secret && v == "" {
			continue
		}
		if err := s.configStore.Set(k.name, v); err != nil {
			return fmt.Errorf("save %s: %w", k.name, err)
		}
	}
	return nil
}

// Set updates one key from its string form. The value must parse and the
// resulting settings must still validate.
func (s *SettingsService) Set(key, value string) error {
	k, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)", domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if err := k.parse(settings, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if errs := settings.Validate(); len(errs) > 0 {
		return errors.Join(errs...)
	}

	if err := s.configStore.Set(key, k.value(settings)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.name
	}
	return keys
}

// Display returns the value of key formatted for output, masking secrets.
func (s *SettingsService) Display(settings *domain.AppSettings, key string) string {
	k, ok := lookupKey(key)
	if !ok {
		return ""
	}
	str := fmt.Sprint(k.value(settings))
	if k.secret && str != "" {
		return maskSecret(str)
	}
	return str
}

// Validate checks the current settings and joins every problem found.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return errors.Join(settings.Validate()...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.providers == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.providers.CheckEmbedder(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.providers == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.providers.CheckGenerator(&settings.LLM)
}

func lookupKey(name string) (settingKey, bool) {
	for _, k := range settingKeys {
		if k.name == name {
			return k, true
		}
	}
	return settingKey{}, false
}

// Helper parsers for string values.

func parseProvider(dst *domain.AIProvider, v string) error {
	p := domain.AIProvider(strings.ToLower(v))
	if !p.IsValid() {
		return fmt.Errorf("%w: provider %q", domain.ErrUnsupportedType, v)
	}
	*dst = p
	return nil
}

func parseInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, v)
	}
	*dst = n
	return nil
}

func parseFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, v)
	}
	*dst = f
	return nil
}

func parseBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidInput, v)
	}
	*dst = b
	return nil
}

func parseDuration(dst *time.Duration, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a duration", domain.ErrInvalidInput, v)
	}
	*dst = d
	return nil
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
