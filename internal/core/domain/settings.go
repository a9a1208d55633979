package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// IndexBackend identifies where the vector index lives.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendSQLite keeps vectors in memory and snapshots them to SQLite.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendMemory keeps vectors in memory only.
	IndexBackendMemory IndexBackend = "memory"

	// IndexBackendPgvector stores vectors in PostgreSQL with pgvector.
	IndexBackendPgvector IndexBackend = "pgvector"

	// IndexBackendQdrant stores vectors in a Qdrant collection.
	IndexBackendQdrant IndexBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendSQLite, IndexBackendMemory, IndexBackendPgvector, IndexBackendQdrant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// LLMSettings holds generator provider configuration.
type LLMSettings struct {
	// Provider is the generator service provider.
	Provider AIProvider

	// Model is the generator model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature controls randomness of answers.
	Temperature float64

	// MaxTokens caps the answer length. Zero uses the provider default.
	MaxTokens int

	// Timeout bounds a single generation request.
	Timeout time.Duration
}

// IsConfigured returns true if the generator provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's known vector size.
	Dimensions int

	// RequestsPerSecond throttles embedding calls. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings bounds segment sizes.
type ChunkingSettings struct {
	// Size is the maximum segment length in characters.
	Size int

	// Overlap is the number of trailing characters repeated at the start
	// of the next segment.
	Overlap int

	// MinLength drops segments whose trimmed text is shorter than this.
	MinLength int
}

// RetrievalSettings controls how many segments ground an answer.
type RetrievalSettings struct {
	// TopK is the number of segments retrieved per question.
	TopK int

	// MinSimilarity is the floor a hit must exceed to be kept.
	MinSimilarity float64
}

// IndexSettings selects and locates the vector index.
type IndexSettings struct {
	Backend IndexBackend

	// Path is the directory the sqlite backend persists under.
	Path string

	// PostgresDSN is the connection string for the pgvector backend.
	PostgresDSN string

	// QdrantHost and QdrantPort address the qdrant backend.
	QdrantHost string
	QdrantPort int

	// Collection is the table or collection name for remote backends.
	Collection string
}

// OCRSettings controls the optical recognition fallback.
type OCRSettings struct {
	Enabled bool

	// Scale is the render multiplier over 72 dpi.
	Scale float64

	// Language is the tesseract language code.
	Language string
}

// AnswerSettings controls answer normalisation.
type AnswerSettings struct {
	// Strict also maps quoted, punctuated and "Answer: Not Found" replies
	// to the sentinel.
	Strict bool
}

// AppSettings holds all application settings.
// It is built once at startup and passed into constructors.
type AppSettings struct {
	LLM       LLMSettings
	Embedding EmbeddingSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Index     IndexSettings
	OCR       OCRSettings
	Answer    AnswerSettings

	// LibraryDir is loaded when `load` is given no path.
	LibraryDir string
}

// Validate returns every problem found in the settings.
func (s AppSettings) Validate() []error {
	var errs []error
	if !s.LLM.Provider.IsValid() || s.LLM.Provider == AIProviderHashing {
		errs = append(errs, fmt.Errorf("%w: llm.provider %q", ErrUnsupportedType, s.LLM.Provider))
	}
	if !s.Embedding.Provider.IsValid() || s.Embedding.Provider == AIProviderAnthropic {
		errs = append(errs, fmt.Errorf("%w: embedding.provider %q", ErrUnsupportedType, s.Embedding.Provider))
	}
	if !s.Index.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("%w: index.backend %q", ErrUnsupportedType, s.Index.Backend))
	}
	if s.Chunking.Size <= 0 {
		errs = append(errs, fmt.Errorf("%w: chunking.size must be positive", ErrInvalidInput))
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		errs = append(errs, fmt.Errorf("%w: chunking.overlap must be in [0, chunking.size)", ErrInvalidInput))
	}
	if s.Retrieval.TopK <= 0 {
		errs = append(errs, fmt.Errorf("%w: retrieval.top_k must be positive", ErrInvalidInput))
	}
	if s.Retrieval.MinSimilarity < 0 {
		errs = append(errs, fmt.Errorf("%w: retrieval.min_similarity must not be negative", ErrInvalidInput))
	}
	if s.OCR.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: ocr.scale must be positive", ErrInvalidInput))
	}
	if s.Index.Backend == IndexBackendPgvector && s.Index.PostgresDSN == "" {
		errs = append(errs, fmt.Errorf("%w: index.postgres_dsn is required for pgvector", ErrInvalidInput))
	}
	if s.Index.Backend == IndexBackendQdrant && s.Index.QdrantHost == "" {
		errs = append(errs, fmt.Errorf("%w: index.qdrant_host is required for qdrant", ErrInvalidInput))
	}
	return errs
}

// DefaultAppSettings returns settings matching a stock local Ollama install.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       "llama3.2:1b",
			BaseURL:     "http://localhost:11434",
			Temperature: 0.1,
			Timeout:     120 * time.Second,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
		},
		Chunking: ChunkingSettings{
			Size:      1000,
			Overlap:   200,
			MinLength: 1,
		},
		Retrieval: RetrievalSettings{
			TopK:          3,
			MinSimilarity: 0,
		},
		Index: IndexSettings{
			Backend:    IndexBackendSQLite,
			QdrantPort: 6334,
			Collection: "edubridge",
		},
		OCR: OCRSettings{
			Enabled:  true,
			Scale:    2,
			Language: "eng",
		},
		Answer: AnswerSettings{
			Strict: true,
		},
		LibraryDir: "src/syllabus",
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHashing,
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each generator provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2:1b",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
