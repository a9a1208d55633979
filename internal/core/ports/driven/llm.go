package driven

import "context"

// Generator produces answer text from a fully assembled prompt.
// The core treats it as an opaque generate(prompt) -> text capability.
//
// Implementations include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o family)
//   - Anthropic (Claude)
type Generator interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is an optional system prompt sent alongside the prompt.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ModelPuller downloads a model into a local inference server.
type ModelPuller interface {
	// Pull fetches the named model. progress, if set, receives each status line.
	Pull(ctx context.Context, model string, progress func(status string)) error
}
