package postprocessors

import (
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/postprocessors/chunker"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/postprocessors/minlength"
)

// DefaultOrder is the processor order used by NewDefaultPipeline.
var DefaultOrder = []string{"chunker", "minlength"}

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("minlength", buildMinLength)
}

// NewDefaultPipeline builds the chunker and minlength pipeline from settings.
func NewDefaultPipeline(settings domain.ChunkingSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(DefaultOrder, map[string]map[string]any{
		"chunker": {
			"chunk_size": settings.Size,
			"overlap":    settings.Overlap,
		},
		"minlength": {
			"min_length": settings.MinLength,
		},
	})
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Maximum characters per segment (default: 1000)
//   - overlap (int): Overlapping characters between segments (default: 200)
//   - separators ([]string or []any): Boundary separators, coarsest first
func buildChunker(cfg map[string]any) (driven.SegmentProcessor, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok && size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok && overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	if seps := getStringsFromConfig(cfg, "separators"); len(seps) > 0 {
		opts = append(opts, chunker.WithSeparators(seps...))
	}

	return chunker.New(opts...), nil
}

// buildMinLength creates a minimum-length filter from generic config.
// Supported config keys:
//   - min_length (int): Minimum trimmed characters (default: 1)
func buildMinLength(cfg map[string]any) (driven.SegmentProcessor, error) {
	minLen, ok := getIntFromConfig(cfg, "min_length")
	if !ok {
		minLen = minlength.DefaultMinLength
	}
	return minlength.New(minLen), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func getStringsFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
