package postprocessors

import (
	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/postprocessors/capper"
	"github.com/custodia-labs/conahgpt/internal/postprocessors/chunker"
	"github.com/custodia-labs/conahgpt/internal/postprocessors/passages"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("passages", buildPassages)
	r.Register("chunker", buildChunker)
	r.Register("cap", buildCapper)
}

// DefaultStages returns the standard chunking stages for reader settings:
// passages to chunks, word splitting, then the per-file character cap.
func DefaultStages(s domain.ReaderSettings) []Stage {
	return []Stage{
		{Name: "passages"},
		{Name: "chunker", Config: map[string]any{"chunk_words": s.ChunkWords}},
		{Name: "cap", Config: map[string]any{"max_chars": s.MaxFileChars}},
	}
}

// Default builds the standard pipeline for reader settings.
func Default(s domain.ReaderSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(DefaultStages(s)...)
}

func buildPassages(_ map[string]any) (driven.PostProcessor, error) {
	return passages.New(), nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_words (int): Words per chunk (default: 300)
//   - overlap (int): Overlapping words between split pieces (default: 0)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_words"); size > 0 {
			opts = append(opts, chunker.WithChunkWords(size))
		}
		if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
	}

	return chunker.New(opts...), nil
}

// buildCapper supports max_chars (int), the per-file character budget.
func buildCapper(cfg map[string]any) (driven.PostProcessor, error) {
	return capper.New(getIntFromConfig(cfg, "max_chars")), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
