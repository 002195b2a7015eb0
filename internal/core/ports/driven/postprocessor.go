package driven

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// PostProcessor processes document passages to produce chunks.
// PostProcessors are chained in a pipeline (e.g. chunk creation, word splitting, capping).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// The first processor receives nil chunks and creates them from the
	// document's passages; later processors transform the chunks they receive.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
