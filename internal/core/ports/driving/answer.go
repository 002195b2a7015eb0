package driving

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// AnswerService answers questions from the document corpus.
type AnswerService interface {
	// Answer runs the full retrieve, prompt, generate and cite pipeline.
	// Component failures are folded into the returned answer's Outcome;
	// an error is returned only for invalid input or a cancelled context.
	Answer(ctx context.Context, question string) (*domain.Answer, error)

	// Search ranks cached chunks against query without calling the model.
	Search(ctx context.Context, query string, topK int) ([]domain.RankedChunk, error)
}
