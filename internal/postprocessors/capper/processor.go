// Package capper bounds the amount of text kept from a single file.
package capper

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/logger"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// DefaultMaxChars is the default character budget per file.
const DefaultMaxChars = 400_000

// Processor drops chunk text beyond a per-file character budget.
// It implements the PostProcessor interface.
type Processor struct {
	maxChars int
}

// New creates a capper. A non-positive maxChars uses DefaultMaxChars.
func New(maxChars int) *Processor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Processor{maxChars: maxChars}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cap"
}

// Process keeps chunks in order until the budget is spent. The chunk that
// crosses the budget is truncated; the rest are dropped and the document is
// marked partial.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	remaining := p.maxChars

	for i, c := range chunks {
		if len(c.Text) <= remaining {
			remaining -= len(c.Text)
			continue
		}

		kept := chunks[:i]
		if remaining > 0 {
			if cut := text.TruncateWords(c.Text, remaining); cut != "" {
				c.Text = cut
				kept = append(kept, c)
			}
		}
		if doc != nil {
			doc.Partial = true
			logger.Warn("[cap] %s: truncated to %d characters", doc.File.Name, p.maxChars)
		}
		return kept, nil
	}

	return chunks, nil
}
