// Package passages converts read passages into chunks carrying their
// source and citation metadata.
package passages

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// Processor creates one chunk per non-empty passage.
// It implements the PostProcessor interface.
type Processor struct {
	newID func() string
}

// Option configures the processor.
type Option func(*Processor)

// WithIDFunc overrides chunk id generation.
func WithIDFunc(fn func() string) Option {
	return func(p *Processor) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// New creates a passages processor.
func New(opts ...Option) *Processor {
	p := &Processor{newID: func() string { return uuid.New().String() }}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "passages"
}

// Process ignores incoming chunks and builds new ones from doc.Passages.
// Passage text is normalised; passages that normalise to nothing are dropped.
// The chunk link is the document link followed by the passage anchor.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	chunks := make([]domain.Chunk, 0, len(doc.Passages))

	for _, passage := range doc.Passages {
		body := text.Normalise(passage.Text)
		if body == "" {
			continue
		}

		link := doc.Link
		if link != "" {
			link += passage.Anchor
		}

		chunks = append(chunks, domain.Chunk{
			ID:         p.newID(),
			Text:       body,
			SourceID:   doc.File.ID,
			SourceName: doc.File.Name,
			SourceLink: link,
			SourceType: doc.File.Type(),
			Locator:    passage.Locator,
			Section:    passage.Section,
		})
	}

	return chunks, nil
}
