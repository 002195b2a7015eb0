// Package chunker provides a word-bounded chunk splitting processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// DefaultChunkWords is the default maximum number of words per chunk.
const DefaultChunkWords = 300

// DefaultChunkOverlap is the default number of words repeated between
// consecutive pieces of a split chunk.
const DefaultChunkOverlap = 0

// Processor splits chunks longer than the word limit.
// It implements the PostProcessor interface.
type Processor struct {
	chunkWords int
	overlap    int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkWords sets the maximum chunk size in words.
func WithChunkWords(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkWords = size
		}
	}
}

// WithOverlap sets the overlap between split pieces in words.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkWords: DefaultChunkWords,
		overlap:    DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkWords {
		p.overlap = p.chunkWords / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits every chunk over the word limit into consecutive pieces.
// Pieces keep the source, locator and section of the chunk they came from.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(chunks))

	for _, c := range chunks {
		words := text.Words(c.Text)
		if len(words) <= p.chunkWords {
			out = append(out, c)
			continue
		}

		step := p.chunkWords - p.overlap
		for start := 0; start < len(words); start += step {
			end := start + p.chunkWords
			if end > len(words) {
				end = len(words)
			}

			piece := c
			piece.ID = uuid.New().String()
			piece.Text = strings.Join(words[start:end], " ")
			out = append(out, piece)

			if end == len(words) {
				break
			}
		}
	}

	return out, nil
}
