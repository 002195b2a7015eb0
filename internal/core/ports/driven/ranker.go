package driven

import "github.com/custodia-labs/conahgpt/internal/core/domain"

// Ranker scores chunks against a query.
type Ranker interface {
	// Name identifies the algorithm in logs.
	Name() string

	// Rank returns at most topK chunks scoring above the ranker's threshold,
	// best first, with at most one chunk per source file.
	// An empty query or chunk list yields no results.
	Rank(query string, chunks []domain.Chunk, topK int) []domain.RankedChunk
}
