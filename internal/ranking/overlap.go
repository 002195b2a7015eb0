package ranking

import "github.com/custodia-labs/conahgpt/internal/core/domain"

// Overlap ranks chunks by the number of distinct query tokens they contain.
// It allocates no vector space and suits very large corpora.
type Overlap struct {
	minOverlap int
}

// NewOverlap creates an overlap ranker. Chunks sharing fewer than
// minOverlap distinct tokens with the query are discarded; values below 1
// are raised to 1.
func NewOverlap(minOverlap int) *Overlap {
	if minOverlap < 1 {
		minOverlap = 1
	}
	return &Overlap{minOverlap: minOverlap}
}

// Name implements driven.Ranker.
func (r *Overlap) Name() string { return string(domain.RankerOverlap) }

// Rank implements driven.Ranker.
func (r *Overlap) Rank(query string, chunks []domain.Chunk, topK int) []domain.RankedChunk {
	q := make(map[string]struct{})
	for _, t := range Tokenize(query) {
		q[t] = struct{}{}
	}
	if len(q) == 0 || topK <= 0 {
		return nil
	}

	var candidates []domain.RankedChunk
	for i, c := range chunks {
		seen := make(map[string]struct{})
		for _, t := range Tokenize(c.Text) {
			if _, ok := q[t]; ok {
				seen[t] = struct{}{}
			}
		}
		if len(seen) >= r.minOverlap {
			candidates = append(candidates, domain.RankedChunk{Chunk: c, Score: float64(len(seen)), Index: i})
		}
	}

	return selectTop(candidates, topK)
}
