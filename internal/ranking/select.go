package ranking

import (
	"sort"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// selectTop keeps the best candidate per source name, orders by score
// (ties by original position) and cuts to topK.
func selectTop(candidates []domain.RankedChunk, topK int) []domain.RankedChunk {
	if topK <= 0 || len(candidates) == 0 {
		return nil
	}

	best := make(map[string]int, len(candidates))
	var kept []domain.RankedChunk
	for _, c := range candidates {
		name := c.Chunk.SourceName
		if i, ok := best[name]; ok {
			if c.Score > kept[i].Score {
				kept[i] = c
			}
			continue
		}
		best[name] = len(kept)
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Index < kept[j].Index
	})

	if len(kept) > topK {
		kept = kept[:topK]
	}
	return kept
}
