package ranking

import (
	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
)

// New returns the ranker selected by settings.
func New(s domain.RetrievalSettings) driven.Ranker {
	if s.Ranker == domain.RankerOverlap {
		return NewOverlap(1)
	}
	return NewTFIDF(s.Threshold)
}
