package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
)

func chunk(source, body string, loc domain.Locator) domain.Chunk {
	return domain.Chunk{SourceName: source, Text: body, Locator: loc}
}

func corpus() []domain.Chunk {
	return []domain.Chunk{
		chunk("Claims Policy", "The claims deadline is the 15th of each month.", domain.ParagraphAt(3)),
		chunk("Travel Guide", "Book flights through the travel portal at least two weeks ahead.", domain.PageAt(1)),
		chunk("Benefits", "Dental cover starts after 90 days of employment.", domain.BlockAt(1)),
		chunk("Claims Policy", "Late claims need manager approval.", domain.ParagraphAt(7)),
		chunk("Office", "The kitchen is cleaned every Friday.", domain.RowAt(4)),
	}
}

func rankers() map[string]driven.Ranker {
	return map[string]driven.Ranker{
		"tfidf":   NewTFIDF(DefaultThreshold),
		"overlap": NewOverlap(1),
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"claims", "deadline"}, Tokenize("When is the claims deadline?"))
	assert.Equal(t, []string{"15th", "month", "e", "mail"}, Tokenize("15th of month; E-mail"))
	assert.Empty(t, Tokenize("what is the ... ?"))
	assert.Empty(t, Tokenize(""))
}

func TestRank_SingleDocumentScenario(t *testing.T) {
	for name, r := range rankers() {
		t.Run(name, func(t *testing.T) {
			got := r.Rank("When is the claims deadline?", corpus()[:1], 3)
			require.Len(t, got, 1)
			assert.Equal(t, domain.ParagraphAt(3), got[0].Chunk.Locator)
			assert.Greater(t, got[0].Score, 0.0)
		})
	}
}

func TestRank_NoOverlapReturnsEmpty(t *testing.T) {
	for name, r := range rankers() {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, r.Rank("What is the capital of France?", corpus(), 3))
		})
	}
}

func TestRank_EmptyInputs(t *testing.T) {
	for name, r := range rankers() {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, r.Rank("claims", nil, 3))
			assert.Empty(t, r.Rank("", corpus(), 3))
			assert.Empty(t, r.Rank("the of and", corpus(), 3))
			assert.Empty(t, r.Rank("claims", corpus(), 0))
			assert.Empty(t, r.Rank("claims", []domain.Chunk{chunk("x", "", domain.PageAt(1))}, 3))
		})
	}
}

func TestRank_DeduplicatesBySource(t *testing.T) {
	chunks := []domain.Chunk{
		chunk("Claims Policy", "Claims are paid monthly.", domain.ParagraphAt(1)),
		chunk("Claims Policy", "Claims deadline: claims must be filed by the 15th.", domain.ParagraphAt(2)),
	}

	for name, r := range rankers() {
		t.Run(name, func(t *testing.T) {
			got := r.Rank("claims deadline", chunks, 1)
			require.Len(t, got, 1)
			assert.Equal(t, domain.ParagraphAt(2), got[0].Chunk.Locator)

			got = r.Rank("claims deadline", chunks, 5)
			require.Len(t, got, 1, "at most one chunk per source")
		})
	}
}

func TestRank_Properties(t *testing.T) {
	queries := []string{
		"claims deadline",
		"dental cover after employment",
		"travel flights portal claims kitchen",
		"manager approval for late claims",
	}

	for name, r := range rankers() {
		for _, q := range queries {
			for _, k := range []int{1, 2, 5} {
				got := r.Rank(q, corpus(), k)
				assert.LessOrEqual(t, len(got), k, "%s %q k=%d", name, q, k)

				sources := make(map[string]bool)
				for i, rc := range got {
					assert.False(t, sources[rc.Chunk.SourceName], "duplicate source %s", rc.Chunk.SourceName)
					sources[rc.Chunk.SourceName] = true
					if i > 0 {
						assert.GreaterOrEqual(t, got[i-1].Score, rc.Score)
					}
				}
			}
		}
	}
}

func TestTFIDF_Threshold(t *testing.T) {
	chunks := corpus()

	all := NewTFIDF(0).Rank("claims kitchen", chunks, 10)
	require.NotEmpty(t, all)
	for _, rc := range all {
		assert.Greater(t, rc.Score, 0.0)
	}

	none := NewTFIDF(0.99).Rank("claims kitchen", chunks, 10)
	assert.Empty(t, none)

	assert.Equal(t, DefaultThreshold, NewTFIDF(-1).threshold)
}

func TestTFIDF_IdenticalTextScoresOne(t *testing.T) {
	got := NewTFIDF(0.1).Rank("dental cover", []domain.Chunk{chunk("b", "dental cover", domain.PageAt(1))}, 1)
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestRank_TiesKeepOriginalOrder(t *testing.T) {
	chunks := []domain.Chunk{
		chunk("A", "parking permit", domain.PageAt(1)),
		chunk("B", "parking permit", domain.PageAt(1)),
		chunk("C", "parking permit", domain.PageAt(1)),
	}

	for name, r := range rankers() {
		t.Run(name, func(t *testing.T) {
			got := r.Rank("parking permit", chunks, 2)
			require.Len(t, got, 2)
			assert.Equal(t, "A", got[0].Chunk.SourceName)
			assert.Equal(t, "B", got[1].Chunk.SourceName)
			assert.Equal(t, 0, got[0].Index)
		})
	}
}

func TestOverlap_MinOverlap(t *testing.T) {
	r := NewOverlap(2)
	got := r.Rank("claims deadline", corpus(), 5)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Score)

	assert.Equal(t, 1, NewOverlap(0).minOverlap)
}

func TestNew(t *testing.T) {
	s := domain.DefaultSettings().Retrieval
	assert.Equal(t, "tfidf", New(s).Name())

	s.Ranker = domain.RankerOverlap
	assert.Equal(t, "overlap", New(s).Name())
}
