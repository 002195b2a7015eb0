package ranking

import (
	"math"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// DefaultThreshold is the minimum cosine similarity a chunk must exceed.
const DefaultThreshold = 0.1

// TFIDF ranks chunks by cosine similarity of TF-IDF vectors built over the
// chunk texts plus the query. Term frequencies are raw counts, idf is
// smoothed as ln((1+n)/(1+df))+1 and vectors are L2-normalised.
type TFIDF struct {
	threshold float64
}

// NewTFIDF creates a TF-IDF ranker. A negative threshold uses DefaultThreshold.
func NewTFIDF(threshold float64) *TFIDF {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &TFIDF{threshold: threshold}
}

// Name implements driven.Ranker.
func (r *TFIDF) Name() string { return string(domain.RankerTFIDF) }

// Rank implements driven.Ranker.
func (r *TFIDF) Rank(query string, chunks []domain.Chunk, topK int) []domain.RankedChunk {
	qTokens := Tokenize(query)
	if len(qTokens) == 0 || len(chunks) == 0 || topK <= 0 {
		return nil
	}

	docs := make([]map[string]int, len(chunks)+1)
	for i, c := range chunks {
		docs[i] = counts(Tokenize(c.Text))
	}
	docs[len(chunks)] = counts(qTokens)

	df := make(map[string]int)
	for _, tf := range docs {
		for term := range tf {
			df[term]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, f := range df {
		idf[term] = math.Log((1+n)/(1+float64(f))) + 1
	}

	qVec := weigh(docs[len(chunks)], idf)

	var candidates []domain.RankedChunk
	for i, c := range chunks {
		score := cosine(qVec, weigh(docs[i], idf))
		if score > r.threshold {
			candidates = append(candidates, domain.RankedChunk{Chunk: c, Score: score, Index: i})
		}
	}

	return selectTop(candidates, topK)
}

func counts(tokens []string) map[string]int {
	m := make(map[string]int, len(tokens))
	for _, t := range tokens {
		m[t]++
	}
	return m
}

// weigh returns the L2-normalised tf*idf vector of a term-count map.
func weigh(tf map[string]int, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(tf))
	var norm float64
	for term, c := range tf {
		w := float64(c) * idf[term]
		vec[term] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

// cosine of two unit vectors is their dot product.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}
