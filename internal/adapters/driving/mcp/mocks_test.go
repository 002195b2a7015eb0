package mcp

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer    *domain.Answer
	results   []domain.RankedChunk
	err       error
	lastTopK  int
	lastQuery string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.lastQuery = question
	return m.answer, m.err
}

func (m *mockAnswerService) Search(_ context.Context, query string, topK int) ([]domain.RankedChunk, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.results, m.err
}

// mockChunkProvider is a mock implementation of driving.ChunkProvider.
type mockChunkProvider struct {
	snapshot *domain.Snapshot
	err      error
}

func (m *mockChunkProvider) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	return m.snapshot, m.err
}

func (m *mockChunkProvider) Refresh(_ context.Context) (*domain.Snapshot, error) {
	return m.snapshot, m.err
}
