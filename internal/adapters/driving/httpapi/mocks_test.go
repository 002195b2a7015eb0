package httpapi

import (
	"context"
	"sync"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
)

type mockAnswerService struct {
	mu        sync.Mutex
	answer    *domain.Answer
	err       error
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

func (m *mockAnswerService) Search(_ context.Context, _ string, _ int) ([]domain.RankedChunk, error) {
	return nil, m.err
}

type mockChunkStore struct {
	snapshot *domain.Snapshot
}

func (m *mockChunkStore) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	return m.snapshot, nil
}

func (m *mockChunkStore) Refresh(_ context.Context) (*domain.Snapshot, error) {
	return m.snapshot, nil
}

func (m *mockChunkStore) Cached() *domain.Snapshot {
	return m.snapshot
}

// inlineDispatcher runs tasks synchronously so tests can observe them.
type inlineDispatcher struct {
	names []string
	err   error
}

func (d *inlineDispatcher) Submit(name string, task driving.Task) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.names = append(d.names, name)
	task(context.Background())
	return "task-1", nil
}

type post struct {
	channel  string
	text     string
	threadTS string
}

type mockMessenger struct {
	posts []post
	err   error
}

func (m *mockMessenger) PostMessage(_ context.Context, channel, text, threadTS string) error {
	m.posts = append(m.posts, post{channel: channel, text: text, threadTS: threadTS})
	return m.err
}
