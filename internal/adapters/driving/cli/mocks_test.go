package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

type mockAnswerService struct {
	answer  *domain.Answer
	results []domain.RankedChunk
	err     error
	topK    int
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	ans := *m.answer
	ans.Question = question
	return &ans, nil
}

func (m *mockAnswerService) Search(_ context.Context, _ string, topK int) ([]domain.RankedChunk, error) {
	m.topK = topK
	return m.results, m.err
}

type mockChunkProvider struct {
	snapshot  *domain.Snapshot
	err       error
	refreshed bool
}

func (m *mockChunkProvider) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	return m.snapshot, m.err
}

func (m *mockChunkProvider) Refresh(_ context.Context) (*domain.Snapshot, error) {
	m.refreshed = true
	return m.snapshot, m.err
}

// useApp installs a as the wired application for one test.
func useApp(t *testing.T, a *App) {
	t.Helper()
	old := app
	app = a
	t.Cleanup(func() { app = old })
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Chunks: []domain.Chunk{
			{Text: "Leave is 25 days.", SourceID: "d1", SourceName: "Handbook", SourceType: domain.FileTypeDoc},
			{Text: "Name: Ada", SourceID: "s1", SourceName: "Contacts", SourceType: domain.FileTypeSheet},
			{Text: "Carry over 5 days.", SourceID: "d1", SourceName: "Handbook", SourceType: domain.FileTypeDoc},
		},
		Files: 3,
		Failures: []domain.ReadFailure{
			{File: domain.FileDescriptor{Name: "Scan.pdf"}, Err: domain.ErrInvalidInput, Partial: true},
		},
	}
}
