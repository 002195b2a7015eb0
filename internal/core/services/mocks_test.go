package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	files []domain.FileDescriptor
	err   error
	calls atomic.Int32
}

func (m *mockDocumentStore) ListFiles(_ context.Context, _ string) ([]domain.FileDescriptor, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.files, nil
}

// mockReader implements driven.Reader for testing.
type mockReader struct {
	fileType domain.FileType
	docs     map[string]*domain.Document
	errs     map[string]error
}

func (m *mockReader) FileType() domain.FileType { return m.fileType }

func (m *mockReader) Read(_ context.Context, f domain.FileDescriptor) (*domain.Document, error) {
	if err := m.errs[f.ID]; err != nil {
		return nil, err
	}
	if doc, ok := m.docs[f.ID]; ok {
		return doc, nil
	}
	return &domain.Document{File: f}, nil
}

// passagePipeline implements driven.PostProcessorPipeline with one chunk
// per passage.
type passagePipeline struct {
	err error
}

func (p *passagePipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if p.err != nil {
		return nil, p.err
	}
	chunks := make([]domain.Chunk, 0, len(doc.Passages))
	for _, ps := range doc.Passages {
		chunks = append(chunks, domain.Chunk{
			ID:         doc.File.ID + "/" + ps.Locator.Key(),
			Text:       ps.Text,
			SourceID:   doc.File.ID,
			SourceName: doc.File.Name,
			SourceLink: doc.Link + ps.Anchor,
			SourceType: doc.File.Type(),
			Locator:    ps.Locator,
			Section:    ps.Section,
		})
	}
	return chunks, nil
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
	opts      []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	if len(m.responses) > 0 {
		return m.responses[len(m.responses)-1], nil
	}
	return "", nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	templates map[string]string
	err       error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.templates[name], nil
}

func (m *mockPromptStore) Reload() {}

// staticChunks implements driving.ChunkProvider with a fixed snapshot.
type staticChunks struct {
	snap *domain.Snapshot
	err  error
}

func (s *staticChunks) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	return s.snap, s.err
}

func (s *staticChunks) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	return s.Snapshot(ctx)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Fixtures.

func docFile(id, name string) domain.FileDescriptor {
	return domain.FileDescriptor{ID: id, Name: name, MIMEType: domain.MimeTypeGoogleDoc}
}

func claimsChunk() domain.Chunk {
	return domain.Chunk{
		ID:         "c1",
		Text:       "The claims deadline is the 15th of each month.",
		SourceID:   "doc-1",
		SourceName: "Claims Policy",
		SourceLink: "https://docs.google.com/document/d/doc-1/edit",
		SourceType: domain.FileTypeDoc,
		Locator:    domain.ParagraphAt(3),
	}
}
