package driving

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// ChunkProvider serves the cached chunk snapshot of the document store.
type ChunkProvider interface {
	// Snapshot returns the current snapshot, refreshing it first when it
	// is missing. A stale snapshot is returned while a refresh is running.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)

	// Refresh forces a re-crawl and returns the new snapshot.
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}
