package driven

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// DocumentStore lists the readable files under a document-store location.
// Backed by Google Drive.
type DocumentStore interface {
	// ListFiles returns every supported file below location, recursing into
	// sub-folders. Unsupported MIME types are omitted.
	ListFiles(ctx context.Context, location string) ([]domain.FileDescriptor, error)
}
