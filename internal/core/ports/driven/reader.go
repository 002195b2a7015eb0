package driven

import (
	"context"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// Reader fetches one file and converts it into positioned passages.
// Each reader handles exactly one file type.
type Reader interface {
	// FileType returns the file type this reader handles.
	FileType() domain.FileType

	// Read fetches and parses the file. A reader that recovers some but not
	// all of the content returns the document with Partial set and a nil error.
	Read(ctx context.Context, file domain.FileDescriptor) (*domain.Document, error)
}
