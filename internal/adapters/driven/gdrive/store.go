package gdrive

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// DefaultPageSize is the listing page size when none is configured.
const DefaultPageSize = 200

const listFields = "nextPageToken, files(id, name, mimeType)"

// Store lists supported files below a Drive folder.
type Store struct {
	svc      *drive.Service
	driveID  string
	pageSize int64
	limiter  *RateLimiter
}

// Verify interface compliance.
var _ driven.DocumentStore = (*Store)(nil)

// NewStore creates a store over the Drive API.
// A non-empty DriveID restricts listing to that shared drive. A nil limiter
// gets a private Drive limiter.
func NewStore(svc *drive.Service, limiter *RateLimiter, s domain.DriveSettings) *Store {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{
		svc:      svc,
		driveID:  s.DriveID,
		pageSize: pageSize,
		limiter:  driveLimiter(limiter),
	}
}

// ListFiles walks the folder tree breadth first and returns the Docs, Sheets
// and PDFs it finds. Subfolders are visited once even if shortcuts form a cycle.
func (s *Store) ListFiles(ctx context.Context, location string) ([]domain.FileDescriptor, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: drive folder id is required", domain.ErrInvalidConfig)
	}

	visited := map[string]bool{location: true}
	queue := []string{location}
	var files []domain.FileDescriptor

	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		children, err := s.listChildren(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folder, err)
		}

		for _, f := range children {
			switch {
			case f.MimeType == domain.MimeTypeFolder:
				if !visited[f.Id] {
					visited[f.Id] = true
					queue = append(queue, f.Id)
				}
			case domain.FileTypeForMIME(f.MimeType) != domain.FileTypeUnknown:
				files = append(files, domain.FileDescriptor{ID: f.Id, Name: f.Name, MIMEType: f.MimeType})
			default:
				logger.Debug("[drive] skipping %s (%s)", f.Name, f.MimeType)
			}
		}
	}

	logger.Debug("[drive] %d supported files in %d folders", len(files), len(visited))
	return files, nil
}

func (s *Store) listChildren(ctx context.Context, folder string) ([]*drive.File, error) {
	var out []*drive.File
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := s.svc.Files.List().
			Q(childrenQuery(folder)).
			Fields(listFields).
			PageSize(s.pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if s.driveID != "" {
			call = call.Corpora("drive").DriveId(s.driveID)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, observe(s.limiter, err)
		}
		out = append(out, resp.Files...)

		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

// childrenQuery builds the Drive search query for a folder's direct children.
func childrenQuery(folder string) string {
	id := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(folder)
	return "'" + id + "' in parents and trashed = false"
}
