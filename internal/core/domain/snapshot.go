package domain

import "time"

// ReadFailure records a file that could not be read during a refresh.
type ReadFailure struct {
	File    FileDescriptor
	Err     error
	Partial bool
}

// Snapshot is one generation of the chunk cache.
// A snapshot is immutable once published.
type Snapshot struct {
	// Chunks is the flat chunk list across all files.
	Chunks []Chunk

	// Files is the number of supported files found by the listing.
	Files int

	// Failures lists files that failed to read fully.
	Failures []ReadFailure

	// RefreshedAt is when the snapshot was built.
	RefreshedAt time.Time
}

// Degraded reports whether any file failed or was only partly read.
func (s *Snapshot) Degraded() bool {
	return s != nil && len(s.Failures) > 0
}

// Len returns the number of chunks, tolerating a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Chunks)
}
