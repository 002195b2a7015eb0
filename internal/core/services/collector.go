package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// DefaultReadConcurrency bounds parallel file reads when none is configured.
const DefaultReadConcurrency = 4

// Collector crawls a document-store location and turns every readable file
// into chunks. One file's failure never aborts the crawl.
type Collector struct {
	store       driven.DocumentStore
	pipeline    driven.PostProcessorPipeline
	readers     map[domain.FileType]driven.Reader
	concurrency int
	now         func() time.Time
}

// NewCollector creates a collector. Files whose type has no reader are skipped.
func NewCollector(
	store driven.DocumentStore,
	pipeline driven.PostProcessorPipeline,
	concurrency int,
	readers ...driven.Reader,
) *Collector {
	if concurrency <= 0 {
		concurrency = DefaultReadConcurrency
	}
	c := &Collector{
		store:       store,
		pipeline:    pipeline,
		readers:     make(map[domain.FileType]driven.Reader, len(readers)),
		concurrency: concurrency,
		now:         time.Now,
	}
	for _, r := range readers {
		c.readers[r.FileType()] = r
	}
	return c
}

type fileResult struct {
	chunks  []domain.Chunk
	failure *domain.ReadFailure
}

// Collect lists location and reads every file into a new snapshot.
// A listing failure is returned as an error; read failures are recorded in
// the snapshot and logged.
func (c *Collector) Collect(ctx context.Context, location string) (*domain.Snapshot, error) {
	files, err := c.store.ListFiles(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, f := range files {
		g.Go(func() error {
			results[i] = c.readFile(gctx, f)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{Files: len(files), RefreshedAt: c.now()}
	for _, r := range results {
		snap.Chunks = append(snap.Chunks, r.chunks...)
		if r.failure != nil {
			snap.Failures = append(snap.Failures, *r.failure)
		}
	}

	logger.Info("[cache] collected %d chunks from %d files (%d failures)", len(snap.Chunks), len(files), len(snap.Failures))
	return snap, nil
}

func (c *Collector) readFile(ctx context.Context, f domain.FileDescriptor) fileResult {
	reader, ok := c.readers[f.Type()]
	if !ok {
		logger.Debug("[drive] skipping %s: no reader for %q", f.Name, f.MIMEType)
		return fileResult{}
	}
	tag := componentTag(f.Type())

	doc, err := reader.Read(ctx, f)
	if err != nil {
		logger.Warn("%s %s (%s) read error: %v", tag, f.Name, f.ID, err)
		return fileResult{failure: &domain.ReadFailure{File: f, Err: err}}
	}

	chunks, err := c.pipeline.Process(ctx, doc)
	if err != nil {
		logger.Warn("%s %s (%s) processing error: %v", tag, f.Name, f.ID, err)
		return fileResult{failure: &domain.ReadFailure{File: f, Err: err}}
	}

	res := fileResult{chunks: chunks}
	if doc.Partial {
		res.failure = &domain.ReadFailure{File: f, Partial: true}
	}
	return res
}

func componentTag(t domain.FileType) string {
	switch t {
	case domain.FileTypeDoc:
		return "[docs]"
	case domain.FileTypeSheet:
		return "[sheet]"
	case domain.FileTypePDF:
		return "[pdf]"
	default:
		return "[drive]"
	}
}
