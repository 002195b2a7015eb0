package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// Ensure ChunkStore implements the interface.
var _ driving.ChunkProvider = (*ChunkStore)(nil)

// DefaultCacheTTL is how long a snapshot is served before a re-crawl.
const DefaultCacheTTL = 10 * time.Minute

// DefaultRefreshTimeout bounds a single crawl.
const DefaultRefreshTimeout = 15 * time.Minute

// RefreshFunc produces a complete new snapshot.
type RefreshFunc func(ctx context.Context) (*domain.Snapshot, error)

// ChunkStore caches the chunk snapshot of one location for a fixed TTL.
//
// At most one crawl runs at a time. It runs detached from the caller that
// started it, under its own timeout, so a caller's deadline only ends that
// caller's wait and never the crawl. Once a snapshot exists, callers that
// find a crawl already running get the stale snapshot straight away.
type ChunkStore struct {
	refresh RefreshFunc
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	current atomic.Pointer[domain.Snapshot]

	mu       sync.Mutex // guards inflight
	inflight *refreshCall
}

// refreshCall is one running crawl. err is set before done is closed.
type refreshCall struct {
	done chan struct{}
	err  error
}

// doneCall stands in for a crawl that is no longer needed.
var doneCall = func() *refreshCall {
	c := &refreshCall{done: make(chan struct{})}
	close(c.done)
	return c
}()

// ChunkStoreOption configures a ChunkStore.
type ChunkStoreOption func(*ChunkStore)

// WithClock replaces time.Now, letting tests simulate expiry.
func WithClock(now func() time.Time) ChunkStoreOption {
	return func(s *ChunkStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRefreshTimeout bounds each crawl. Non-positive values are ignored.
func WithRefreshTimeout(d time.Duration) ChunkStoreOption {
	return func(s *ChunkStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewChunkStore creates a store. A non-positive ttl uses DefaultCacheTTL.
func NewChunkStore(refresh RefreshFunc, ttl time.Duration, opts ...ChunkStoreOption) *ChunkStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	s := &ChunkStore{refresh: refresh, ttl: ttl, timeout: DefaultRefreshTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewCollectorChunkStore wires a store to crawl location with collector.
func NewCollectorChunkStore(c *Collector, location string, ttl time.Duration, opts ...ChunkStoreOption) *ChunkStore {
	return NewChunkStore(func(ctx context.Context) (*domain.Snapshot, error) {
		return c.Collect(ctx, location)
	}, ttl, opts...)
}

// Snapshot returns the cached snapshot, refreshing when it is missing or
// older than the TTL. It never returns an error: a failed or unfinished
// refresh yields the previous snapshot, or an empty one.
func (s *ChunkStore) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap := s.current.Load()
	if snap != nil && !s.expired(snap) {
		return snap, nil
	}

	call, started := s.start(ctx, false)
	if snap != nil && !started {
		logger.Debug("[cache] refresh in progress, serving stale snapshot")
		return s.load(), nil
	}

	select {
	case <-call.done:
	case <-ctx.Done():
		logger.Warn("[cache] stopped waiting for refresh: %v", ctx.Err())
	}
	return s.load(), nil
}

// Refresh forces a re-crawl, waiting for any in-flight refresh first.
// The refresh error, if any, is returned alongside the retained snapshot.
func (s *ChunkStore) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	if call := s.running(); call != nil {
		if err := wait(ctx, call); err != nil {
			return s.load(), err
		}
	}

	call, _ := s.start(ctx, true)
	if err := wait(ctx, call); err != nil {
		return s.load(), err
	}
	return s.load(), call.err
}

// Cached returns the current snapshot without refreshing. It may be nil.
func (s *ChunkStore) Cached() *domain.Snapshot {
	return s.current.Load()
}

// start joins the running crawl or launches a new one. started reports
// whether this call launched it. Unless force is set, a snapshot that
// became fresh meanwhile is not crawled again. The crawl keeps ctx's values
// but not its cancellation.
func (s *ChunkStore) start(ctx context.Context, force bool) (call *refreshCall, started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight != nil {
		return s.inflight, false
	}
	if cur := s.current.Load(); !force && cur != nil && !s.expired(cur) {
		return doneCall, false
	}
	call = &refreshCall{done: make(chan struct{})}
	s.inflight = call

	crawlCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	go func() {
		defer cancel()
		call.err = s.doRefresh(crawlCtx)

		s.mu.Lock()
		s.inflight = nil
		s.mu.Unlock()
		close(call.done)
	}()
	return call, true
}

func (s *ChunkStore) running() *refreshCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight
}

func wait(ctx context.Context, call *refreshCall) error {
	select {
	case <-call.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChunkStore) doRefresh(ctx context.Context) error {
	started := s.now()
	next, err := s.refresh(ctx)
	if err != nil {
		logger.Error("[cache] refresh failed, keeping previous snapshot: %v", err)
		return err
	}
	if next == nil {
		next = &domain.Snapshot{}
	}

	stamped := *next
	stamped.RefreshedAt = s.now()
	s.current.Store(&stamped)

	logger.Debug("[cache] refreshed %d chunks in %s", stamped.Len(), stamped.RefreshedAt.Sub(started))
	return nil
}

func (s *ChunkStore) expired(snap *domain.Snapshot) bool {
	return s.now().Sub(snap.RefreshedAt) >= s.ttl
}

func (s *ChunkStore) load() *domain.Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return &domain.Snapshot{}
}
