package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

func snapshotOf(texts ...string) *domain.Snapshot {
	s := &domain.Snapshot{}
	for _, t := range texts {
		s.Chunks = append(s.Chunks, domain.Chunk{Text: t})
	}
	return s
}

// countingRefresh returns a RefreshFunc producing a fresh snapshot per call.
func countingRefresh(calls *atomic.Int32) RefreshFunc {
	return func(_ context.Context) (*domain.Snapshot, error) {
		n := calls.Add(1)
		return snapshotOf("v" + string(rune('0'+n))), nil
	}
}

func TestChunkStore_CachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	clock := newFakeClock()
	store := NewChunkStore(countingRefresh(&calls), 10*time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	first, err := store.Snapshot(ctx)
	require.NoError(t, err)
	clock.Advance(9 * time.Minute)
	second, err := store.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Same(t, first, second)
	assert.Equal(t, clock.Now().Add(-9*time.Minute), first.RefreshedAt)
}

func TestChunkStore_RefreshesAfterExpiry(t *testing.T) {
	var calls atomic.Int32
	clock := newFakeClock()
	store := NewChunkStore(countingRefresh(&calls), 10*time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	first, _ := store.Snapshot(ctx)
	clock.Advance(10 * time.Minute)
	second, _ := store.Snapshot(ctx)
	third, _ := store.Snapshot(ctx)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "v1", first.Chunks[0].Text)
	assert.Equal(t, "v2", second.Chunks[0].Text)
	assert.Same(t, second, third)
}

func TestChunkStore_WithCollector_ListingCallCount(t *testing.T) {
	ds := &mockDocumentStore{files: []domain.FileDescriptor{docFile("d1", "Handbook")}}
	reader := &mockReader{fileType: domain.FileTypeDoc, docs: map[string]*domain.Document{
		"d1": {File: docFile("d1", "Handbook"), Passages: []domain.Passage{{Text: "x", Locator: domain.ParagraphAt(1)}}},
	}}
	clock := newFakeClock()
	store := NewCollectorChunkStore(NewCollector(ds, &passagePipeline{}, 1, reader), "folder", time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	_, _ = store.Snapshot(ctx)
	_, _ = store.Snapshot(ctx)
	assert.Equal(t, int32(1), ds.calls.Load())

	clock.Advance(2 * time.Minute)
	snap, _ := store.Snapshot(ctx)
	assert.Equal(t, int32(2), ds.calls.Load())
	assert.Equal(t, 1, snap.Len())
}

func TestChunkStore_FailedRefreshKeepsPrevious(t *testing.T) {
	clock := newFakeClock()
	fail := false
	refresh := func(_ context.Context) (*domain.Snapshot, error) {
		if fail {
			return nil, errors.New("listing failed")
		}
		return snapshotOf("good"), nil
	}
	store := NewChunkStore(refresh, time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	good, err := store.Snapshot(ctx)
	require.NoError(t, err)

	fail = true
	clock.Advance(time.Hour)
	got, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, good, got)

	_, err = store.Refresh(ctx)
	assert.Error(t, err, "forced refresh reports the failure")
	assert.Same(t, good, store.Cached())
}

func TestChunkStore_FirstRefreshFailsReturnsEmpty(t *testing.T) {
	store := NewChunkStore(func(_ context.Context) (*domain.Snapshot, error) {
		return nil, errors.New("no credentials")
	}, time.Minute)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Len())
	assert.Nil(t, store.Cached())
}

func TestChunkStore_NilSnapshotBecomesEmpty(t *testing.T) {
	store := NewChunkStore(func(_ context.Context) (*domain.Snapshot, error) { return nil, nil }, time.Minute)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.NotNil(t, store.Cached())
}

func TestChunkStore_StaleReadDuringRefresh(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32

	refresh := func(_ context.Context) (*domain.Snapshot, error) {
		if calls.Add(1) == 2 {
			close(entered)
			<-release
			return snapshotOf("new"), nil
		}
		return snapshotOf("old"), nil
	}
	store := NewChunkStore(refresh, time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	old, _ := store.Snapshot(ctx)
	clock.Advance(2 * time.Minute)

	var wg sync.WaitGroup
	wg.Add(1)
	var refreshed *domain.Snapshot
	go func() {
		defer wg.Done()
		refreshed, _ = store.Snapshot(ctx)
	}()
	<-entered

	// A concurrent reader gets the stale snapshot instead of waiting.
	stale, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, old, stale)

	close(release)
	wg.Wait()
	assert.Equal(t, "new", refreshed.Chunks[0].Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestChunkStore_ConcurrentFirstCallsRefreshOnce(t *testing.T) {
	var calls atomic.Int32
	store := NewChunkStore(func(_ context.Context) (*domain.Snapshot, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return snapshotOf("a"), nil
	}, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := store.Snapshot(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 1, snap.Len())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestNewChunkStore_DefaultTTL(t *testing.T) {
	store := NewChunkStore(countingRefresh(new(atomic.Int32)), 0)
	assert.Equal(t, DefaultCacheTTL, store.ttl)
}

func TestChunkStore_CallerDeadlineDoesNotCancelCrawl(t *testing.T) {
	var calls atomic.Int32
	store := NewChunkStore(func(ctx context.Context) (*domain.Snapshot, error) {
		calls.Add(1)
		select {
		case <-time.After(50 * time.Millisecond):
			return snapshotOf("slow"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, time.Minute)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		snap, err := store.Snapshot(ctx)
		cancel()
		require.NoError(t, err, "an unfinished first load is not an error")
		require.NotNil(t, snap)
	}

	require.Eventually(t, func() bool { return store.Cached() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "slow", store.Cached().Chunks[0].Text)
	assert.Equal(t, int32(1), calls.Load(), "waiting callers join the one crawl")

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
}

func TestChunkStore_CrawlHasItsOwnTimeout(t *testing.T) {
	type ctxKey struct{}
	var sawValue atomic.Bool
	var deadline atomic.Int64

	store := NewChunkStore(func(ctx context.Context) (*domain.Snapshot, error) {
		sawValue.Store(ctx.Value(ctxKey{}) == "trace")
		if d, ok := ctx.Deadline(); ok {
			deadline.Store(int64(time.Until(d)))
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}, time.Minute, WithRefreshTimeout(30*time.Millisecond))

	ctx := context.WithValue(context.Background(), ctxKey{}, "trace")
	_, err := store.Refresh(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, sawValue.Load(), "crawl keeps the caller's context values")
	assert.LessOrEqual(t, time.Duration(deadline.Load()), 30*time.Millisecond)
	assert.Nil(t, store.Cached())
}

func TestChunkStore_RefreshWaitIsBoundedByCaller(t *testing.T) {
	release := make(chan struct{})
	store := NewChunkStore(func(_ context.Context) (*domain.Snapshot, error) {
		<-release
		return snapshotOf("late"), nil
	}, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	snap, err := store.Refresh(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, snap.Len())

	close(release)
	require.Eventually(t, func() bool { return store.Cached() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "late", store.Cached().Chunks[0].Text)
}

func TestWithRefreshTimeout_IgnoresNonPositive(t *testing.T) {
	store := NewChunkStore(countingRefresh(new(atomic.Int32)), time.Minute, WithRefreshTimeout(0))
	assert.Equal(t, DefaultRefreshTimeout, store.timeout)
}
