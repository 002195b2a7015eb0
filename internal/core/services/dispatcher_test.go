package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

func TestDispatcher_RunsSubmittedTasks(t *testing.T) {
	d := NewDispatcher(2, 8)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		id, err := d.Submit("answer", func(_ context.Context) {
			defer wg.Done()
			ran.Add(1)
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}
	wg.Wait()

	assert.Equal(t, int32(5), ran.Load())
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_SubmitDoesNotWait(t *testing.T) {
	d := NewDispatcher(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	_, err := d.Submit("slow", func(_ context.Context) {
		close(started)
		<-release
	})
	require.NoError(t, err)
	<-started

	// The worker is busy; one task fits in the queue, the next is rejected.
	_, err = d.Submit("queued", func(_ context.Context) {})
	require.NoError(t, err)
	_, err = d.Submit("overflow", func(_ context.Context) {})
	assert.ErrorIs(t, err, domain.ErrQueueFull)

	close(release)
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_ClosedRejects(t *testing.T) {
	d := NewDispatcher(1, 1)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()), "close is idempotent")

	_, err := d.Submit("late", func(_ context.Context) {})
	assert.ErrorIs(t, err, domain.ErrDispatcherClosed)
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	d := NewDispatcher(1, 4)
	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		_, err := d.Submit("t", func(_ context.Context) { ran.Add(1) })
		require.NoError(t, err)
	}

	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int32(4), ran.Load())
}

func TestDispatcher_CloseTimeoutCancelsTasks(t *testing.T) {
	d := NewDispatcher(1, 1)
	cancelled := make(chan struct{})
	_, err := d.Submit("stuck", func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
	<-cancelled
}

func TestDispatcher_TaskTimeout(t *testing.T) {
	d := NewDispatcher(1, 1, WithTaskTimeout(10*time.Millisecond))
	done := make(chan error, 1)
	_, err := d.Submit("bounded", func(ctx context.Context) {
		<-ctx.Done()
		done <- ctx.Err()
	})
	require.NoError(t, err)

	assert.ErrorIs(t, <-done, context.DeadlineExceeded)
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	d := NewDispatcher(1, 2)
	after := make(chan struct{})

	_, err := d.Submit("panics", func(_ context.Context) { panic("boom") })
	require.NoError(t, err)
	_, err = d.Submit("after", func(_ context.Context) { close(after) })
	require.NoError(t, err)

	select {
	case <-after:
	case <-time.After(time.Second):
		t.Fatal("worker died after a panicking task")
	}
	require.NoError(t, d.Close(context.Background()))
}
