package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// countingProvider implements driving.ChunkProvider and counts refreshes.
type countingProvider struct {
	refreshes atomic.Int32
	err       error
}

func (p *countingProvider) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	return &domain.Snapshot{}, nil
}

func (p *countingProvider) Refresh(_ context.Context) (*domain.Snapshot, error) {
	p.refreshes.Add(1)
	return &domain.Snapshot{}, p.err
}

func TestWarmer_DisabledInterval(t *testing.T) {
	p := &countingProvider{}
	w := NewWarmer(p, 0)

	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, int32(0), p.refreshes.Load())
	require.NoError(t, w.Stop())
}

func TestWarmer_RefreshesUntilStopped(t *testing.T) {
	p := &countingProvider{}
	w := NewWarmer(p, 5*time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()

	assert.Eventually(t, func() bool { return p.refreshes.Load() >= 3 }, time.Second, time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, <-errCh)

	n := p.refreshes.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, p.refreshes.Load(), "no refreshes after Stop")
}

func TestWarmer_ContextCancel(t *testing.T) {
	p := &countingProvider{err: errors.New("drive down")}
	w := NewWarmer(p, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	assert.Eventually(t, func() bool { return p.refreshes.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	// A cancelled warmer can be stopped and started again.
	require.NoError(t, w.Stop())
}

func TestWarmer_StopWithoutStart(t *testing.T) {
	w := NewWarmer(&countingProvider{}, time.Minute)
	require.NoError(t, w.Stop())
}
