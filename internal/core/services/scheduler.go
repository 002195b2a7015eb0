package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// Ensure Warmer implements the interface.
var _ driving.Scheduler = (*Warmer)(nil)

// Warmer refreshes the chunk cache in the background on a fixed interval,
// so requests rarely land on an expired snapshot.
type Warmer struct {
	provider driving.ChunkProvider
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWarmer creates a warmer. It does nothing until Start is called.
func NewWarmer(provider driving.ChunkProvider, interval time.Duration) *Warmer {
	return &Warmer{
		provider: provider,
		interval: interval,
	}
}

// Start primes the cache and then refreshes it every interval.
// This method blocks until Stop is called or ctx is cancelled.
// A non-positive interval disables warming and returns immediately.
func (w *Warmer) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return nil
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()
	defer func() {
		w.mu.Lock()
		if w.running && w.stopCh == stopCh {
			w.running = false
			close(stopCh)
		}
		w.mu.Unlock()
	}()

	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// Stop gracefully shuts down the warmer and waits for an in-flight refresh.
func (w *Warmer) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

func (w *Warmer) warm(ctx context.Context) {
	snap, err := w.provider.Refresh(ctx)
	if err != nil {
		logger.Warn("[cache] warm refresh failed: %v", err)
		return
	}
	logger.Debug("[cache] warmed %d chunks", snap.Len())
}
