package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.Dispatcher = (*Dispatcher)(nil)

// Dispatcher is a fixed pool of workers draining a bounded task queue.
// Submit never blocks: a full queue rejects the task.
type Dispatcher struct {
	tasks   chan queuedTask
	timeout time.Duration

	base   context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type queuedTask struct {
	id   string
	name string
	run  driving.Task
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTaskTimeout bounds every task's context.
func WithTaskTimeout(d time.Duration) DispatcherOption {
	return func(p *Dispatcher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewDispatcher starts workers goroutines serving a queue of the given size.
func NewDispatcher(workers, queue int, opts ...DispatcherOption) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = 1
	}

	base, cancel := context.WithCancel(context.Background())
	p := &Dispatcher{
		tasks:  make(chan queuedTask, queue),
		base:   base,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Submit implements driving.Dispatcher.
func (p *Dispatcher) Submit(name string, task driving.Task) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return "", domain.ErrDispatcherClosed
	}

	qt := queuedTask{id: uuid.New().String(), name: name, run: task}
	select {
	case p.tasks <- qt:
		logger.Debug("[dispatch] queued %s (%s)", name, qt.id)
		return qt.id, nil
	default:
		logger.Warn("[dispatch] queue full, dropping %s", name)
		return "", domain.ErrQueueFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish. If ctx
// ends first, running tasks are cancelled and ctx's error is returned.
func (p *Dispatcher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

func (p *Dispatcher) work() {
	defer p.wg.Done()
	for qt := range p.tasks {
		p.run(qt)
	}
}

func (p *Dispatcher) run(qt queuedTask) {
	ctx := p.base
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("[dispatch] task %s (%s) panicked: %v", qt.name, qt.id, r)
		}
	}()

	started := time.Now()
	qt.run(ctx)
	logger.Debug("[dispatch] %s (%s) finished in %s", qt.name, qt.id, time.Since(started))
}
