package driving

import "context"

// Scheduler manages background tasks like cache warming.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error
}

// Task is a unit of background work.
type Task func(ctx context.Context)

// Dispatcher runs tasks asynchronously so callers can acknowledge
// requests before the work completes.
type Dispatcher interface {
	// Submit queues task and returns its id without waiting for it to run.
	// Returns domain.ErrQueueFull or domain.ErrDispatcherClosed when the task
	// cannot be accepted.
	Submit(name string, task Task) (string, error)
}
