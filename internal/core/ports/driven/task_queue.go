package driven

import (
	"context"

	"github.com/portico-labs/portico/internal/core/domain"
)

// TaskQueue handles background task queuing and processing.
// Implementations can use Redis or an in-process queue.
type TaskQueue interface {
	// Enqueue adds a task to the queue for processing.
	Enqueue(ctx context.Context, task *domain.Task) error

	// DequeueWithTimeout retrieves the next ready task, waiting up to
	// timeout seconds. Returns nil, nil if the timeout elapses with no
	// task available. The returned task is marked as processing and is
	// not handed to other workers.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error)

	// Ack acknowledges successful completion of a task.
	Ack(ctx context.Context, taskID string) error

	// Nack indicates task processing failed. The task is requeued with
	// backoff, or marked failed once max retries are exceeded.
	Nack(ctx context.Context, taskID string, reason string) error

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}
