package memory

import (
	"context"
	"sync"
	"time"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TaskQueue = (*TaskQueue)(nil)

const pollInterval = 50 * time.Millisecond

// TaskQueue is an in-process task queue for single-binary deployments.
// Tasks do not survive a restart.
type TaskQueue struct {
	mu         sync.Mutex
	pending    []*domain.Task
	processing map[string]*domain.Task
	closed     bool
}

// NewTaskQueue creates a new in-process TaskQueue
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{processing: make(map[string]*domain.Task)}
}

// Enqueue adds a task to the queue
func (q *TaskQueue) Enqueue(_ context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.ErrServiceUnavailable
	}
	q.pending = append(q.pending, task)
	return nil
}

// DequeueWithTimeout polls for a ready task for up to timeout seconds.
// Returns nil, nil if nothing becomes ready in time.
func (q *TaskQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	deadline := time.Now().Add(time.Duration(timeout) * time.Second)
	for {
		if task := q.takeReady(); task != nil {
			return task, nil
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (q *TaskQueue) takeReady() *domain.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, task := range q.pending {
		if !task.IsReady() {
			continue
		}
		q.pending = append(q.pending[:i], q.pending[i+1:]...)
		task.MarkProcessing()
		q.processing[task.ID] = task
		return task
	}
	return nil
}

// Ack acknowledges successful completion of a task
func (q *TaskQueue) Ack(_ context.Context, taskID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.processing[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	task.MarkCompleted()
	delete(q.processing, taskID)
	return nil
}

// Nack requeues a failed task with backoff, or drops it once the
// retry budget is spent.
func (q *TaskQueue) Nack(_ context.Context, taskID string, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.processing[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(q.processing, taskID)
	if task.CanRetry() {
		task.Retry(reason)
		q.pending = append(q.pending, task)
	} else {
		task.MarkFailed(reason)
	}
	return nil
}

// Ping always succeeds while the queue is open
func (q *TaskQueue) Ping(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.ErrServiceUnavailable
	}
	return nil
}

// Close marks the queue closed; pending tasks are discarded
func (q *TaskQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
	return nil
}
