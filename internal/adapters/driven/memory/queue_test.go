package memory

import (
	"context"
	"testing"

	"github.com/portico-labs/portico/internal/core/domain"
)

func TestTaskQueueEnqueueDequeue(t *testing.T) {
	queue := NewTaskQueue()
	defer queue.Close()
	ctx := context.Background()

	task := domain.NewReingestDocumentTask("doc-1")
	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a task, got nil")
	}
	if got.ID != task.ID {
		t.Errorf("expected task %s, got %s", task.ID, got.ID)
	}
	if got.Status != domain.TaskStatusProcessing {
		t.Errorf("expected processing status, got %s", got.Status)
	}
	if got.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", got.Attempts)
	}
}

func TestTaskQueueDequeueTimeout(t *testing.T) {
	queue := NewTaskQueue()
	defer queue.Close()

	got, err := queue.DequeueWithTimeout(context.Background(), 0)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil task on timeout, got %+v", got)
	}
}

func TestTaskQueueAck(t *testing.T) {
	queue := NewTaskQueue()
	defer queue.Close()
	ctx := context.Background()

	task := domain.NewReingestAllTask()
	_ = queue.Enqueue(ctx, task)
	got, _ := queue.DequeueWithTimeout(ctx, 1)

	if err := queue.Ack(ctx, got.ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}
	if got.Status != domain.TaskStatusCompleted {
		t.Errorf("expected completed status, got %s", got.Status)
	}

	// Acked tasks never come back
	again, _ := queue.DequeueWithTimeout(ctx, 0)
	if again != nil {
		t.Errorf("acked task reappeared: %+v", again)
	}
}

func TestTaskQueueNackRequeues(t *testing.T) {
	queue := NewTaskQueue()
	defer queue.Close()
	ctx := context.Background()

	task := domain.NewReingestDocumentTask("doc-1")
	_ = queue.Enqueue(ctx, task)
	got, _ := queue.DequeueWithTimeout(ctx, 1)

	if err := queue.Nack(ctx, got.ID, "provider down"); err != nil {
		t.Fatalf("Nack failed: %v", err)
	}
	if got.Status != domain.TaskStatusPending {
		t.Errorf("expected pending after nack, got %s", got.Status)
	}
	if got.Error != "provider down" {
		t.Errorf("expected error recorded, got %q", got.Error)
	}
	if !got.ScheduledFor.After(got.UpdatedAt.Add(-1)) {
		t.Error("expected backoff to push ScheduledFor forward")
	}
}

func TestTaskQueueNackExhaustsRetries(t *testing.T) {
	queue := NewTaskQueue()
	defer queue.Close()
	ctx := context.Background()

	task := domain.NewReingestDocumentTask("doc-1")
	task.Attempts = task.MaxAttempts - 1
	_ = queue.Enqueue(ctx, task)

	got, _ := queue.DequeueWithTimeout(ctx, 1)
	if got == nil {
		t.Fatal("expected a task")
	}
	if err := queue.Nack(ctx, got.ID, "still broken"); err != nil {
		t.Fatalf("Nack failed: %v", err)
	}
	if got.Status != domain.TaskStatusFailed {
		t.Errorf("expected failed status after retry budget spent, got %s", got.Status)
	}

	again, _ := queue.DequeueWithTimeout(ctx, 0)
	if again != nil {
		t.Errorf("failed task reappeared: %+v", again)
	}
}

func TestTaskQueueAckUnknown(t *testing.T) {
	queue := NewTaskQueue()
	defer queue.Close()

	if err := queue.Ack(context.Background(), "nope"); err == nil {
		t.Error("expected error acking unknown task")
	}
}

func TestTaskQueueClosed(t *testing.T) {
	queue := NewTaskQueue()
	_ = queue.Close()

	if err := queue.Enqueue(context.Background(), domain.NewReingestAllTask()); err == nil {
		t.Error("expected error enqueueing on closed queue")
	}
	if err := queue.Ping(context.Background()); err == nil {
		t.Error("expected ping failure on closed queue")
	}
}
