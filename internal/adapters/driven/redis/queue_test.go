package redis

import (
	"context"
	"testing"
	"time"

	"github.com/portico-labs/portico/internal/core/domain"
)

func setupTestQueue(t *testing.T) (*Queue, func()) {
	client, cleanup := setupTestRedis(t)

	queue, err := NewQueue(client, "test-worker")
	if err != nil {
		cleanup()
		t.Fatalf("failed to create queue: %v", err)
	}
	return queue, cleanup
}

func TestQueue_EnqueueDequeue(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := domain.NewReingestDocumentTask("doc-1")

	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("unexpected error enqueueing task: %v", err)
	}

	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error dequeueing task: %v", err)
	}
	if got == nil {
		t.Fatal("expected a task, got nil")
	}
	if got.ID != task.ID {
		t.Errorf("expected task %s, got %s", task.ID, got.ID)
	}
	if got.Type != domain.TaskTypeReingestDocument {
		t.Errorf("expected reingest_document, got %s", got.Type)
	}
	if got.Status != domain.TaskStatusProcessing {
		t.Errorf("expected processing status, got %s", got.Status)
	}
	if got.DocumentID() != "doc-1" {
		t.Errorf("expected payload document_id doc-1, got %s", got.DocumentID())
	}
}

func TestQueue_AckCompletesTask(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := domain.NewReingestAllTask()
	_ = queue.Enqueue(ctx, task)

	got, _ := queue.DequeueWithTimeout(ctx, 1)
	if got == nil {
		t.Fatal("expected a task")
	}

	if err := queue.Ack(ctx, got.ID); err != nil {
		t.Fatalf("unexpected error acking task: %v", err)
	}

	stored, err := queue.getTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching task: %v", err)
	}
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("expected completed status, got %s", stored.Status)
	}
}

func TestQueue_NackSchedulesRetry(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := domain.NewReingestDocumentTask("doc-1")
	_ = queue.Enqueue(ctx, task)

	got, _ := queue.DequeueWithTimeout(ctx, 1)
	if got == nil {
		t.Fatal("expected a task")
	}

	if err := queue.Nack(ctx, got.ID, "provider down"); err != nil {
		t.Fatalf("unexpected error nacking task: %v", err)
	}

	stored, _ := queue.getTask(ctx, got.ID)
	if stored.Status != domain.TaskStatusPending {
		t.Errorf("expected pending status after nack, got %s", stored.Status)
	}
	if stored.Error != "provider down" {
		t.Errorf("expected recorded error, got %q", stored.Error)
	}
	if !stored.ScheduledFor.After(time.Now()) {
		t.Error("expected retry scheduled in the future")
	}
}

func TestQueue_NackExhaustsRetries(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := domain.NewReingestDocumentTask("doc-1")
	task.Attempts = task.MaxAttempts - 1
	_ = queue.Enqueue(ctx, task)

	got, _ := queue.DequeueWithTimeout(ctx, 1)
	if got == nil {
		t.Fatal("expected a task")
	}

	if err := queue.Nack(ctx, got.ID, "still broken"); err != nil {
		t.Fatalf("unexpected error nacking task: %v", err)
	}

	stored, _ := queue.getTask(ctx, got.ID)
	if stored.Status != domain.TaskStatusFailed {
		t.Errorf("expected failed status after retries exhausted, got %s", stored.Status)
	}
}

func TestQueue_DelayedTaskPromoted(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	ctx := context.Background()
	task := domain.NewReingestAllTask()
	task.ScheduledFor = time.Now().Add(-time.Second) // already due

	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("unexpected error enqueueing task: %v", err)
	}

	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error dequeueing task: %v", err)
	}
	if got == nil || got.ID != task.ID {
		t.Fatalf("expected due task to be delivered, got %+v", got)
	}
}

func TestQueue_EnqueueInvalid(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	if err := queue.Enqueue(context.Background(), nil); err == nil {
		t.Error("expected error enqueueing nil task")
	}
}

func TestQueue_Ping(t *testing.T) {
	queue, cleanup := setupTestQueue(t)
	defer cleanup()

	if err := queue.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
