package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	reminderuc "github.com/checks-dashboard/backend/internal/application/usecase/reminder"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	"github.com/checks-dashboard/backend/internal/integration/queue"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestWorker(t *testing.T, batchSize int) (*Worker, *queue.ReminderQueue, *MockMailer) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	reminderQueue := queue.NewReminderQueue(client, "test")
	sender, mailer := newTestSender(t)
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	deliver := reminderuc.NewDeliverDueRemindersUseCase(reminderQueue, sender, fixedClock{now: now})
	worker := NewWorker(deliver, WorkerConfig{PollInterval: time.Hour, BatchSize: batchSize})
	return worker, reminderQueue, mailer
}

func queuedReminder(id string, fireAt time.Time) *entity.Reminder {
	r := testReminder()
	r.ID = id
	r.FireAt = fireAt
	r.MaxAttempts = entity.DefaultReminderMaxAttempts
	return r
}

func TestWorker_ProcessNowDrainsDueReminders(t *testing.T) {
	worker, reminderQueue, mailer := newTestWorker(t, 2)
	ctx := context.Background()
	due := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

	err := reminderQueue.Schedule(ctx, []*entity.Reminder{
		queuedReminder("a-0", due),
		queuedReminder("b-0", due),
		queuedReminder("c-0", due),
		queuedReminder("d-1", due.AddDate(0, 0, 1)),
	})
	if err != nil {
		t.Fatalf("failed to schedule: %v", err)
	}

	worker.ProcessNow(ctx)

	if got := len(mailer.Sent()); got != 3 {
		t.Errorf("expected 3 emails across batches, got %d", got)
	}
	pending, err := reminderQueue.Pending(ctx)
	if err != nil {
		t.Fatalf("failed to count pending: %v", err)
	}
	if pending != 1 {
		t.Errorf("expected the future reminder to stay queued, got %d pending", pending)
	}
}

func TestWorker_RetriesTemporaryFailure(t *testing.T) {
	worker, reminderQueue, mailer := newTestWorker(t, 10)
	ctx := context.Background()

	if err := reminderQueue.Schedule(ctx, []*entity.Reminder{
		queuedReminder("a-0", time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)),
	}); err != nil {
		t.Fatalf("failed to schedule: %v", err)
	}

	mailer.SetFailure(errors.New("503 service unavailable"), false)
	worker.ProcessNow(ctx)

	r, err := reminderQueue.Get(ctx, "a-0")
	if err != nil {
		t.Fatalf("expected reminder to be requeued: %v", err)
	}
	if r.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", r.Attempts)
	}
	if !r.FireAt.Equal(time.Date(2025, time.March, 10, 9, 1, 0, 0, time.UTC)) {
		t.Errorf("expected retry a minute later, got %v", r.FireAt)
	}
}

func TestWorker_StartStopsOnCancel(t *testing.T) {
	worker, _, _ := newTestWorker(t, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestNewWorker_Defaults(t *testing.T) {
	worker := NewWorker(nil, WorkerConfig{})
	if worker.pollInterval != DefaultWorkerConfig().PollInterval {
		t.Errorf("expected default poll interval, got %v", worker.pollInterval)
	}
	if worker.batchSize != reminderuc.DefaultBatchSize {
		t.Errorf("expected default batch size, got %d", worker.batchSize)
	}
}
