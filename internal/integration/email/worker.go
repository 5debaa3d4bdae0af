package email

import (
	"context"
	"log/slog"
	"time"

	reminderuc "github.com/checks-dashboard/backend/internal/application/usecase/reminder"
)

// Worker polls the reminder queue and delivers due reminders.
type Worker struct {
	deliver      *reminderuc.DeliverDueRemindersUseCase
	pollInterval time.Duration
	batchSize    int
}

// WorkerConfig holds configuration for the reminder worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 30 * time.Second,
		BatchSize:    reminderuc.DefaultBatchSize,
	}
}

// NewWorker creates a new reminder worker.
func NewWorker(deliver *reminderuc.DeliverDueRemindersUseCase, config WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}

	return &Worker{
		deliver:      deliver,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Reminder worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminder worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

// processBatch drains due reminders one batch at a time until a short batch is seen.
func (w *Worker) processBatch(ctx context.Context) {
	for ctx.Err() == nil {
		output, err := w.deliver.Execute(ctx, reminderuc.DeliverDueRemindersInput{BatchSize: w.batchSize})
		if err != nil {
			slog.Error("Failed to deliver due reminders", "error", err)
			return
		}

		if output.Claimed > 0 {
			slog.Debug("Processed reminder batch",
				"claimed", output.Claimed,
				"sent", output.Sent,
				"retried", output.Retried,
				"dropped", output.Dropped,
			)
		}

		if output.Claimed < w.batchSize {
			return
		}
	}
}

// ProcessNow delivers all due reminders immediately (useful for testing).
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}
