// Package reminder contains reminder delivery use cases.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// DefaultBatchSize is the number of reminders claimed per run when none is given.
const DefaultBatchSize = 10

// DeliverDueRemindersInput represents the input for a delivery run.
type DeliverDueRemindersInput struct {
	BatchSize int
}

// DeliverDueRemindersOutput summarises a delivery run.
type DeliverDueRemindersOutput struct {
	Claimed int
	Sent    int
	Retried int
	Dropped int
}

// DeliverDueRemindersUseCase claims reminders whose fire time has passed and sends them.
type DeliverDueRemindersUseCase struct {
	queue  adapter.ReminderQueue
	sender adapter.ReminderSender
	clock  adapter.Clock
}

// NewDeliverDueRemindersUseCase creates a new DeliverDueRemindersUseCase instance.
func NewDeliverDueRemindersUseCase(
	queue adapter.ReminderQueue,
	sender adapter.ReminderSender,
	clock adapter.Clock,
) *DeliverDueRemindersUseCase {
	return &DeliverDueRemindersUseCase{
		queue:  queue,
		sender: sender,
		clock:  clock,
	}
}

// Execute performs one delivery run.
func (uc *DeliverDueRemindersUseCase) Execute(ctx context.Context, input DeliverDueRemindersInput) (*DeliverDueRemindersOutput, error) {
	batchSize := input.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	now := uc.clock.Now()
	reminders, err := uc.queue.ClaimDue(ctx, now, batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due reminders: %w", err)
	}

	output := &DeliverDueRemindersOutput{Claimed: len(reminders)}

	for i, r := range reminders {
		if ctx.Err() != nil {
			// Claimed reminders go back untouched so the next run picks them up.
			uc.requeueAll(context.WithoutCancel(ctx), reminders[i:])
			return output, ctx.Err()
		}

		switch uc.deliver(ctx, r, now) {
		case outcomeSent:
			output.Sent++
		case outcomeRetried:
			output.Retried++
		default:
			output.Dropped++
		}
	}

	return output, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeRetried
	outcomeDropped
)

// deliver sends a single reminder and requeues it on a retryable failure.
func (uc *DeliverDueRemindersUseCase) deliver(ctx context.Context, r *entity.Reminder, now time.Time) outcome {
	logger := slog.With(
		"reminder_id", r.ID,
		"check_id", r.CheckID,
		"recipient", r.RecipientEmail,
	)

	result, err := uc.sender.Send(ctx, r)
	if err == nil {
		logger.Info("Reminder sent", "provider_id", result.ProviderID)
		return outcomeSent
	}

	var reminderErr *domainerror.ReminderError
	permanent := errors.As(err, &reminderErr) && reminderErr.IsPermanent()

	if !r.MarkFailed(err, permanent, now) {
		logger.Warn("Reminder permanently failed",
			"attempts", r.Attempts,
			"last_error", r.LastError,
		)
		return outcomeDropped
	}

	// The reminder is already off the queue, so the write back must outlive ctx.
	if requeueErr := uc.queue.Requeue(context.WithoutCancel(ctx), r); requeueErr != nil {
		logger.Error("Failed to requeue reminder", "error", requeueErr)
		return outcomeDropped
	}

	logger.Info("Reminder scheduled for retry",
		"attempts", r.Attempts,
		"fire_at", r.FireAt,
	)
	return outcomeRetried
}

func (uc *DeliverDueRemindersUseCase) requeueAll(ctx context.Context, reminders []*entity.Reminder) {
	for _, r := range reminders {
		if err := uc.queue.Requeue(ctx, r); err != nil {
			slog.Error("Failed to return reminder to queue", "reminder_id", r.ID, "error", err)
		}
	}
}
