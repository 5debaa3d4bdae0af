package adapter

import (
	"context"
	"time"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// ReminderSink accepts reminder plans produced for checks.
// Scheduling a reminder whose ID already exists replaces it.
type ReminderSink interface {
	// Schedule queues reminders for delivery.
	Schedule(ctx context.Context, reminders []*entity.Reminder) error

	// Cancel removes queued reminders by ID. Unknown IDs are ignored.
	Cancel(ctx context.Context, ids []string) error
}

// ReminderQueue is the delivery side of the reminder sink.
type ReminderQueue interface {
	ReminderSink

	// ClaimDue removes and returns up to limit reminders whose fire time is not after now.
	// A reminder is handed to at most one caller.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.Reminder, error)

	// Requeue puts a claimed reminder back with its updated fire time and attempt count.
	Requeue(ctx context.Context, reminder *entity.Reminder) error

	// Pending returns the number of queued reminders.
	Pending(ctx context.Context) (int64, error)
}

// SendReminderResult represents the provider's answer for a delivered reminder.
type SendReminderResult struct {
	ProviderID string
}

// ReminderSender delivers a due reminder to its recipient (e.g., via Resend).
// Failures that must not be retried are reported as permanent ReminderErrors.
type ReminderSender interface {
	Send(ctx context.Context, reminder *entity.Reminder) (*SendReminderResult, error)
}
