package check

import (
	"context"
	"log/slog"
	"time"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
	"github.com/checks-dashboard/backend/internal/domain/reminder"
)

// scheduleReminders queues the reminder plan for a check and returns the joined ids.
// Paid checks get no reminders.
func scheduleReminders(
	ctx context.Context,
	sink adapter.ReminderSink,
	check *entity.Check,
	recipient string,
	now time.Time,
) (string, error) {
	if check.Paid {
		return "", nil
	}

	plan := reminder.Schedule(check.ID, check.DueDate, check.Title, check.Priority, now)
	if plan.IsEmpty() {
		return "", nil
	}

	reminders := make([]*entity.Reminder, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		reminders = append(reminders, &entity.Reminder{
			ID:             e.ID,
			CheckID:        check.ID,
			OwnerID:        check.OwnerID,
			RecipientEmail: recipient,
			FireAt:         e.FireAt,
			Title:          entity.ReminderTitle,
			Body:           e.Message,
			Priority:       check.Priority,
			MaxAttempts:    entity.DefaultReminderMaxAttempts,
		})
	}

	if err := sink.Schedule(ctx, reminders); err != nil {
		return "", domainerror.NewReminderError(
			domainerror.ErrCodeReminderScheduleFailed,
			"failed to schedule reminders",
			err,
		)
	}

	return plan.JoinedIDs(), nil
}

// cancelReminders cancels the reminders referenced by a check.
// Failures are logged and never returned.
func cancelReminders(ctx context.Context, sink adapter.ReminderSink, check *entity.Check) {
	ids := reminder.SplitIDs(check.NotificationID)
	if len(ids) == 0 {
		return
	}

	if err := sink.Cancel(ctx, ids); err != nil {
		slog.Warn("Failed to cancel check reminders",
			"checkID", check.ID,
			"reminderIDs", check.NotificationID,
			"error", domainerror.NewReminderError(domainerror.ErrCodeReminderCancelFailed, "failed to cancel reminders", err),
		)
	}
}
