// Package check contains check-related use cases.
package check

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// CreateCheckInput represents the input for check creation.
type CreateCheckInput struct {
	OwnerID    uuid.UUID
	OwnerEmail string // Recipient of the check's reminders
	Form       CheckForm
}

// CreateCheckOutput represents the output of check creation.
type CreateCheckOutput struct {
	Check CheckView
}

// CreateCheckUseCase handles check creation logic.
type CreateCheckUseCase struct {
	checkRepo    adapter.CheckRepository
	reminderSink adapter.ReminderSink
	clock        adapter.Clock
}

// NewCreateCheckUseCase creates a new CreateCheckUseCase instance.
func NewCreateCheckUseCase(
	checkRepo adapter.CheckRepository,
	reminderSink adapter.ReminderSink,
	clock adapter.Clock,
) *CreateCheckUseCase {
	return &CreateCheckUseCase{
		checkRepo:    checkRepo,
		reminderSink: reminderSink,
		clock:        clock,
	}
}

// Execute performs the check creation.
func (uc *CreateCheckUseCase) Execute(ctx context.Context, input CreateCheckInput) (*CreateCheckOutput, error) {
	now := uc.clock.Now()

	form, err := validateForm(input.Form, now.Location())
	if err != nil {
		return nil, err
	}

	check := entity.NewCheck(
		input.OwnerID,
		form.title,
		form.amount,
		form.currency,
		form.dueDate,
		form.priority,
		form.payee,
		now,
	)

	id, err := uc.checkRepo.Create(ctx, check)
	if err != nil {
		return nil, persistenceError("create check", err)
	}
	check.ID = id

	joined, err := scheduleReminders(ctx, uc.reminderSink, check, input.OwnerEmail, now)
	if err != nil {
		// The check stays created without reminders.
		slog.Warn("Failed to schedule reminders for new check", "checkID", id, "error", err)
	} else if joined != "" {
		if err := uc.checkRepo.Update(ctx, id, entity.CheckUpdate{NotificationID: &joined}); err != nil {
			slog.Error("Failed to store reminder ids on check", "checkID", id, "error", err)
		} else {
			check.NotificationID = joined
		}
	}

	slog.Info("Check created", "checkID", id, "ownerID", input.OwnerID, "reminders", joined)

	return &CreateCheckOutput{
		Check: newCheckView(check, now),
	}, nil
}
