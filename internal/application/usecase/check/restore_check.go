package check

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// RestoreCheckInput represents the input for restoring a removed check.
type RestoreCheckInput struct {
	RemovedID  string
	OwnerID    uuid.UUID
	OwnerEmail string
}

// RestoreCheckOutput represents the output of a restore.
type RestoreCheckOutput struct {
	Check CheckView
}

// RestoreCheckUseCase moves a removed check back into the active store.
type RestoreCheckUseCase struct {
	checkRepo    adapter.CheckRepository
	reminderSink adapter.ReminderSink
	clock        adapter.Clock
}

// NewRestoreCheckUseCase creates a new RestoreCheckUseCase instance.
func NewRestoreCheckUseCase(
	checkRepo adapter.CheckRepository,
	reminderSink adapter.ReminderSink,
	clock adapter.Clock,
) *RestoreCheckUseCase {
	return &RestoreCheckUseCase{
		checkRepo:    checkRepo,
		reminderSink: reminderSink,
		clock:        clock,
	}
}

// Execute performs the restore.
func (uc *RestoreCheckUseCase) Execute(ctx context.Context, input RestoreCheckInput) (*RestoreCheckOutput, error) {
	removed, err := findOwnedRemovedCheck(ctx, uc.checkRepo, input.RemovedID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	// Reminders were cancelled on removal.
	removed.Check.NotificationID = ""
	removed.Check.UpdatedAt = now

	if err := uc.checkRepo.Restore(ctx, removed); err != nil {
		if errors.Is(err, domainerror.ErrCheckAlreadyExists) {
			return nil, domainerror.NewCheckError(
				domainerror.ErrCodeCheckAlreadyExists,
				"a check with this id is already active",
				domainerror.ErrCheckAlreadyExists,
			)
		}
		return nil, persistenceError("restore check", err)
	}

	check := removed.Restore()

	joined, err := scheduleReminders(ctx, uc.reminderSink, check, input.OwnerEmail, now)
	if err != nil {
		slog.Warn("Failed to schedule reminders for restored check", "checkID", check.ID, "error", err)
	} else if joined != "" {
		if err := uc.checkRepo.Update(ctx, check.ID, entity.CheckUpdate{NotificationID: &joined}); err != nil {
			slog.Error("Failed to store reminder ids on check", "checkID", check.ID, "error", err)
		} else {
			check.NotificationID = joined
		}
	}

	slog.Info("Check restored", "checkID", check.ID, "ownerID", input.OwnerID)

	return &RestoreCheckOutput{
		Check: newCheckView(check, now),
	}, nil
}
