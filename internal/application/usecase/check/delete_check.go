package check

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// DeleteCheckInput represents the input for check deletion.
type DeleteCheckInput struct {
	CheckID string
	OwnerID uuid.UUID
}

// DeleteCheckUseCase handles soft deletion of checks.
type DeleteCheckUseCase struct {
	checkRepo    adapter.CheckRepository
	reminderSink adapter.ReminderSink
	clock        adapter.Clock
}

// NewDeleteCheckUseCase creates a new DeleteCheckUseCase instance.
func NewDeleteCheckUseCase(
	checkRepo adapter.CheckRepository,
	reminderSink adapter.ReminderSink,
	clock adapter.Clock,
) *DeleteCheckUseCase {
	return &DeleteCheckUseCase{
		checkRepo:    checkRepo,
		reminderSink: reminderSink,
		clock:        clock,
	}
}

// Execute moves the check to the removed store. Paid checks are refused.
func (uc *DeleteCheckUseCase) Execute(ctx context.Context, input DeleteCheckInput) error {
	check, err := findOwnedCheck(ctx, uc.checkRepo, input.CheckID, input.OwnerID)
	if err != nil {
		return err
	}

	if check.Paid {
		return domainerror.NewCheckError(
			domainerror.ErrCodeCheckPaidNotDeletable,
			"paid check cannot be deleted",
			domainerror.ErrCheckPaidNotDeletable,
		)
	}

	cancelReminders(ctx, uc.reminderSink, check)

	if err := uc.checkRepo.SoftDelete(ctx, check.ID, uc.clock.Now()); err != nil {
		if errors.Is(err, domainerror.ErrCheckNotFound) {
			return domainerror.NewCheckError(
				domainerror.ErrCodeCheckNotFound,
				"check not found",
				domainerror.ErrCheckNotFound,
			)
		}
		return persistenceError("delete check", err)
	}

	slog.Info("Check removed", "checkID", check.ID, "ownerID", input.OwnerID)
	return nil
}
