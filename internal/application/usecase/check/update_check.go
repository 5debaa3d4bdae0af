package check

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// UpdateCheckInput represents the input for a partial check update.
type UpdateCheckInput struct {
	CheckID    string
	OwnerID    uuid.UUID
	OwnerEmail string
	Title      *string // Optional
	Amount     *string // Optional
	Currency   *string // Optional
	DueDate    *string // Optional
	Priority   *string // Optional
	Payee      *string // Optional, empty clears it
	Paid       *bool   // Optional
}

// UpdateCheckOutput represents the output of a check update.
type UpdateCheckOutput struct {
	Check CheckView
}

// UpdateCheckUseCase handles check update logic.
type UpdateCheckUseCase struct {
	checkRepo    adapter.CheckRepository
	reminderSink adapter.ReminderSink
	clock        adapter.Clock
}

// NewUpdateCheckUseCase creates a new UpdateCheckUseCase instance.
func NewUpdateCheckUseCase(
	checkRepo adapter.CheckRepository,
	reminderSink adapter.ReminderSink,
	clock adapter.Clock,
) *UpdateCheckUseCase {
	return &UpdateCheckUseCase{
		checkRepo:    checkRepo,
		reminderSink: reminderSink,
		clock:        clock,
	}
}

// Execute performs the check update.
func (uc *UpdateCheckUseCase) Execute(ctx context.Context, input UpdateCheckInput) (*UpdateCheckOutput, error) {
	now := uc.clock.Now()

	update, err := validateUpdate(input, now)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, domainerror.NewCheckError(
			domainerror.ErrCodeEmptyCheckUpdate,
			"no fields to update",
			domainerror.ErrEmptyCheckUpdate,
		)
	}

	check, err := findOwnedCheck(ctx, uc.checkRepo, input.CheckID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	// A paid check only accepts edits in the same request that marks it unpaid.
	stillPaid := update.Paid == nil || *update.Paid
	if check.Paid && stillPaid && update.TouchesContent() {
		return nil, domainerror.NewCheckError(
			domainerror.ErrCodeCheckPaidNotEditable,
			"paid check cannot be edited",
			domainerror.ErrCheckPaidNotEditable,
		)
	}

	next := *check
	next.Apply(update)

	if err := uc.checkRepo.Update(ctx, check.ID, update); err != nil {
		return nil, persistenceError("update check", err)
	}

	if ids, changed := uc.syncReminders(ctx, check, &next, input.OwnerEmail, now); changed {
		if err := uc.checkRepo.Update(ctx, check.ID, entity.CheckUpdate{NotificationID: &ids}); err != nil {
			slog.Error("Failed to store reminder ids on check", "checkID", check.ID, "error", err)
		} else {
			next.NotificationID = ids
		}
	}

	return &UpdateCheckOutput{
		Check: newCheckView(&next, now),
	}, nil
}

// syncReminders brings the queued reminders in line with the updated check.
// It returns the new joined ids and whether they differ from the stored ones.
func (uc *UpdateCheckUseCase) syncReminders(
	ctx context.Context,
	before, after *entity.Check,
	recipient string,
	now time.Time,
) (string, bool) {
	switch {
	case after.Paid && !before.Paid:
		cancelReminders(ctx, uc.reminderSink, before)
		return "", before.NotificationID != ""

	case !after.Paid && (before.Paid || reminderInputsChanged(before, after)):
		cancelReminders(ctx, uc.reminderSink, before)
		joined, err := scheduleReminders(ctx, uc.reminderSink, after, recipient, now)
		if err != nil {
			slog.Warn("Failed to reschedule reminders", "checkID", after.ID, "error", err)
			joined = ""
		}
		return joined, joined != before.NotificationID

	default:
		return before.NotificationID, false
	}
}

// reminderInputsChanged reports whether a field used by the reminder plan changed.
func reminderInputsChanged(before, after *entity.Check) bool {
	return !before.DueDate.Equal(after.DueDate) ||
		before.Title != after.Title ||
		before.Priority != after.Priority
}

// validateUpdate validates the provided fields and converts them into a CheckUpdate.
func validateUpdate(input UpdateCheckInput, now time.Time) (entity.CheckUpdate, error) {
	verr := domainerror.NewValidationError()
	update := entity.CheckUpdate{UpdatedAt: now}

	if input.Title != nil {
		title := validateTitle(*input.Title, verr)
		update.Title = &title
	}
	if input.Amount != nil {
		amount := validateAmount(*input.Amount, verr)
		update.Amount = &amount
	}
	if input.Currency != nil {
		currency := validateCurrency(*input.Currency, verr)
		update.Currency = &currency
	}
	if input.DueDate != nil {
		if strings.TrimSpace(*input.DueDate) == "" {
			verr.Add(FieldDueDate, "Due date is required")
		} else {
			due := validateDueDate(*input.DueDate, now.Location(), verr)
			update.DueDate = &due
		}
	}
	if input.Priority != nil {
		priority := validatePriority(*input.Priority, verr)
		update.Priority = &priority
	}
	if input.Payee != nil {
		payee := validatePayee(*input.Payee, verr)
		update.Payee = &payee
	}
	if input.Paid != nil {
		paid := *input.Paid
		update.Paid = &paid
	}

	if verr.HasErrors() {
		return entity.CheckUpdate{}, verr
	}
	return update, nil
}
