package check

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/classifier"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// createFixture creates an unpaid medium check due on 2025-03-13 and returns it.
func createFixture(t *testing.T, repo *fakeRepository, sink *fakeSink, ownerID uuid.UUID) *entity.Check {
	t.Helper()

	uc := NewCreateCheckUseCase(repo, sink, fixedClock{testNow})
	output, err := uc.Execute(context.Background(), CreateCheckInput{
		OwnerID:    ownerID,
		OwnerEmail: "owner@example.com",
		Form:       CheckForm{Title: "Rent", Amount: "100", DueDate: "2025-03-13", Payee: "Landlord"},
	})
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	return output.Check.Check
}

func TestUpdateCheck_MarkPaidCancelsReminders(t *testing.T) {
	repo, sink, ownerID := newFakeRepository(), newFakeSink(), uuid.New()
	check := createFixture(t, repo, sink, ownerID)
	uc := NewUpdateCheckUseCase(repo, sink, fixedClock{testNow})

	output, err := uc.Execute(context.Background(), UpdateCheckInput{
		CheckID: check.ID,
		OwnerID: ownerID,
		Paid:    boolPtr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !output.Check.Check.Paid || output.Check.Status.Bucket != classifier.BucketComplete {
		t.Errorf("expected paid complete check, got %+v", output.Check)
	}
	if output.Check.Check.NotificationID != "" {
		t.Errorf("expected cleared notification ids, got %q", output.Check.Check.NotificationID)
	}
	if len(sink.ids()) != 0 {
		t.Errorf("expected all reminders cancelled, still have %v", sink.ids())
	}

	stored, _ := repo.FindByID(context.Background(), check.ID)
	if !stored.Paid || stored.NotificationID != "" {
		t.Errorf("unexpected stored check %+v", stored)
	}
}

func TestUpdateCheck_PaidCheckIsNotEditable(t *testing.T) {
	repo, sink, ownerID := newFakeRepository(), newFakeSink(), uuid.New()
	check := createFixture(t, repo, sink, ownerID)
	uc := NewUpdateCheckUseCase(repo, sink, fixedClock{testNow})

	if _, err := uc.Execute(context.Background(), UpdateCheckInput{CheckID: check.ID, OwnerID: ownerID, Paid: boolPtr(true)}); err != nil {
		t.Fatalf("failed to mark paid: %v", err)
	}

	_, err := uc.Execute(context.Background(), UpdateCheckInput{
		CheckID: check.ID,
		OwnerID: ownerID,
		Title:   strPtr("Rent April"),
	})
	if !errors.Is(err, domainerror.ErrCheckPaidNotEditable) {
		t.Fatalf("expected ErrCheckPaidNotEditable, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), check.ID)
	if stored.Title != "Rent" {
		t.Errorf("expected title to stay unchanged, got %q", stored.Title)
	}
}

func TestUpdateCheck_UnpayReschedules(t *testing.T) {
	repo, sink, ownerID := newFakeRepository(), newFakeSink(), uuid.New()
	check := createFixture(t, repo, sink, ownerID)
	uc := NewUpdateCheckUseCase(repo, sink, fixedClock{testNow})

	if _, err := uc.Execute(context.Background(), UpdateCheckInput{CheckID: check.ID, OwnerID: ownerID, Paid: boolPtr(true)}); err != nil {
		t.Fatalf("failed to mark paid: %v", err)
	}

	output, err := uc.Execute(context.Background(), UpdateCheckInput{
		CheckID:    check.ID,
		OwnerID:    ownerID,
		OwnerEmail: "owner@example.com",
		Paid:       boolPtr(false),
		Priority:   strPtr("low"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := check.ID + "-1," + check.ID + "-0"
	if output.Check.Check.NotificationID != expected {
		t.Errorf("expected notification ids %q, got %q", expected, output.Check.Check.NotificationID)
	}
	if !reflect.DeepEqual(sink.ids(), []string{check.ID + "-0", check.ID + "-1"}) {
		t.Errorf("unexpected scheduled reminders %v", sink.ids())
	}
}

func TestUpdateCheck_DueDateChangeReschedules(t *testing.T) {
	repo, sink, ownerID := newFakeRepository(), newFakeSink(), uuid.New()
	check := createFixture(t, repo, sink, ownerID)
	uc := NewUpdateCheckUseCase(repo, sink, fixedClock{testNow})

	output, err := uc.Execute(context.Background(), UpdateCheckInput{
		CheckID: check.ID,
		OwnerID: ownerID,
		DueDate: strPtr("2025-03-11"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sink.cancelled, []string{check.ID + "-3", check.ID + "-1", check.ID + "-0"}) {
		t.Errorf("expected old reminders cancelled, got %v", sink.cancelled)
	}
	expected := check.ID + "-1," + check.ID + "-0"
	if output.Check.Check.NotificationID != expected {
		t.Errorf("expected %q, got %q", expected, output.Check.Check.NotificationID)
	}
	want := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	if !output.Check.Check.DueDate.Equal(want) {
		t.Errorf("expected due date %v, got %v", want, output.Check.Check.DueDate)
	}
}

func TestUpdateCheck_AmountChangeKeepsReminders(t *testing.T) {
	repo, sink, ownerID := newFakeRepository(), newFakeSink(), uuid.New()
	check := createFixture(t, repo, sink, ownerID)
	uc := NewUpdateCheckUseCase(repo, sink, fixedClock{testNow})

	output, err := uc.Execute(context.Background(), UpdateCheckInput{
		CheckID: check.ID,
		OwnerID: ownerID,
		Amount:  strPtr("250"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !output.Check.Check.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected amount 250, got %s", output.Check.Check.Amount)
	}
	if len(sink.cancelled) != 0 {
		t.Errorf("expected no cancellations, got %v", sink.cancelled)
	}
	if output.Check.Check.NotificationID != check.NotificationID {
		t.Errorf("expected reminders unchanged, got %q", output.Check.Check.NotificationID)
	}
}

func TestUpdateCheck_Errors(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name     string
		input    func(id string) UpdateCheckInput
		expected error
	}{
		{
			name:     "empty update",
			input:    func(id string) UpdateCheckInput { return UpdateCheckInput{CheckID: id, OwnerID: ownerID} },
			expected: domainerror.ErrEmptyCheckUpdate,
		},
		{
			name: "other owner",
			input: func(id string) UpdateCheckInput {
				return UpdateCheckInput{CheckID: id, OwnerID: uuid.New(), Paid: boolPtr(true)}
			},
			expected: domainerror.ErrNotAuthorizedToModifyCheck,
		},
		{
			name: "missing check",
			input: func(string) UpdateCheckInput {
				return UpdateCheckInput{CheckID: "nope", OwnerID: ownerID, Paid: boolPtr(true)}
			},
			expected: domainerror.ErrCheckNotFound,
		},
		{
			name: "invalid amount",
			input: func(id string) UpdateCheckInput {
				return UpdateCheckInput{CheckID: id, OwnerID: ownerID, Amount: strPtr("-1")}
			},
			expected: domainerror.ErrValidation,
		},
		{
			name: "blank due date",
			input: func(id string) UpdateCheckInput {
				return UpdateCheckInput{CheckID: id, OwnerID: ownerID, DueDate: strPtr(" ")}
			},
			expected: domainerror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, sink := newFakeRepository(), newFakeSink()
			check := createFixture(t, repo, sink, ownerID)
			uc := NewUpdateCheckUseCase(repo, sink, fixedClock{testNow})

			_, err := uc.Execute(context.Background(), tt.input(check.ID))
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}
