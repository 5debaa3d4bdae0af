package firestoredb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// newEmulatorClient connects to the Firestore emulator or skips the test.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "checks-dashboard-test")
	if err != nil {
		t.Fatalf("failed to connect to emulator: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCheckRepository_Emulator(t *testing.T) {
	repo := NewCheckRepository(newEmulatorClient(t))
	ctx := context.Background()
	ownerID := uuid.New()

	check := entity.NewCheck(ownerID, "Insurance", decimal.RequireFromString("120.50"), "JOD", testNow.AddDate(0, 0, 5), entity.PriorityHigh, "Acme", testNow)
	id, err := repo.Create(ctx, check)
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	snapshots := make(chan []*entity.Check, 10)
	unsubscribe := repo.Subscribe(ctx, ownerID,
		func(checks []*entity.Check) { snapshots <- checks },
		func(err error) { t.Errorf("unexpected subscription error: %v", err) },
	)
	defer unsubscribe()

	select {
	case got := <-snapshots:
		if len(got) != 1 || got[0].ID != id {
			t.Errorf("expected initial snapshot with the created check, got %d checks", len(got))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	paid := true
	if err := repo.Update(ctx, id, entity.CheckUpdate{Paid: &paid, UpdatedAt: testNow}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	if err := repo.SoftDelete(ctx, id, testNow); err != nil {
		t.Fatalf("failed to soft delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, id); !errors.Is(err, domainerror.ErrCheckNotFound) {
		t.Errorf("expected live document to be gone, got %v", err)
	}

	removed, err := repo.FindRemovedByOwner(ctx, ownerID)
	if err != nil || len(removed) != 1 {
		t.Fatalf("expected 1 removed record, got %d (%v)", len(removed), err)
	}

	if err := repo.Restore(ctx, removed[0]); err != nil {
		t.Fatalf("failed to restore: %v", err)
	}
	restored, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("expected restored document, got %v", err)
	}
	if !restored.Paid || restored.Payee != "Acme" || !restored.Amount.Equal(check.Amount) {
		t.Errorf("unexpected restored check %+v", restored)
	}

	unsubscribe()
	unsubscribe()
}
