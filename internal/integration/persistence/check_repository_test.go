package persistence

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
	"github.com/checks-dashboard/backend/internal/integration/persistence/model"
)

var testNow = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSQL, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	dbSQL.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbSQL.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	if err := db.AutoMigrate(&model.CheckModel{}, &model.RemovedCheckModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// memoryNotifier is an in-process ChangeNotifier.
type memoryNotifier struct {
	mu        sync.Mutex
	listeners map[uuid.UUID][]chan struct{}
	published int
}

func newMemoryNotifier() *memoryNotifier {
	return &memoryNotifier{listeners: make(map[uuid.UUID][]chan struct{})}
}

func (n *memoryNotifier) Publish(_ context.Context, ownerID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published++
	for _, ch := range n.listeners[ownerID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (n *memoryNotifier) Listen(_ context.Context, ownerID uuid.UUID) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ownerID] = append(n.listeners[ownerID], ch)
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			list := n.listeners[ownerID]
			for i, c := range list {
				if c == ch {
					n.listeners[ownerID] = append(list[:i], list[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}, nil
}

func newTestCheck(ownerID uuid.UUID, title string, dayOffset int) *entity.Check {
	return entity.NewCheck(
		ownerID,
		title,
		decimal.RequireFromString("120.50"),
		"JOD",
		testNow.AddDate(0, 0, dayOffset),
		entity.PriorityHigh,
		"Acme",
		testNow,
	)
}

func TestCheckRepository_CreateAndFind(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), nil)
	ctx := context.Background()
	ownerID := uuid.New()

	check := newTestCheck(ownerID, "Insurance", 5)
	id, err := repo.Create(ctx, check)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" || check.ID != id {
		t.Fatalf("expected assigned id, got %q / %q", id, check.ID)
	}

	found, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Title != "Insurance" || found.Currency != "JOD" || found.Payee != "Acme" ||
		found.Priority != entity.PriorityHigh || found.OwnerID != ownerID {
		t.Errorf("unexpected check %+v", found)
	}
	if !found.Amount.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("expected amount 120.50, got %s", found.Amount)
	}
	if !found.DueDate.Equal(check.DueDate) {
		t.Errorf("expected due date %v, got %v", check.DueDate, found.DueDate)
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domainerror.ErrCheckNotFound) {
		t.Errorf("expected ErrCheckNotFound, got %v", err)
	}
}

func TestCheckRepository_FindByOwnerOrdersByDueDate(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), nil)
	ctx := context.Background()
	ownerID := uuid.New()

	for _, c := range []*entity.Check{
		newTestCheck(ownerID, "Late", 9),
		newTestCheck(ownerID, "Early", 1),
		newTestCheck(uuid.New(), "Other owner", 2),
		newTestCheck(ownerID, "Middle", 4),
	} {
		if _, err := repo.Create(ctx, c); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
	}

	checks, err := repo.FindByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"Early", "Middle", "Late"}
	if len(checks) != len(expected) {
		t.Fatalf("expected %d checks, got %d", len(expected), len(checks))
	}
	for i, title := range expected {
		if checks[i].Title != title {
			t.Errorf("position %d: expected %s, got %s", i, title, checks[i].Title)
		}
	}
}

func TestCheckRepository_PartialUpdate(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), nil)
	ctx := context.Background()

	check := newTestCheck(uuid.New(), "Insurance", 5)
	id, _ := repo.Create(ctx, check)

	paid := true
	ids := ""
	payee := ""
	if err := repo.Update(ctx, id, entity.CheckUpdate{Paid: &paid, NotificationID: &ids, Payee: &payee, UpdatedAt: testNow.Add(time.Hour)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, _ := repo.FindByID(ctx, id)
	if !found.Paid || found.Payee != "" || found.Title != "Insurance" {
		t.Errorf("unexpected check after update %+v", found)
	}
	if !found.UpdatedAt.Equal(testNow.Add(time.Hour)) {
		t.Errorf("expected updatedAt to move, got %v", found.UpdatedAt)
	}

	if err := repo.Update(ctx, "missing", entity.CheckUpdate{Paid: &paid}); !errors.Is(err, domainerror.ErrCheckNotFound) {
		t.Errorf("expected ErrCheckNotFound, got %v", err)
	}
}

func TestCheckRepository_SoftDeleteAndRestore(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), nil)
	ctx := context.Background()
	ownerID := uuid.New()

	check := newTestCheck(ownerID, "Insurance", 5)
	check.NotificationID = "x-7,x-3"
	id, _ := repo.Create(ctx, check)

	removedAt := testNow.Add(2 * time.Hour)
	if err := repo.SoftDelete(ctx, id, removedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.FindByID(ctx, id); !errors.Is(err, domainerror.ErrCheckNotFound) {
		t.Errorf("expected live record to be gone, got %v", err)
	}

	removed, err := repo.FindRemovedByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("expected 1 removed record, got %d", len(removed))
	}
	record := removed[0]
	if record.OriginalID != id || record.ID == id || !record.RemovedAt.Equal(removedAt) {
		t.Errorf("unexpected removed record %+v", record)
	}

	byID, err := repo.FindRemovedByID(ctx, record.ID)
	if err != nil || byID.OriginalID != id {
		t.Fatalf("expected to find removed record by id, got %v", err)
	}

	if err := repo.Restore(ctx, byID); err != nil {
		t.Fatalf("unexpected restore error: %v", err)
	}

	restored, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("expected restored check under original id, got %v", err)
	}
	if restored.Title != check.Title || !restored.Amount.Equal(check.Amount) || restored.Currency != check.Currency ||
		restored.Payee != check.Payee || restored.Priority != check.Priority || !restored.DueDate.Equal(check.DueDate) ||
		restored.NotificationID != check.NotificationID {
		t.Errorf("restored check differs:\n got %+v\nwant %+v", restored, check)
	}

	if _, err := repo.FindRemovedByID(ctx, record.ID); !errors.Is(err, domainerror.ErrRemovedCheckNotFound) {
		t.Errorf("expected removed record to be deleted, got %v", err)
	}
}

func TestCheckRepository_SoftDeleteMissing(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), nil)

	if err := repo.SoftDelete(context.Background(), "missing", testNow); !errors.Is(err, domainerror.ErrCheckNotFound) {
		t.Errorf("expected ErrCheckNotFound, got %v", err)
	}
}

func TestCheckRepository_RestoreOntoActiveID(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), nil)
	ctx := context.Background()
	ownerID := uuid.New()

	id, _ := repo.Create(ctx, newTestCheck(ownerID, "Insurance", 5))
	if err := repo.SoftDelete(ctx, id, testNow); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	removed, _ := repo.FindRemovedByOwner(ctx, ownerID)

	// Restore twice: the second attempt finds the id already active.
	if err := repo.Restore(ctx, removed[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Restore(ctx, removed[0]); !errors.Is(err, domainerror.ErrCheckAlreadyExists) {
		t.Errorf("expected ErrCheckAlreadyExists, got %v", err)
	}
}

func TestCheckRepository_RemovedOrderedByRemovalTime(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), nil)
	ctx := context.Background()
	ownerID := uuid.New()

	for i, title := range []string{"First", "Second", "Third"} {
		id, _ := repo.Create(ctx, newTestCheck(ownerID, title, i))
		if err := repo.SoftDelete(ctx, id, testNow.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
	}

	removed, err := repo.FindRemovedByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"Third", "Second", "First"}
	for i, title := range expected {
		if removed[i].Check.Title != title {
			t.Errorf("position %d: expected %s, got %s", i, title, removed[i].Check.Title)
		}
	}
}

func TestCheckRepository_LegacyNullPayee(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckRepository(db, nil)
	ownerID := uuid.New()

	legacy := model.CheckModel{
		ID:        "legacy-1",
		OwnerID:   ownerID,
		Title:     "Old check",
		Amount:    decimal.NewFromInt(10),
		Currency:  "USD",
		DueDate:   testNow,
		Priority:  "low",
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("failed to insert legacy row: %v", err)
	}

	found, err := repo.FindByID(context.Background(), "legacy-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Payee != "" {
		t.Errorf("expected empty payee for legacy row, got %q", found.Payee)
	}
}

func TestCheckRepository_LegacyEmptyPriority(t *testing.T) {
	db := newTestDB(t)
	repo := NewCheckRepository(db, nil)
	ctx := context.Background()

	id, err := repo.Create(ctx, newTestCheck(uuid.New(), "Old check", 5))
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if err := db.Model(&model.CheckModel{}).Where("id = ?", id).Update("priority", "").Error; err != nil {
		t.Fatalf("failed to blank priority: %v", err)
	}

	found, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Priority != entity.PriorityMedium {
		t.Errorf("expected missing priority to read as medium, got %q", found.Priority)
	}
}

func TestCheckRepository_Subscribe(t *testing.T) {
	notifier := newMemoryNotifier()
	repo := NewCheckRepository(newTestDB(t), notifier)
	ctx := context.Background()
	ownerID := uuid.New()

	snapshots := make(chan []*entity.Check, 10)
	unsubscribe := repo.Subscribe(ctx, ownerID,
		func(checks []*entity.Check) { snapshots <- checks },
		func(err error) { t.Errorf("unexpected subscription error: %v", err) },
	)

	waitFor := func(count int) {
		t.Helper()
		select {
		case got := <-snapshots:
			if len(got) != count {
				t.Errorf("expected snapshot with %d checks, got %d", count, len(got))
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for snapshot with %d checks", count)
		}
	}

	waitFor(0)

	if _, err := repo.Create(ctx, newTestCheck(ownerID, "Insurance", 5)); err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	waitFor(1)

	unsubscribe()
	unsubscribe()

	if _, err := repo.Create(ctx, newTestCheck(ownerID, "Rent", 6)); err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	select {
	case got := <-snapshots:
		t.Errorf("expected no snapshot after unsubscribe, got %d checks", len(got))
	case <-time.After(100 * time.Millisecond):
	}
}

// failingNotifier never opens a change channel.
type failingNotifier struct{}

func (failingNotifier) Publish(context.Context, uuid.UUID) error { return nil }

func (failingNotifier) Listen(context.Context, uuid.UUID) (<-chan struct{}, func(), error) {
	return nil, nil, errors.New("pubsub unavailable")
}

func TestCheckRepository_SubscribeWithoutChangeFeed(t *testing.T) {
	repo := NewCheckRepository(newTestDB(t), failingNotifier{})
	ownerID := uuid.New()

	var listenErr error
	snapshots := make(chan []*entity.Check, 1)
	unsubscribe := repo.Subscribe(context.Background(), ownerID,
		func(checks []*entity.Check) { snapshots <- checks },
		func(err error) { listenErr = err },
	)

	if listenErr == nil {
		t.Error("expected the listen failure to be reported")
	}

	select {
	case got := <-snapshots:
		if len(got) != 0 {
			t.Errorf("expected an empty initial snapshot, got %d checks", len(got))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the initial snapshot")
	}

	unsubscribe()
	unsubscribe()
}
