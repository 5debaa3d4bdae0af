// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// SnapshotHandler receives the full list of an owner's active checks.
type SnapshotHandler func(checks []*entity.Check)

// ErrorHandler receives subscription failures.
type ErrorHandler func(err error)

// Unsubscribe tears a subscription down. It is safe to call more than once.
// A snapshot already being delivered when it is called may still reach the
// handler once after it returns; no later change is delivered.
type Unsubscribe func()

// CheckRepository defines the interface for check persistence operations.
// Active checks and removed checks live in two separate stores.
type CheckRepository interface {
	// Subscribe delivers a snapshot of the owner's active checks now and after every change.
	// Snapshots are complete lists; a newer snapshot supersedes an older one.
	Subscribe(ctx context.Context, ownerID uuid.UUID, onSnapshot SnapshotHandler, onError ErrorHandler) Unsubscribe

	// Create stores a new check, assigns its ID and returns it.
	Create(ctx context.Context, check *entity.Check) (string, error)

	// FindByID retrieves an active check by its ID.
	FindByID(ctx context.Context, id string) (*entity.Check, error)

	// FindByOwner retrieves all active checks for an owner ordered by due date.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Check, error)

	// Update applies a partial update to an active check.
	Update(ctx context.Context, id string, update entity.CheckUpdate) error

	// SoftDelete copies the check into the removed store, then deletes the live record.
	// The copy must succeed before the delete happens.
	SoftDelete(ctx context.Context, id string, removedAt time.Time) error

	// FindRemovedByOwner lists removed checks for an owner, most recently removed first.
	FindRemovedByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.RemovedCheck, error)

	// FindRemovedByID retrieves a removed record by its own ID.
	FindRemovedByID(ctx context.Context, id string) (*entity.RemovedCheck, error)

	// Restore re-inserts the check under its original ID and deletes the removed record.
	Restore(ctx context.Context, removed *entity.RemovedCheck) error
}

// Clock supplies the current time. Use cases never call time.Now directly.
type Clock interface {
	Now() time.Time
}
