// Package firestoredb implements the check repository on Cloud Firestore.
package firestoredb

import (
	"context"
	"errors"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// Collection names.
const (
	ChecksCollection        = "checks"
	RemovedChecksCollection = "removed_checks"
)

// checkRepository implements the adapter.CheckRepository interface.
// Subscribe uses Firestore's native query snapshots.
type checkRepository struct {
	client *firestore.Client
}

// NewCheckRepository creates a new Firestore check repository instance.
func NewCheckRepository(client *firestore.Client) adapter.CheckRepository {
	return &checkRepository{
		client: client,
	}
}

func (r *checkRepository) checks() *firestore.CollectionRef {
	return r.client.Collection(ChecksCollection)
}

func (r *checkRepository) removed() *firestore.CollectionRef {
	return r.client.Collection(RemovedChecksCollection)
}

func (r *checkRepository) ownerQuery(ownerID uuid.UUID) firestore.Query {
	return r.checks().
		Where("ownerId", "==", ownerID.String()).
		OrderBy("dueDate", firestore.Asc)
}

// Subscribe streams query snapshots of the owner's active checks.
func (r *checkRepository) Subscribe(
	ctx context.Context,
	ownerID uuid.UUID,
	onSnapshot adapter.SnapshotHandler,
	onError adapter.ErrorHandler,
) adapter.Unsubscribe {
	subCtx, cancel := context.WithCancel(ctx)
	it := r.ownerQuery(ownerID).Snapshots(subCtx)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			it.Stop()
		})
	}

	go func() {
		for {
			snap, err := it.Next()
			if err != nil {
				if !isStreamClosed(err) && subCtx.Err() == nil {
					onError(err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				if subCtx.Err() == nil {
					onError(err)
				}
				return
			}

			checks, err := decodeChecks(docs)
			if err != nil {
				onError(err)
				continue
			}
			onSnapshot(checks)
		}
	}()

	return unsubscribe
}

// Create adds a new document and returns its generated ID.
func (r *checkRepository) Create(ctx context.Context, check *entity.Check) (string, error) {
	ref := r.checks().NewDoc()
	if _, err := ref.Create(ctx, checkToDocument(check)); err != nil {
		return "", err
	}

	check.ID = ref.ID
	return ref.ID, nil
}

// FindByID retrieves an active check by its document ID.
func (r *checkRepository) FindByID(ctx context.Context, id string) (*entity.Check, error) {
	snap, err := r.checks().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domainerror.ErrCheckNotFound
		}
		return nil, err
	}
	return decodeCheck(snap)
}

// FindByOwner retrieves all active checks for an owner ordered by due date.
func (r *checkRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Check, error) {
	docs, err := r.ownerQuery(ownerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeChecks(docs)
}

// Update applies a partial update to an active check.
func (r *checkRepository) Update(ctx context.Context, id string, update entity.CheckUpdate) error {
	updates := checkUpdates(update)
	if len(updates) == 0 {
		return nil
	}

	if _, err := r.checks().Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return domainerror.ErrCheckNotFound
		}
		return err
	}
	return nil
}

// SoftDelete copies the check into the removed collection and deletes it, in one transaction.
func (r *checkRepository) SoftDelete(ctx context.Context, id string, removedAt time.Time) error {
	ref := r.checks().Doc(id)
	removedRef := r.removed().NewDoc()

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domainerror.ErrCheckNotFound
			}
			return err
		}

		check, err := decodeCheck(snap)
		if err != nil {
			return err
		}

		removed := entity.ToRemovedCheck(check, removedAt)
		if err := tx.Create(removedRef, removedToDocument(removed)); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
}

// FindRemovedByOwner lists removed checks for an owner, most recently removed first.
func (r *checkRepository) FindRemovedByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.RemovedCheck, error) {
	docs, err := r.removed().
		Where("ownerId", "==", ownerID.String()).
		OrderBy("removedAt", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	removed := make([]*entity.RemovedCheck, 0, len(docs))
	for _, snap := range docs {
		rc, err := decodeRemoved(snap)
		if err != nil {
			return nil, err
		}
		removed = append(removed, rc)
	}
	return removed, nil
}

// FindRemovedByID retrieves a removed record by its document ID.
func (r *checkRepository) FindRemovedByID(ctx context.Context, id string) (*entity.RemovedCheck, error) {
	snap, err := r.removed().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domainerror.ErrRemovedCheckNotFound
		}
		return nil, err
	}
	return decodeRemoved(snap)
}

// Restore writes the check back under its original ID and deletes the removed record.
func (r *checkRepository) Restore(ctx context.Context, removed *entity.RemovedCheck) error {
	ref := r.checks().Doc(removed.OriginalID)
	removedRef := r.removed().Doc(removed.ID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err == nil {
			return domainerror.ErrCheckAlreadyExists
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		if _, err := tx.Get(removedRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return domainerror.ErrRemovedCheckNotFound
			}
			return err
		}

		if err := tx.Create(ref, checkToDocument(removed.Restore())); err != nil {
			return err
		}
		return tx.Delete(removedRef)
	})
}

// checkUpdates converts a partial update into Firestore field updates.
func checkUpdates(update entity.CheckUpdate) []firestore.Update {
	var updates []firestore.Update
	if update.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *update.Title})
	}
	if update.Amount != nil {
		updates = append(updates, firestore.Update{Path: "amount", Value: update.Amount.String()})
	}
	if update.Currency != nil {
		updates = append(updates, firestore.Update{Path: "currency", Value: *update.Currency})
	}
	if update.DueDate != nil {
		updates = append(updates, firestore.Update{Path: "dueDate", Value: formatDueDate(*update.DueDate)})
	}
	if update.Priority != nil {
		updates = append(updates, firestore.Update{Path: "priority", Value: string(*update.Priority)})
	}
	if update.Payee != nil {
		if *update.Payee == "" {
			updates = append(updates, firestore.Update{Path: "payee", Value: firestore.Delete})
		} else {
			updates = append(updates, firestore.Update{Path: "payee", Value: *update.Payee})
		}
	}
	if update.Paid != nil {
		updates = append(updates, firestore.Update{Path: "paid", Value: *update.Paid})
	}
	if update.NotificationID != nil {
		updates = append(updates, firestore.Update{Path: "notificationId", Value: *update.NotificationID})
	}
	if len(updates) > 0 && !update.UpdatedAt.IsZero() {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: update.UpdatedAt})
	}
	return updates
}

func decodeCheck(snap *firestore.DocumentSnapshot) (*entity.Check, error) {
	var doc checkDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toEntity(snap.Ref.ID)
}

func decodeChecks(docs []*firestore.DocumentSnapshot) ([]*entity.Check, error) {
	checks := make([]*entity.Check, 0, len(docs))
	for _, snap := range docs {
		check, err := decodeCheck(snap)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func decodeRemoved(snap *firestore.DocumentSnapshot) (*entity.RemovedCheck, error) {
	var doc removedCheckDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toEntity(snap.Ref.ID)
}

// isStreamClosed reports whether a snapshot iterator ended because it was stopped.
func isStreamClosed(err error) bool {
	return errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled
}
