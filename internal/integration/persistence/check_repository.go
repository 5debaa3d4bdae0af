// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
	"github.com/checks-dashboard/backend/internal/integration/persistence/model"
)

// checkRepository implements the adapter.CheckRepository interface.
// Active checks live in the checks table and removed ones in removed_checks.
type checkRepository struct {
	db       *gorm.DB
	notifier adapter.ChangeNotifier
}

// NewCheckRepository creates a new check repository instance.
// The notifier drives Subscribe; without one subscribers only get the initial snapshot.
func NewCheckRepository(db *gorm.DB, notifier adapter.ChangeNotifier) adapter.CheckRepository {
	return &checkRepository{
		db:       db,
		notifier: notifier,
	}
}

// Subscribe emits the owner's active checks now and after every published change.
func (r *checkRepository) Subscribe(
	ctx context.Context,
	ownerID uuid.UUID,
	onSnapshot adapter.SnapshotHandler,
	onError adapter.ErrorHandler,
) adapter.Unsubscribe {
	subCtx, cancel := context.WithCancel(ctx)

	var changes <-chan struct{}
	stop := func() {}
	if r.notifier != nil {
		ch, stopListening, err := r.notifier.Listen(subCtx, ownerID)
		if err != nil {
			onError(err)
		} else {
			changes, stop = ch, stopListening
		}
	}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			stop()
		})
	}

	go func() {
		emit := func() {
			checks, err := r.FindByOwner(subCtx, ownerID)
			if err != nil {
				if subCtx.Err() == nil {
					onError(err)
				}
				return
			}
			// Unsubscribe can land between this check and the call, letting
			// one in-flight snapshot through.
			if subCtx.Err() == nil {
				onSnapshot(checks)
			}
		}

		emit()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return unsubscribe
}

// Create inserts a new check and assigns its ID.
func (r *checkRepository) Create(ctx context.Context, check *entity.Check) (string, error) {
	checkModel := model.CheckFromEntity(check)
	checkModel.ID = uuid.NewString()

	result := r.db.WithContext(ctx).Create(checkModel)
	if result.Error != nil {
		return "", result.Error
	}

	check.ID = checkModel.ID
	r.publish(ctx, check.OwnerID)
	return checkModel.ID, nil
}

// FindByID retrieves an active check by its ID.
func (r *checkRepository) FindByID(ctx context.Context, id string) (*entity.Check, error) {
	var checkModel model.CheckModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&checkModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCheckNotFound
		}
		return nil, result.Error
	}
	return checkModel.ToEntity(), nil
}

// FindByOwner retrieves all active checks for an owner ordered by due date.
func (r *checkRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Check, error) {
	var checkModels []model.CheckModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("due_date ASC").
		Find(&checkModels)
	if result.Error != nil {
		return nil, result.Error
	}

	checks := make([]*entity.Check, len(checkModels))
	for i, cm := range checkModels {
		checks[i] = cm.ToEntity()
	}
	return checks, nil
}

// Update applies a partial update to an active check.
func (r *checkRepository) Update(ctx context.Context, id string, update entity.CheckUpdate) error {
	columns := model.CheckUpdateColumns(update)
	if len(columns) == 0 {
		return nil
	}

	var ownerID uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var checkModel model.CheckModel
		if err := tx.Select("id", "owner_id").Where("id = ?", id).First(&checkModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrCheckNotFound
			}
			return err
		}
		ownerID = checkModel.OwnerID

		return tx.Model(&model.CheckModel{}).Where("id = ?", id).Updates(columns).Error
	})
	if err != nil {
		return err
	}

	r.publish(ctx, ownerID)
	return nil
}

// SoftDelete copies the check into removed_checks, then deletes the live row.
// Both statements run in one transaction so a failed copy never loses the check.
func (r *checkRepository) SoftDelete(ctx context.Context, id string, removedAt time.Time) error {
	var ownerID uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var checkModel model.CheckModel
		if err := tx.Where("id = ?", id).First(&checkModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrCheckNotFound
			}
			return err
		}
		ownerID = checkModel.OwnerID

		removed := entity.ToRemovedCheck(checkModel.ToEntity(), removedAt)
		removed.ID = uuid.NewString()
		if err := tx.Create(model.RemovedCheckFromEntity(removed)).Error; err != nil {
			return err
		}

		return tx.Delete(&model.CheckModel{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	r.publish(ctx, ownerID)
	return nil
}

// FindRemovedByOwner lists removed checks for an owner, most recently removed first.
func (r *checkRepository) FindRemovedByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.RemovedCheck, error) {
	var removedModels []model.RemovedCheckModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("removed_at DESC").
		Find(&removedModels)
	if result.Error != nil {
		return nil, result.Error
	}

	removed := make([]*entity.RemovedCheck, len(removedModels))
	for i, rm := range removedModels {
		removed[i] = rm.ToEntity()
	}
	return removed, nil
}

// FindRemovedByID retrieves a removed record by its own ID.
func (r *checkRepository) FindRemovedByID(ctx context.Context, id string) (*entity.RemovedCheck, error) {
	var removedModel model.RemovedCheckModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&removedModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRemovedCheckNotFound
		}
		return nil, result.Error
	}
	return removedModel.ToEntity(), nil
}

// Restore re-inserts the check under its original ID and deletes the removed record.
func (r *checkRepository) Restore(ctx context.Context, removed *entity.RemovedCheck) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.CheckModel{}).Where("id = ?", removed.OriginalID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domainerror.ErrCheckAlreadyExists
		}

		if err := tx.Create(model.CheckFromEntity(removed.Restore())).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.RemovedCheckModel{}, "id = ?", removed.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrRemovedCheckNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.publish(ctx, removed.Check.OwnerID)
	return nil
}

// publish announces a change to subscribers. Failures only delay live updates.
func (r *checkRepository) publish(ctx context.Context, ownerID uuid.UUID) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Publish(ctx, ownerID); err != nil {
		slog.Warn("Failed to publish check change", "ownerID", ownerID, "error", err)
	}
}
