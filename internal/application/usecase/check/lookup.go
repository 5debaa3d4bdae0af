package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// findOwnedCheck loads an active check and verifies it belongs to ownerID.
func findOwnedCheck(ctx context.Context, repo adapter.CheckRepository, id string, ownerID uuid.UUID) (*entity.Check, error) {
	check, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrCheckNotFound) {
			return nil, domainerror.NewCheckError(
				domainerror.ErrCodeCheckNotFound,
				"check not found",
				domainerror.ErrCheckNotFound,
			)
		}
		return nil, domainerror.NewPersistenceError("failed to find check", err)
	}

	if check.OwnerID != ownerID {
		return nil, domainerror.NewCheckError(
			domainerror.ErrCodeNotAuthorizedCheck,
			"not authorized to modify this check",
			domainerror.ErrNotAuthorizedToModifyCheck,
		)
	}

	return check, nil
}

// findOwnedRemovedCheck loads a removed record and verifies it belongs to ownerID.
func findOwnedRemovedCheck(ctx context.Context, repo adapter.CheckRepository, id string, ownerID uuid.UUID) (*entity.RemovedCheck, error) {
	removed, err := repo.FindRemovedByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrRemovedCheckNotFound) {
			return nil, domainerror.NewCheckError(
				domainerror.ErrCodeRemovedCheckNotFound,
				"removed check not found",
				domainerror.ErrRemovedCheckNotFound,
			)
		}
		return nil, domainerror.NewPersistenceError("failed to find removed check", err)
	}

	if removed.Check.OwnerID != ownerID {
		// Other owners' records are reported as missing.
		return nil, domainerror.NewCheckError(
			domainerror.ErrCodeRemovedCheckNotFound,
			"removed check not found",
			domainerror.ErrRemovedCheckNotFound,
		)
	}

	return removed, nil
}

func persistenceError(action string, err error) error {
	return domainerror.NewPersistenceError(fmt.Sprintf("failed to %s", action), err)
}
