package check

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/classifier"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// WatchDashboardInput represents a live dashboard subscription request.
type WatchDashboardInput struct {
	OwnerID  uuid.UUID
	Filter   string
	Query    string
	OnUpdate func(snapshot *DashboardSnapshot)
	OnError  func(err error)
}

// WatchDashboardOutput carries the handle that ends the subscription.
type WatchDashboardOutput struct {
	Unsubscribe adapter.Unsubscribe
}

// WatchDashboardUseCase streams recomputed dashboards on every store change.
type WatchDashboardUseCase struct {
	checkRepo adapter.CheckRepository
	clock     adapter.Clock
}

// NewWatchDashboardUseCase creates a new WatchDashboardUseCase instance.
func NewWatchDashboardUseCase(checkRepo adapter.CheckRepository, clock adapter.Clock) *WatchDashboardUseCase {
	return &WatchDashboardUseCase{
		checkRepo: checkRepo,
		clock:     clock,
	}
}

// Execute subscribes to the owner's checks. Every snapshot recomputes the
// filtered list and statistics from scratch.
func (uc *WatchDashboardUseCase) Execute(ctx context.Context, input WatchDashboardInput) (*WatchDashboardOutput, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return nil, err
	}
	if filter == classifier.FilterRemoved {
		return nil, domainerror.NewCheckError(
			domainerror.ErrCodeInvalidFilter,
			"the removed list cannot be watched",
			domainerror.ErrInvalidFilter,
		)
	}

	onError := input.OnError
	if onError == nil {
		onError = func(err error) {
			slog.Error("Dashboard subscription failed", "ownerID", input.OwnerID, "error", err)
		}
	}

	unsubscribe := uc.checkRepo.Subscribe(ctx, input.OwnerID,
		func(checks []*entity.Check) {
			input.OnUpdate(buildSnapshot(checks, input.Query, filter, uc.clock.Now()))
		},
		func(err error) {
			onError(persistenceError("watch checks", err))
		},
	)

	return &WatchDashboardOutput{Unsubscribe: unsubscribe}, nil
}
