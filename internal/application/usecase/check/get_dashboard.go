package check

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/aggregator"
)

// GetDashboardInput represents the input for dashboard statistics.
type GetDashboardInput struct {
	OwnerID uuid.UUID
}

// GetDashboardOutput represents the dashboard statistics.
type GetDashboardOutput struct {
	Stats       aggregator.DashboardStats
	Currencies  aggregator.CurrencyStats
	GeneratedAt time.Time
}

// GetDashboardUseCase computes dashboard statistics for an owner.
type GetDashboardUseCase struct {
	checkRepo adapter.CheckRepository
	clock     adapter.Clock
}

// NewGetDashboardUseCase creates a new GetDashboardUseCase instance.
func NewGetDashboardUseCase(checkRepo adapter.CheckRepository, clock adapter.Clock) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		checkRepo: checkRepo,
		clock:     clock,
	}
}

// Execute computes the statistics over the owner's active checks.
func (uc *GetDashboardUseCase) Execute(ctx context.Context, input GetDashboardInput) (*GetDashboardOutput, error) {
	checks, err := uc.checkRepo.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, persistenceError("load dashboard", err)
	}

	now := uc.clock.Now()
	return &GetDashboardOutput{
		Stats:       aggregator.ComputeDashboardStats(checks, now),
		Currencies:  aggregator.ComputeCurrencyStats(checks),
		GeneratedAt: now,
	}, nil
}
