package check

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/classifier"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// ListChecksInput represents the input for listing checks.
type ListChecksInput struct {
	OwnerID uuid.UUID
	Filter  string // Optional, defaults to all
	Query   string // Optional search on title or payee
}

// ListChecksOutput represents the output of listing checks.
// Removed is only populated for the removed filter.
type ListChecksOutput struct {
	Filter  classifier.Kind
	Checks  []CheckView
	Removed []*entity.RemovedCheck
}

// ListChecksUseCase handles check listing logic.
type ListChecksUseCase struct {
	checkRepo adapter.CheckRepository
	clock     adapter.Clock
}

// NewListChecksUseCase creates a new ListChecksUseCase instance.
func NewListChecksUseCase(checkRepo adapter.CheckRepository, clock adapter.Clock) *ListChecksUseCase {
	return &ListChecksUseCase{
		checkRepo: checkRepo,
		clock:     clock,
	}
}

// Execute performs the check listing.
func (uc *ListChecksUseCase) Execute(ctx context.Context, input ListChecksInput) (*ListChecksOutput, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return nil, err
	}

	if filter == classifier.FilterRemoved {
		removed, err := uc.checkRepo.FindRemovedByOwner(ctx, input.OwnerID)
		if err != nil {
			return nil, persistenceError("list removed checks", err)
		}
		return &ListChecksOutput{
			Filter:  filter,
			Checks:  []CheckView{},
			Removed: searchRemoved(removed, input.Query),
		}, nil
	}

	checks, err := uc.checkRepo.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, persistenceError("list checks", err)
	}

	now := uc.clock.Now()
	return &ListChecksOutput{
		Filter:  filter,
		Checks:  newCheckViews(classifier.Filter(checks, input.Query, filter, now), now),
		Removed: []*entity.RemovedCheck{},
	}, nil
}

// searchRemoved applies the search query to removed records, most recently removed first.
func searchRemoved(removed []*entity.RemovedCheck, query string) []*entity.RemovedCheck {
	out := make([]*entity.RemovedCheck, 0, len(removed))
	for _, r := range removed {
		if classifier.MatchesQuery(&r.Check, query) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RemovedAt.After(out[j].RemovedAt)
	})
	return out
}

func parseFilter(value string) (classifier.Kind, error) {
	filter, ok := classifier.ParseFilter(strings.ToLower(strings.TrimSpace(value)))
	if !ok {
		return "", domainerror.NewCheckError(
			domainerror.ErrCodeInvalidFilter,
			"filter must be one of all, today, overdue, upcoming, completed, removed",
			domainerror.ErrInvalidFilter,
		)
	}
	return filter, nil
}
