package check

import (
	"time"

	"github.com/checks-dashboard/backend/internal/domain/aggregator"
	"github.com/checks-dashboard/backend/internal/domain/classifier"
	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// CheckView is a check together with its status at the time of the request.
type CheckView struct {
	Check  *entity.Check
	Status classifier.Status
}

func newCheckView(check *entity.Check, now time.Time) CheckView {
	return CheckView{Check: check, Status: classifier.StatusOf(check, now)}
}

func newCheckViews(checks []*entity.Check, now time.Time) []CheckView {
	views := make([]CheckView, len(checks))
	for i, c := range checks {
		views[i] = newCheckView(c, now)
	}
	return views
}

// DashboardSnapshot is the full dashboard state computed from one store snapshot.
type DashboardSnapshot struct {
	Filter      classifier.Kind
	Query       string
	Checks      []CheckView
	Stats       aggregator.DashboardStats
	Currencies  aggregator.CurrencyStats
	GeneratedAt time.Time
}

// buildSnapshot recomputes the list and statistics from scratch.
func buildSnapshot(checks []*entity.Check, query string, filter classifier.Kind, now time.Time) *DashboardSnapshot {
	return &DashboardSnapshot{
		Filter:      filter,
		Query:       query,
		Checks:      newCheckViews(classifier.Filter(checks, query, filter, now), now),
		Stats:       aggregator.ComputeDashboardStats(checks, now),
		Currencies:  aggregator.ComputeCurrencyStats(checks),
		GeneratedAt: now,
	}
}
