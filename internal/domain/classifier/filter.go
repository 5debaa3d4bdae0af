package classifier

import (
	"time"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// Kind is one of the selectable list views.
type Kind string

const (
	FilterAll       Kind = "all"
	FilterToday     Kind = "today"
	FilterOverdue   Kind = "overdue"
	FilterUpcoming  Kind = "upcoming"
	FilterCompleted Kind = "completed"
	FilterRemoved   Kind = "removed" // Served from the removed store, never matched here
)

// ParseFilter converts a query value into a filter kind. Empty means all.
func ParseFilter(value string) (Kind, bool) {
	switch Kind(value) {
	case "":
		return FilterAll, true
	case FilterAll, FilterToday, FilterOverdue, FilterUpcoming, FilterCompleted, FilterRemoved:
		return Kind(value), true
	default:
		return "", false
	}
}

// MatchesFilter reports whether a check belongs to the given view.
func MatchesFilter(check *entity.Check, filter Kind, now time.Time) bool {
	switch filter {
	case FilterAll:
		return true
	case FilterToday:
		return !check.Paid && DaysLeft(check.DueDate, now) == 0
	case FilterOverdue:
		// Strictly before today's midnight.
		return !check.Paid && check.DueDate.Before(StartOfDay(now))
	case FilterUpcoming:
		days := DaysLeft(check.DueDate, now)
		return !check.Paid && days >= 1 && days <= 7
	case FilterCompleted:
		return check.Paid
	default:
		return false
	}
}
