// Package classifier assigns checks to lifecycle buckets and list filters.
// Every function takes "now" explicitly; none of them reads the system clock.
package classifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// Bucket is the mutually exclusive lifecycle classification of a check.
type Bucket string

const (
	BucketComplete Bucket = "complete"
	BucketOverdue  Bucket = "overdue"
	BucketDue      Bucket = "due"
	BucketUrgent   Bucket = "urgent"
	BucketUpcoming Bucket = "upcoming"
	BucketFuture   Bucket = "future"
)

// Colors shown for buckets and priorities.
const (
	ColorSuccess = "#34C759"
	ColorDanger  = "#FF3B30"
	ColorWarning = "#FF9500"
	ColorMuted   = "#8E8E93"
)

var bucketColors = map[Bucket]string{
	BucketComplete: ColorSuccess,
	BucketOverdue:  ColorDanger,
	BucketDue:      ColorWarning,
	BucketUrgent:   ColorWarning,
	BucketUpcoming: ColorSuccess,
	BucketFuture:   ColorMuted,
}

// Status is the display status of a single check.
type Status struct {
	Bucket Bucket
	Color  string
	Label  string
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysLeft returns the number of calendar days from now until due.
// Both instants are reduced to their calendar date in now's location, so the
// result is 0 for anything due today regardless of the time of day.
func DaysLeft(due, now time.Time) int {
	dy, dm, dd := due.In(now.Location()).Date()
	ny, nm, nd := now.Date()

	// Civil dates compared in UTC so DST transitions never shorten a day.
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today) / (24 * time.Hour))
}

// StatusOf classifies a check relative to now.
func StatusOf(check *entity.Check, now time.Time) Status {
	if check.Paid {
		return newStatus(BucketComplete, "Complete")
	}

	days := DaysLeft(check.DueDate, now)
	switch {
	case days < 0:
		return newStatus(BucketOverdue, fmt.Sprintf("%d days overdue", -days))
	case days == 0:
		return newStatus(BucketDue, "Due today")
	case days <= 3:
		return newStatus(BucketUrgent, fmt.Sprintf("%d days left", days))
	case days <= 7:
		return newStatus(BucketUpcoming, fmt.Sprintf("%d days left", days))
	default:
		return newStatus(BucketFuture, fmt.Sprintf("%d days left", days))
	}
}

func newStatus(bucket Bucket, label string) Status {
	return Status{Bucket: bucket, Color: bucketColors[bucket], Label: label}
}

// PriorityColor returns the color associated with a priority.
func PriorityColor(priority entity.Priority) string {
	switch priority {
	case entity.PriorityHigh:
		return ColorDanger
	case entity.PriorityMedium:
		return ColorWarning
	case entity.PriorityLow:
		return ColorSuccess
	default:
		return ColorMuted
	}
}

// MatchesQuery reports whether the query is a case-insensitive substring of
// the check's title or payee. A blank query matches everything.
func MatchesQuery(check *entity.Check, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(check.Title), q) {
		return true
	}
	return check.Payee != "" && strings.Contains(strings.ToLower(check.Payee), q)
}

// Search narrows checks to those matching the query.
// A blank query returns the input unchanged.
func Search(checks []*entity.Check, query string) []*entity.Check {
	if strings.TrimSpace(query) == "" {
		return checks
	}

	result := make([]*entity.Check, 0, len(checks))
	for _, c := range checks {
		if MatchesQuery(c, query) {
			result = append(result, c)
		}
	}
	return result
}

// Filter applies search, then the filter tab, then orders by ascending due date.
// The input slice is never reordered.
func Filter(checks []*entity.Check, query string, filter Kind, now time.Time) []*entity.Check {
	searched := Search(checks, query)

	result := make([]*entity.Check, 0, len(searched))
	for _, c := range searched {
		if MatchesFilter(c, filter, now) {
			result = append(result, c)
		}
	}

	SortByDueDate(result)
	return result
}

// SortByDueDate orders checks by ascending due date, keeping input order on ties.
func SortByDueDate(checks []*entity.Check) {
	sort.SliceStable(checks, func(i, j int) bool {
		return checks[i].DueDate.Before(checks[j].DueDate)
	})
}
