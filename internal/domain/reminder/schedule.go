// Package reminder builds the graduated reminder plan for a check.
package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/checks-dashboard/backend/internal/domain/classifier"
	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// Offset is a reminder fire point relative to the due date.
type Offset struct {
	DaysBefore int
	Hour       int
	Minute     int
}

var (
	highOffsets   = []Offset{{7, 9, 0}, {3, 9, 0}, {1, 9, 0}, {0, 8, 0}}
	mediumOffsets = []Offset{{3, 9, 0}, {1, 9, 0}, {0, 8, 0}}
	lowOffsets    = []Offset{{1, 9, 0}, {0, 8, 0}}
)

// OffsetsFor returns the offsets for a priority, furthest-out first.
// A missing priority gets the medium cadence; unknown priorities get the low one.
func OffsetsFor(priority entity.Priority) []Offset {
	var src []Offset
	switch priority {
	case entity.PriorityHigh:
		src = highOffsets
	case entity.PriorityMedium, "":
		src = mediumOffsets
	default:
		src = lowOffsets
	}

	out := make([]Offset, len(src))
	copy(out, src)
	return out
}

// Entry is one reminder produced by Schedule.
type Entry struct {
	ID         string
	DaysBefore int
	FireAt     time.Time
	Message    string
}

// Plan is the ordered set of reminders kept for a check.
type Plan struct {
	CheckID string
	Entries []Entry
}

// IsEmpty reports whether no reminder qualified.
func (p Plan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// IDs returns the reminder identifiers in plan order.
func (p Plan) IDs() []string {
	ids := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		ids[i] = e.ID
	}
	return ids
}

// JoinedIDs returns the comma-joined identifiers stored on the check, or "" when empty.
func (p Plan) JoinedIDs() string {
	return strings.Join(p.IDs(), ",")
}

// ID returns the deterministic reminder identifier for a check and offset.
func ID(checkID string, daysBefore int) string {
	return fmt.Sprintf("%s-%d", checkID, daysBefore)
}

// SplitIDs reverses JoinedIDs. Blank input yields nil.
func SplitIDs(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}

	parts := strings.Split(joined, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// Schedule computes the reminders for a check due at due.
// Fire times are computed in now's location. A reminder is kept when its
// calendar day is today or later, even if its time of day has already passed.
func Schedule(checkID string, due time.Time, title string, priority entity.Priority, now time.Time) Plan {
	loc := now.Location()
	dueDay := classifier.StartOfDay(due.In(loc))
	today := classifier.StartOfDay(now)

	plan := Plan{CheckID: checkID}
	for _, off := range OffsetsFor(priority) {
		day := dueDay.AddDate(0, 0, -off.DaysBefore)
		fireAt := time.Date(day.Year(), day.Month(), day.Day(), off.Hour, off.Minute, 0, 0, loc)
		if fireAt.Before(today) {
			continue
		}

		plan.Entries = append(plan.Entries, Entry{
			ID:         ID(checkID, off.DaysBefore),
			DaysBefore: off.DaysBefore,
			FireAt:     fireAt,
			Message:    Message(title, off.DaysBefore),
		})
	}

	return plan
}

// Message returns the notification body for a reminder.
func Message(title string, daysBefore int) string {
	switch daysBefore {
	case 0:
		return title + " is due today"
	case 1:
		return title + " is due tomorrow"
	default:
		return fmt.Sprintf("%s is due in %d days", title, daysBefore)
	}
}
