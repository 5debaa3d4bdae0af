package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReminderTitle is the notification title used for every check reminder.
const ReminderTitle = "Check Reminder"

// DefaultReminderMaxAttempts is the number of delivery attempts before a reminder is dropped.
const DefaultReminderMaxAttempts = 3

// Reminder is a single scheduled notification for a check.
type Reminder struct {
	ID             string // "{checkId}-{daysBefore}"
	CheckID        string
	OwnerID        uuid.UUID
	RecipientEmail string
	FireAt         time.Time
	Title          string
	Body           string
	Priority       Priority
	Attempts       int
	MaxAttempts    int
	LastError      string
}

// MarkFailed records a failed delivery attempt.
// It returns true when the reminder should be queued again at its new FireAt.
func (r *Reminder) MarkFailed(err error, permanent bool, now time.Time) bool {
	r.Attempts++
	if err != nil {
		r.LastError = err.Error()
	}

	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultReminderMaxAttempts
	}
	if permanent || r.Attempts >= maxAttempts {
		return false
	}

	r.FireAt = now.Add(r.retryDelay())
	return true
}

// retryDelay returns the backoff before the next attempt.
// Retry delays: 1min, 5min
func (r *Reminder) retryDelay() time.Duration {
	delays := []time.Duration{0, 1 * time.Minute, 5 * time.Minute}
	if r.Attempts < len(delays) {
		return delays[r.Attempts]
	}
	return 5 * time.Minute
}
