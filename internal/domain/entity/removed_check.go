package entity

import "time"

// RemovedCheck is a soft-deleted check kept in the removed store so it can be restored.
type RemovedCheck struct {
	ID         string // Identifier of the removed record itself
	OriginalID string // The check's id before removal
	RemovedAt  time.Time
	Check      Check
}

// ToRemovedCheck copies a check into a removed record stamped with removedAt.
func ToRemovedCheck(check *Check, removedAt time.Time) *RemovedCheck {
	return &RemovedCheck{
		OriginalID: check.ID,
		RemovedAt:  removedAt,
		Check:      *check,
	}
}

// Restore rebuilds the active check under its original id.
func (r *RemovedCheck) Restore() *Check {
	check := r.Check
	check.ID = r.OriginalID
	return &check
}
