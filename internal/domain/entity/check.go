// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority drives reminder cadence and color coding of a check.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultCurrency is used when a check is stored without a currency.
const DefaultCurrency = "USD"

// IsValid reports whether the priority is one of the known values.
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// PriorityOrDefault returns p, or PriorityMedium for checks stored without a priority.
func PriorityOrDefault(p Priority) Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

// Check represents a tracked payment obligation.
type Check struct {
	ID             string // Assigned by the check store on creation
	OwnerID        uuid.UUID
	Title          string
	Amount         decimal.Decimal
	Currency       string
	DueDate        time.Time
	Priority       Priority
	Payee          string // Empty for legacy records created without a payee
	Paid           bool
	NotificationID string // Comma-joined reminder ids
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCheck creates a new unpaid Check without an ID.
// Missing currency and priority fall back to their defaults.
func NewCheck(
	ownerID uuid.UUID,
	title string,
	amount decimal.Decimal,
	currency string,
	dueDate time.Time,
	priority Priority,
	payee string,
	now time.Time,
) *Check {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Check{
		OwnerID:   ownerID,
		Title:     title,
		Amount:    amount,
		Currency:  currency,
		DueDate:   dueDate,
		Priority:  PriorityOrDefault(priority),
		Payee:     payee,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CheckUpdate holds the fields of a partial check update. Nil fields are left untouched.
type CheckUpdate struct {
	Title          *string
	Amount         *decimal.Decimal
	Currency       *string
	DueDate        *time.Time
	Priority       *Priority
	Payee          *string
	Paid           *bool
	NotificationID *string
	UpdatedAt      time.Time
}

// IsEmpty reports whether the update carries no field changes.
func (u CheckUpdate) IsEmpty() bool {
	return u.Title == nil && u.Amount == nil && u.Currency == nil && u.DueDate == nil &&
		u.Priority == nil && u.Payee == nil && u.Paid == nil && u.NotificationID == nil
}

// TouchesContent reports whether the update edits any user-visible field other than Paid.
func (u CheckUpdate) TouchesContent() bool {
	return u.Title != nil || u.Amount != nil || u.Currency != nil || u.DueDate != nil ||
		u.Priority != nil || u.Payee != nil
}

// Apply copies the non-nil fields of the update onto the check.
func (c *Check) Apply(u CheckUpdate) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Amount != nil {
		c.Amount = *u.Amount
	}
	if u.Currency != nil {
		c.Currency = *u.Currency
	}
	if u.DueDate != nil {
		c.DueDate = *u.DueDate
	}
	if u.Priority != nil {
		c.Priority = *u.Priority
	}
	if u.Payee != nil {
		c.Payee = *u.Payee
	}
	if u.Paid != nil {
		c.Paid = *u.Paid
	}
	if u.NotificationID != nil {
		c.NotificationID = *u.NotificationID
	}
	if !u.UpdatedAt.IsZero() {
		c.UpdatedAt = u.UpdatedAt
	}
}
