// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// CheckModel represents the checks table in the database.
type CheckModel struct {
	ID             string          `gorm:"type:varchar(64);primaryKey"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title          string          `gorm:"type:varchar(255);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	DueDate        time.Time       `gorm:"not null;index"`
	Priority       string          `gorm:"type:varchar(10);not null;default:'medium'"`
	Payee          *string         `gorm:"type:varchar(255)"` // Null on rows created before payee existed
	Paid           bool            `gorm:"not null;default:false"`
	NotificationID string          `gorm:"column:notification_id;type:text;not null;default:''"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the CheckModel.
func (CheckModel) TableName() string {
	return "checks"
}

// ToEntity converts a CheckModel to a domain Check entity.
func (m *CheckModel) ToEntity() *entity.Check {
	currency := m.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}

	return &entity.Check{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Title:          m.Title,
		Amount:         m.Amount,
		Currency:       currency,
		DueDate:        m.DueDate,
		Priority:       entity.PriorityOrDefault(entity.Priority(m.Priority)),
		Payee:          derefString(m.Payee),
		Paid:           m.Paid,
		NotificationID: m.NotificationID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CheckFromEntity creates a CheckModel from a domain Check entity.
func CheckFromEntity(check *entity.Check) *CheckModel {
	return &CheckModel{
		ID:             check.ID,
		OwnerID:        check.OwnerID,
		Title:          check.Title,
		Amount:         check.Amount,
		Currency:       check.Currency,
		DueDate:        check.DueDate,
		Priority:       string(check.Priority),
		Payee:          optionalString(check.Payee),
		Paid:           check.Paid,
		NotificationID: check.NotificationID,
		CreatedAt:      check.CreatedAt,
		UpdatedAt:      check.UpdatedAt,
	}
}

// CheckUpdateColumns converts a partial update into a column map for gorm Updates.
func CheckUpdateColumns(update entity.CheckUpdate) map[string]interface{} {
	columns := make(map[string]interface{})
	if update.Title != nil {
		columns["title"] = *update.Title
	}
	if update.Amount != nil {
		columns["amount"] = *update.Amount
	}
	if update.Currency != nil {
		columns["currency"] = *update.Currency
	}
	if update.DueDate != nil {
		columns["due_date"] = *update.DueDate
	}
	if update.Priority != nil {
		columns["priority"] = string(*update.Priority)
	}
	if update.Payee != nil {
		columns["payee"] = optionalString(*update.Payee)
	}
	if update.Paid != nil {
		columns["paid"] = *update.Paid
	}
	if update.NotificationID != nil {
		columns["notification_id"] = *update.NotificationID
	}
	if !update.UpdatedAt.IsZero() {
		columns["updated_at"] = update.UpdatedAt
	}
	return columns
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
