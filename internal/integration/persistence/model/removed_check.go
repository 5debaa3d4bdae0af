package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// RemovedCheckModel represents the removed_checks table in the database.
// It mirrors CheckModel plus the original id and removal time.
type RemovedCheckModel struct {
	ID             string          `gorm:"type:varchar(64);primaryKey"`
	OriginalID     string          `gorm:"type:varchar(64);not null;index"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title          string          `gorm:"type:varchar(255);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	DueDate        time.Time       `gorm:"not null"`
	Priority       string          `gorm:"type:varchar(10);not null;default:'medium'"`
	Payee          *string         `gorm:"type:varchar(255)"`
	Paid           bool            `gorm:"not null;default:false"`
	NotificationID string          `gorm:"column:notification_id;type:text;not null;default:''"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
	RemovedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for the RemovedCheckModel.
func (RemovedCheckModel) TableName() string {
	return "removed_checks"
}

// ToEntity converts a RemovedCheckModel to a domain RemovedCheck entity.
func (m *RemovedCheckModel) ToEntity() *entity.RemovedCheck {
	check := CheckModel{
		ID:             m.OriginalID,
		OwnerID:        m.OwnerID,
		Title:          m.Title,
		Amount:         m.Amount,
		Currency:       m.Currency,
		DueDate:        m.DueDate,
		Priority:       m.Priority,
		Payee:          m.Payee,
		Paid:           m.Paid,
		NotificationID: m.NotificationID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	return &entity.RemovedCheck{
		ID:         m.ID,
		OriginalID: m.OriginalID,
		RemovedAt:  m.RemovedAt,
		Check:      *check.ToEntity(),
	}
}

// RemovedCheckFromEntity creates a RemovedCheckModel from a domain RemovedCheck entity.
func RemovedCheckFromEntity(removed *entity.RemovedCheck) *RemovedCheckModel {
	c := CheckFromEntity(&removed.Check)

	return &RemovedCheckModel{
		ID:             removed.ID,
		OriginalID:     removed.OriginalID,
		OwnerID:        c.OwnerID,
		Title:          c.Title,
		Amount:         c.Amount,
		Currency:       c.Currency,
		DueDate:        c.DueDate,
		Priority:       c.Priority,
		Payee:          c.Payee,
		Paid:           c.Paid,
		NotificationID: c.NotificationID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		RemovedAt:      removed.RemovedAt,
	}
}
