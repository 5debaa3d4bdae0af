package firestoredb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// checkDocument is the stored shape of a check in the checks collection.
type checkDocument struct {
	OwnerID        string      `firestore:"ownerId"`
	Title          string      `firestore:"title"`
	Amount         interface{} `firestore:"amount"` // Decimal string; older documents hold numbers
	Currency       string      `firestore:"currency"`
	DueDate        interface{} `firestore:"dueDate"` // ISO-8601 string; some documents hold timestamps
	Priority       string      `firestore:"priority"`
	Payee          *string     `firestore:"payee"` // Absent on documents created before payee existed
	Paid           bool        `firestore:"paid"`
	NotificationID string      `firestore:"notificationId"`
	CreatedAt      time.Time   `firestore:"createdAt"`
	UpdatedAt      time.Time   `firestore:"updatedAt"`
}

// removedCheckDocument is the stored shape of a check in the removed collection.
type removedCheckDocument struct {
	checkDocument
	OriginalID string    `firestore:"originalId"`
	RemovedAt  time.Time `firestore:"removedAt"`
}

func checkToDocument(check *entity.Check) checkDocument {
	var payee *string
	if check.Payee != "" {
		p := check.Payee
		payee = &p
	}

	return checkDocument{
		OwnerID:        check.OwnerID.String(),
		Title:          check.Title,
		Amount:         check.Amount.String(),
		Currency:       check.Currency,
		DueDate:        formatDueDate(check.DueDate),
		Priority:       string(check.Priority),
		Payee:          payee,
		Paid:           check.Paid,
		NotificationID: check.NotificationID,
		CreatedAt:      check.CreatedAt,
		UpdatedAt:      check.UpdatedAt,
	}
}

func (d checkDocument) toEntity(id string) (*entity.Check, error) {
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("check %s has invalid owner id: %w", id, err)
	}

	amount, err := parseAmount(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("check %s has invalid amount: %w", id, err)
	}

	dueDate, err := parseDueDate(d.DueDate)
	if err != nil {
		return nil, fmt.Errorf("check %s has invalid due date: %w", id, err)
	}

	currency := d.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}

	payee := ""
	if d.Payee != nil {
		payee = *d.Payee
	}

	return &entity.Check{
		ID:             id,
		OwnerID:        ownerID,
		Title:          d.Title,
		Amount:         amount,
		Currency:       currency,
		DueDate:        dueDate,
		Priority:       entity.PriorityOrDefault(entity.Priority(d.Priority)),
		Payee:          payee,
		Paid:           d.Paid,
		NotificationID: d.NotificationID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func removedToDocument(removed *entity.RemovedCheck) removedCheckDocument {
	return removedCheckDocument{
		checkDocument: checkToDocument(&removed.Check),
		OriginalID:    removed.OriginalID,
		RemovedAt:     removed.RemovedAt,
	}
}

func (d removedCheckDocument) toEntity(id string) (*entity.RemovedCheck, error) {
	check, err := d.checkDocument.toEntity(d.OriginalID)
	if err != nil {
		return nil, err
	}

	return &entity.RemovedCheck{
		ID:         id,
		OriginalID: d.OriginalID,
		RemovedAt:  d.RemovedAt,
		Check:      *check,
	}, nil
}

// parseAmount reads amounts written either as decimal strings or as numbers.
func parseAmount(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case string:
		return decimal.NewFromString(v)
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case nil:
		return decimal.Zero, fmt.Errorf("amount is missing")
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}

// dueDateLayout matches JavaScript's Date.toISOString.
const dueDateLayout = "2006-01-02T15:04:05.000Z07:00"

func formatDueDate(t time.Time) string {
	return t.UTC().Format(dueDateLayout)
}

// parseDueDate reads due dates written either as ISO-8601 strings or as timestamps.
func parseDueDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case nil:
		return time.Time{}, fmt.Errorf("due date is missing")
	default:
		return time.Time{}, fmt.Errorf("unsupported due date type %T", v)
	}
}
