package check

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// Validation field keys.
const (
	FieldTitle    = "title"
	FieldAmount   = "amount"
	FieldCurrency = "currency"
	FieldDueDate  = "dueDate"
	FieldPriority = "priority"
	FieldPayee    = "payee"
)

const (
	minPayeeLength = 2
	dateOnlyLayout = "2006-01-02"
	amountPlaces   = 2
)

// maxAmount is the exclusive upper bound that fits the stored decimal(15,2) column.
var maxAmount = decimal.New(1, 13)

// CheckForm carries raw user input for a new check.
type CheckForm struct {
	Title    string
	Amount   string
	Currency string // Optional, defaults to USD
	DueDate  string // RFC3339 or YYYY-MM-DD
	Priority string // Optional, defaults to medium
	Payee    string // Optional
}

// validatedForm is a CheckForm that passed validation.
type validatedForm struct {
	title    string
	amount   decimal.Decimal
	currency string
	dueDate  time.Time
	priority entity.Priority
	payee    string
}

// validateForm checks every field of a create form and collects all failures.
func validateForm(form CheckForm, loc *time.Location) (*validatedForm, error) {
	verr := domainerror.NewValidationError()
	out := &validatedForm{}

	out.title = validateTitle(form.Title, verr)
	out.amount = validateAmount(form.Amount, verr)
	out.currency = validateCurrency(form.Currency, verr)
	out.priority = validatePriority(form.Priority, verr)
	out.payee = validatePayee(form.Payee, verr)

	if strings.TrimSpace(form.DueDate) == "" {
		verr.Add(FieldDueDate, "Due date is required")
	} else {
		out.dueDate = validateDueDate(form.DueDate, loc, verr)
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return out, nil
}

func validateTitle(value string, verr *domainerror.ValidationError) string {
	title := strings.TrimSpace(value)
	if title == "" {
		verr.Add(FieldTitle, "Title is required")
	}
	return title
}

func validateAmount(value string, verr *domainerror.ValidationError) decimal.Decimal {
	raw := strings.TrimSpace(value)
	if raw == "" {
		verr.Add(FieldAmount, "Amount is required")
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Add(FieldAmount, "Amount must be a number")
		return decimal.Zero
	}
	switch {
	case !amount.IsPositive():
		verr.Add(FieldAmount, "Amount must be greater than zero")
	case !amount.Equal(amount.Truncate(amountPlaces)):
		verr.Add(FieldAmount, "Amount can have at most 2 decimal places")
	case amount.GreaterThanOrEqual(maxAmount):
		verr.Add(FieldAmount, "Amount is too large")
	}
	return amount
}

func validateCurrency(value string, verr *domainerror.ValidationError) string {
	currency := strings.ToUpper(strings.TrimSpace(value))
	if currency == "" {
		return entity.DefaultCurrency
	}
	if len(currency) != 3 {
		verr.Add(FieldCurrency, "Currency must be a 3-letter code")
		return currency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			verr.Add(FieldCurrency, "Currency must be a 3-letter code")
			break
		}
	}
	return currency
}

func validatePriority(value string, verr *domainerror.ValidationError) entity.Priority {
	priority := entity.Priority(strings.ToLower(strings.TrimSpace(value)))
	if priority == "" {
		return entity.PriorityMedium
	}
	if !priority.IsValid() {
		verr.Add(FieldPriority, "Priority must be low, medium or high")
	}
	return priority
}

func validatePayee(value string, verr *domainerror.ValidationError) string {
	payee := strings.TrimSpace(value)
	if payee != "" && utf8.RuneCountInString(payee) < minPayeeLength {
		verr.Add(FieldPayee, "Payee must be at least 2 characters")
	}
	return payee
}

func validateDueDate(value string, loc *time.Location, verr *domainerror.ValidationError) time.Time {
	due, ok := ParseDueDate(value, loc)
	if !ok {
		verr.Add(FieldDueDate, "Due date is invalid")
	}
	return due
}

// ParseDueDate accepts an RFC3339 timestamp or a calendar date.
// Calendar dates are placed at midnight in loc.
func ParseDueDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, value, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
