package dto

import (
	"time"

	checkuc "github.com/checks-dashboard/backend/internal/application/usecase/check"
	"github.com/checks-dashboard/backend/internal/domain/classifier"
	"github.com/checks-dashboard/backend/internal/domain/entity"
)

// CreateCheckRequest represents the request body for check creation.
// Field rules are enforced by the use case so every failing field is reported at once.
type CreateCheckRequest struct {
	Title    string         `json:"title"`
	Amount   FlexibleString `json:"amount"`
	Currency string         `json:"currency,omitempty"`
	DueDate  string         `json:"dueDate"`
	Priority string         `json:"priority,omitempty"`
	Payee    string         `json:"payee,omitempty"`
}

// UpdateCheckRequest represents the request body for a partial check update.
type UpdateCheckRequest struct {
	Title    *string         `json:"title,omitempty"`
	Amount   *FlexibleString `json:"amount,omitempty"`
	Currency *string         `json:"currency,omitempty"`
	DueDate  *string         `json:"dueDate,omitempty"`
	Priority *string         `json:"priority,omitempty"`
	Payee    *string         `json:"payee,omitempty"`
	Paid     *bool           `json:"paid,omitempty"`
}

// ToForm converts the request into the use case form.
func (r CreateCheckRequest) ToForm() checkuc.CheckForm {
	return checkuc.CheckForm{
		Title:    r.Title,
		Amount:   r.Amount.String(),
		Currency: r.Currency,
		DueDate:  r.DueDate,
		Priority: r.Priority,
		Payee:    r.Payee,
	}
}

// AmountPtr returns the amount as a plain string pointer.
func (r UpdateCheckRequest) AmountPtr() *string {
	if r.Amount == nil {
		return nil
	}
	s := r.Amount.String()
	return &s
}

// StatusResponse represents the display status of a check.
type StatusResponse struct {
	Bucket string `json:"bucket"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}

// CheckResponse represents a single check in API responses.
type CheckResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Amount         string          `json:"amount"`
	Currency       string          `json:"currency"`
	DueDate        time.Time       `json:"dueDate"`
	Priority       string          `json:"priority"`
	PriorityColor  string          `json:"priorityColor"`
	Payee          string          `json:"payee,omitempty"`
	Paid           bool            `json:"paid"`
	NotificationID string          `json:"notificationId,omitempty"`
	Status         *StatusResponse `json:"status,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// RemovedCheckResponse represents a soft-deleted check.
type RemovedCheckResponse struct {
	CheckResponse
	OriginalID string    `json:"originalId"`
	RemovedAt  time.Time `json:"removedAt"`
}

// CheckListResponse represents the response for listing checks.
type CheckListResponse struct {
	Filter  string                 `json:"filter"`
	Count   int                    `json:"count"`
	Checks  []CheckResponse        `json:"checks,omitempty"`
	Removed []RemovedCheckResponse `json:"removed,omitempty"`
}

func toCheckResponse(c *entity.Check) CheckResponse {
	return CheckResponse{
		ID:             c.ID,
		Title:          c.Title,
		Amount:         c.Amount.StringFixed(2),
		Currency:       c.Currency,
		DueDate:        c.DueDate,
		Priority:       string(c.Priority),
		PriorityColor:  classifier.PriorityColor(c.Priority),
		Payee:          c.Payee,
		Paid:           c.Paid,
		NotificationID: c.NotificationID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCheckResponse converts a CheckView to a CheckResponse DTO.
func ToCheckResponse(view checkuc.CheckView) CheckResponse {
	resp := toCheckResponse(view.Check)
	resp.Status = &StatusResponse{
		Bucket: string(view.Status.Bucket),
		Color:  view.Status.Color,
		Label:  view.Status.Label,
	}
	return resp
}

// ToCheckResponses converts a list of CheckViews.
func ToCheckResponses(views []checkuc.CheckView) []CheckResponse {
	out := make([]CheckResponse, len(views))
	for i, v := range views {
		out[i] = ToCheckResponse(v)
	}
	return out
}

// ToRemovedCheckResponse converts a removed record to a RemovedCheckResponse DTO.
func ToRemovedCheckResponse(r *entity.RemovedCheck) RemovedCheckResponse {
	resp := toCheckResponse(&r.Check)
	resp.ID = r.ID
	return RemovedCheckResponse{
		CheckResponse: resp,
		OriginalID:    r.OriginalID,
		RemovedAt:     r.RemovedAt,
	}
}

// ToCheckListResponse converts a ListChecksOutput to a CheckListResponse DTO.
func ToCheckListResponse(output *checkuc.ListChecksOutput) CheckListResponse {
	resp := CheckListResponse{Filter: string(output.Filter)}

	if output.Filter == classifier.FilterRemoved {
		resp.Removed = make([]RemovedCheckResponse, len(output.Removed))
		for i, r := range output.Removed {
			resp.Removed[i] = ToRemovedCheckResponse(r)
		}
		resp.Count = len(resp.Removed)
		return resp
	}

	resp.Checks = ToCheckResponses(output.Checks)
	resp.Count = len(resp.Checks)
	return resp
}
