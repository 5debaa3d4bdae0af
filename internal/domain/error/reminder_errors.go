package error

import "errors"

// Reminder domain errors.
var (
	// ErrReminderScheduleFailed is returned when the reminder sink rejects a schedule request.
	ErrReminderScheduleFailed = errors.New("failed to schedule reminders")

	// ErrReminderCancelFailed is returned when the reminder sink fails to cancel reminders.
	ErrReminderCancelFailed = errors.New("failed to cancel reminders")

	// ErrReminderNotFound is returned when a queued reminder payload is missing.
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrReminderSendFailed is returned when a reminder could not be delivered.
	ErrReminderSendFailed = errors.New("failed to send reminder")

	// ErrInvalidTemplate is returned when an invalid reminder template is specified.
	ErrInvalidTemplate = errors.New("invalid reminder template")
)

// ReminderErrorCode defines error codes for reminder errors.
// Format: RMD-XXYYYY where XX is category and YYYY is specific error.
type ReminderErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeReminderScheduleFailed ReminderErrorCode = "RMD-010001"
	ErrCodeReminderCancelFailed   ReminderErrorCode = "RMD-010002"
	ErrCodeReminderNotFound       ReminderErrorCode = "RMD-010003"

	// Delivery errors (02XXXX)
	ErrCodeReminderSendFailed   ReminderErrorCode = "RMD-020001"
	ErrCodePermanentSendFailure ReminderErrorCode = "RMD-020002"
	ErrCodeTemporarySendFailure ReminderErrorCode = "RMD-020003"

	// Template errors (03XXXX)
	ErrCodeInvalidTemplate ReminderErrorCode = "RMD-030001"
)

// ReminderError represents a reminder error with code and message.
type ReminderError struct {
	Code    ReminderErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReminderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReminderError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether the failure should not be retried.
func (e *ReminderError) IsPermanent() bool {
	return e.Code == ErrCodePermanentSendFailure || e.Code == ErrCodeInvalidTemplate
}

// NewReminderError creates a new ReminderError with the given code and message.
func NewReminderError(code ReminderErrorCode, message string, err error) *ReminderError {
	return &ReminderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
