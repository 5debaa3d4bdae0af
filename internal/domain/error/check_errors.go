// Package error defines domain-specific errors for the Checks Dashboard application.
package error

import "errors"

// Check domain errors.
var (
	// ErrCheckNotFound is returned when a check is not found in the active store.
	ErrCheckNotFound = errors.New("check not found")

	// ErrRemovedCheckNotFound is returned when a removed record is not found.
	ErrRemovedCheckNotFound = errors.New("removed check not found")

	// ErrCheckPaidNotDeletable is returned when deleting a check that is marked as paid.
	ErrCheckPaidNotDeletable = errors.New("paid check cannot be deleted")

	// ErrCheckPaidNotEditable is returned when editing fields of a check that is marked as paid.
	ErrCheckPaidNotEditable = errors.New("paid check cannot be edited")

	// ErrNotAuthorizedToModifyCheck is returned when the check belongs to another owner.
	ErrNotAuthorizedToModifyCheck = errors.New("not authorized to modify check")

	// ErrCheckAlreadyExists is returned when restoring onto an id that is already active.
	ErrCheckAlreadyExists = errors.New("check already exists")

	// ErrInvalidFilter is returned when an unknown list filter is requested.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrEmptyCheckUpdate is returned when an update carries no fields.
	ErrEmptyCheckUpdate = errors.New("no fields to update")

	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// CheckErrorCode defines error codes for check errors.
// Format: CHK-XXYYYY where XX is category and YYYY is specific error.
type CheckErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCheckValidation  CheckErrorCode = "CHK-010001"
	ErrCodeInvalidFilter    CheckErrorCode = "CHK-010002"
	ErrCodeEmptyCheckUpdate CheckErrorCode = "CHK-010003"

	// Lookup errors (02XXXX)
	ErrCodeCheckNotFound        CheckErrorCode = "CHK-020001"
	ErrCodeRemovedCheckNotFound CheckErrorCode = "CHK-020002"
	ErrCodeNotAuthorizedCheck   CheckErrorCode = "CHK-020003"

	// State errors (03XXXX)
	ErrCodeCheckPaidNotDeletable CheckErrorCode = "CHK-030001"
	ErrCodeCheckPaidNotEditable  CheckErrorCode = "CHK-030002"
	ErrCodeCheckAlreadyExists    CheckErrorCode = "CHK-030003"

	// Persistence errors (04XXXX)
	ErrCodeCheckPersistence CheckErrorCode = "CHK-040001"
)

// CheckError represents a check error with code and message.
type CheckError struct {
	Code    CheckErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CheckError) Unwrap() error {
	return e.Err
}

// NewCheckError creates a new CheckError with the given code and message.
func NewCheckError(code CheckErrorCode, message string, err error) *CheckError {
	return &CheckError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewPersistenceError wraps a store failure.
func NewPersistenceError(message string, err error) *CheckError {
	return NewCheckError(ErrCodeCheckPersistence, message, err)
}
