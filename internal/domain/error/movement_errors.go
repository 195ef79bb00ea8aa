package error

import "errors"

// Movement and account domain errors.
var (
	// ErrMovementNotFound is returned when a movement is unknown.
	ErrMovementNotFound = errors.New("movement not found")

	// ErrAccountNotFound is returned when an account is unknown or owned by another entity.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAmount is returned when an amount is negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidMovementType is returned when the type is neither entrata nor uscita.
	ErrInvalidMovementType = errors.New("invalid movement type")

	// ErrCategoryTypeMismatch is returned when the movement type differs from its category's type.
	ErrCategoryTypeMismatch = errors.New("movement type does not match category type")

	// ErrPeriodLocked is returned when a movement falls inside a submitted or approved statement.
	ErrPeriodLocked = errors.New("movement date falls inside a locked statement period")

	// ErrInvalidAccountName is returned when the account name is empty or too long.
	ErrInvalidAccountName = errors.New("invalid account name")

	// ErrInvalidMovementFields is returned when the date is missing or the note is too long.
	ErrInvalidMovementFields = errors.New("invalid movement fields")
)

// MovementErrorCode defines error codes for movement and account errors.
// Format: MOV-XXYYYY where XX is category and YYYY is specific error.
type MovementErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount          MovementErrorCode = "MOV-010001"
	ErrCodeInvalidMovementType    MovementErrorCode = "MOV-010002"
	ErrCodeCategoryTypeMismatch   MovementErrorCode = "MOV-010003"
	ErrCodeInvalidAccountName     MovementErrorCode = "MOV-010004"
	ErrCodeMissingMovementFields  MovementErrorCode = "MOV-010005"
	ErrCodeMovementCategoryAbsent MovementErrorCode = "MOV-010006"

	// Lookup errors (02XXXX)
	ErrCodeMovementNotFound MovementErrorCode = "MOV-020001"
	ErrCodeAccountNotFound  MovementErrorCode = "MOV-020002"

	// Lock errors (03XXXX)
	ErrCodePeriodLocked MovementErrorCode = "MOV-030001"
)

// MovementError represents a movement or account error.
type MovementError struct {
	Code    MovementErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MovementError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MovementError) Unwrap() error {
	return e.Err
}

// NewMovementError creates a new MovementError.
func NewMovementError(code MovementErrorCode, message string, err error) *MovementError {
	return &MovementError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
