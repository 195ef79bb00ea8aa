package error

import "errors"

// Period domain errors.
var (
	// ErrInvalidRange is returned when a custom period has start after end or a missing bound.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnknownPeriodToken is returned for a token outside the period vocabulary.
	ErrUnknownPeriodToken = errors.New("unknown period token")
)

// PeriodErrorCode defines error codes for period errors.
type PeriodErrorCode string

const (
	ErrCodeInvalidRange       PeriodErrorCode = "PER-010001"
	ErrCodeUnknownPeriodToken PeriodErrorCode = "PER-010002"
)

// PeriodError represents a period resolution error.
type PeriodError struct {
	Code    PeriodErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PeriodError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PeriodError) Unwrap() error {
	return e.Err
}

// NewPeriodError creates a new PeriodError.
func NewPeriodError(code PeriodErrorCode, message string, err error) *PeriodError {
	return &PeriodError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
