package error

import "errors"

// Report domain errors.
var (
	// ErrLedgerUnavailable is returned when movement data cannot be read, timeouts included.
	ErrLedgerUnavailable = errors.New("movement ledger unavailable")

	// ErrUnknownReportCategory is returned when a category filter references an unknown id.
	ErrUnknownReportCategory = errors.New("report filter references unknown categories")

	// ErrInvalidMovementTypes is returned when the type filter is empty or malformed.
	ErrInvalidMovementTypes = errors.New("invalid movement type filter")
)

// ReportErrorCode defines error codes for report errors.
// Format: REP-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	// Filter errors (01XXXX)
	ErrCodeUnknownReportCategory ReportErrorCode = "REP-010001"
	ErrCodeInvalidMovementTypes  ReportErrorCode = "REP-010002"
	ErrCodeInvalidReportPeriod   ReportErrorCode = "REP-010003"
	ErrCodeInvalidExportFormat   ReportErrorCode = "REP-010004"

	// Collaborator errors (02XXXX)
	ErrCodeLedgerUnavailable ReportErrorCode = "REP-020001"
)

// ReportError represents a report generation error.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
