package error

import "errors"

// Statement domain errors.
var (
	// ErrStatementNotFound is returned when a statement is unknown or not visible to the caller.
	ErrStatementNotFound = errors.New("statement not found")

	// ErrInvalidPeriod is returned when a statement period has start after end.
	ErrInvalidPeriod = errors.New("invalid statement period")

	// ErrInvalidTransition is returned when the current state does not allow the operation.
	ErrInvalidTransition = errors.New("invalid statement transition")

	// ErrDocumentsIncomplete is returned when mandatory documents are missing at submission.
	ErrDocumentsIncomplete = errors.New("mandatory documents missing")

	// ErrDraftAlreadyExists is returned when the entity already has a draft statement.
	ErrDraftAlreadyExists = errors.New("a draft statement already exists for this entity")

	// ErrOverlappingPeriod is returned when the period overlaps a submitted or approved statement.
	ErrOverlappingPeriod = errors.New("period overlaps an existing statement")

	// ErrEmptyRejectionReason is returned when a rejection has no reason.
	ErrEmptyRejectionReason = errors.New("rejection reason is required")

	// ErrInvalidDocumentType is returned for a type outside the document catalog.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrDocumentNotFound is returned when a document or attachment is unknown.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrFileTooLarge is returned when an upload exceeds the configured size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile is returned when an upload has no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrStorageFailure is returned when document storage cannot read or write.
	ErrStorageFailure = errors.New("document storage failure")

	// ErrNoteTooLong is returned when a note or the reviewer's observations exceed the limit.
	ErrNoteTooLong = errors.New("note too long")

	// ErrStatementBusy is returned when another operation holds the statement lock.
	ErrStatementBusy = errors.New("statement is being modified by another request")

	// ErrNotReviewer is returned when a reviewer-only operation is called by another role.
	ErrNotReviewer = errors.New("operation reserved to reviewers")
)

// StatementErrorCode defines error codes for statement errors.
// Format: STM-XXYYYY where XX is category and YYYY is specific error.
type StatementErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPeriod          StatementErrorCode = "STM-010001"
	ErrCodeEmptyRejectionReason   StatementErrorCode = "STM-010002"
	ErrCodeInvalidDocumentType    StatementErrorCode = "STM-010003"
	ErrCodeFileTooLarge           StatementErrorCode = "STM-010004"
	ErrCodeEmptyFile              StatementErrorCode = "STM-010005"
	ErrCodeMissingStatementFields StatementErrorCode = "STM-010006"
	ErrCodeNoteTooLong            StatementErrorCode = "STM-010007"

	// Lookup errors (02XXXX)
	ErrCodeStatementNotFound StatementErrorCode = "STM-020001"
	ErrCodeDocumentNotFound  StatementErrorCode = "STM-020002"

	// Workflow errors (03XXXX)
	ErrCodeInvalidTransition   StatementErrorCode = "STM-030001"
	ErrCodeDocumentsIncomplete StatementErrorCode = "STM-030002"
	ErrCodeDraftAlreadyExists  StatementErrorCode = "STM-030003"
	ErrCodeOverlappingPeriod   StatementErrorCode = "STM-030004"
	ErrCodeStatementBusy       StatementErrorCode = "STM-030005"
	ErrCodeNotReviewer         StatementErrorCode = "STM-030006"

	// Infrastructure errors (04XXXX)
	ErrCodeStorageFailure StatementErrorCode = "STM-040001"
)

// StatementError represents a statement workflow error with code and message.
// Details carries machine-readable context, such as the missing document types.
type StatementError struct {
	Code    StatementErrorCode
	Message string
	Details []string
	Err     error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError creates a new StatementError with the given code and message.
func NewStatementError(code StatementErrorCode, message string, err error) *StatementError {
	return &StatementError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails attaches details to the error and returns it.
func (e *StatementError) WithDetails(details ...string) *StatementError {
	e.Details = append(e.Details, details...)
	return e
}
