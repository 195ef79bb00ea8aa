// Package error defines domain-specific errors for the Rendiconti application.
package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category id is unknown.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInvalidDepth is returned when a child is requested below a level-3 category.
	ErrInvalidDepth = errors.New("category depth exceeds the maximum level")

	// ErrMissingType is returned when a root category has no movement type.
	ErrMissingType = errors.New("root category requires a movement type")

	// ErrTypeNotAllowed is returned when a movement type is supplied for a child category.
	ErrTypeNotAllowed = errors.New("movement type is inherited from the parent category")

	// ErrInvalidCategoryType is returned when the movement type is neither entrata nor uscita.
	ErrInvalidCategoryType = errors.New("invalid category movement type")

	// ErrInvalidCategoryName is returned when the name is empty or too long.
	ErrInvalidCategoryName = errors.New("invalid category name")

	// ErrDeletionNotConfirmed is returned when a cascade delete is attempted without confirmation.
	ErrDeletionNotConfirmed = errors.New("category deletion requires explicit confirmation")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCategoryName   CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidCategoryType   CategoryErrorCode = "CAT-010002"
	ErrCodeMissingType           CategoryErrorCode = "CAT-010003"
	ErrCodeTypeNotAllowed        CategoryErrorCode = "CAT-010004"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010005"

	// Hierarchy errors (02XXXX)
	ErrCodeInvalidDepth     CategoryErrorCode = "CAT-020001"
	ErrCodeCategoryNotFound CategoryErrorCode = "CAT-020002"

	// Deletion errors (03XXXX)
	ErrCodeDeletionNotConfirmed CategoryErrorCode = "CAT-030001"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
