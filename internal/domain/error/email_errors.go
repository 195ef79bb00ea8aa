package error

import "errors"

// Email and notification domain errors.
var (
	// ErrEmailQueueFailed is returned when a disposition email cannot be queued.
	ErrEmailQueueFailed = errors.New("failed to queue email")

	// ErrEmailSendFailed is returned when the provider rejects or drops a message.
	ErrEmailSendFailed = errors.New("failed to send email")

	// ErrInvalidTemplate is returned for a template outside the disposition set.
	ErrInvalidTemplate = errors.New("invalid email template")

	// ErrTemplateRenderFailed is returned when template execution fails.
	ErrTemplateRenderFailed = errors.New("failed to render email template")

	// ErrMissingRecipient is returned when a statement has no owner email.
	ErrMissingRecipient = errors.New("statement owner has no email address")

	// ErrEventPublishFailed is returned when a disposition event cannot be published.
	ErrEventPublishFailed = errors.New("failed to publish disposition event")
)

// EmailErrorCode defines error codes for email errors.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeEmailQueueFailed EmailErrorCode = "EMAIL-010001"
	ErrCodeMissingRecipient EmailErrorCode = "EMAIL-010002"

	// Send errors (02XXXX)
	ErrCodeEmailSendFailed       EmailErrorCode = "EMAIL-020001"
	ErrCodeEventPublishFailed    EmailErrorCode = "EMAIL-020002"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020003"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020004"

	// Template errors (03XXXX)
	ErrCodeInvalidTemplate      EmailErrorCode = "EMAIL-030001"
	ErrCodeTemplateRenderFailed EmailErrorCode = "EMAIL-030002"
)

// EmailError represents an email error with code and message.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EmailError) Unwrap() error {
	return e.Err
}

// NewEmailError creates a new EmailError with the given code and message.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
