package error

import "errors"

// Authentication domain errors.
var (
	// ErrInvalidToken is returned when a token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrInvalidRole is returned when a token carries an unknown role.
	ErrInvalidRole = errors.New("invalid role")

	// ErrForbidden is returned when the actor's role does not allow the operation.
	ErrForbidden = errors.New("operation not allowed for this role")

	// ErrRateLimited is returned when a caller exceeds the request budget.
	ErrRateLimited = errors.New("too many requests")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Token errors (03XXXX)
	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"

	// Rate limit errors (04XXXX)
	ErrCodeRateLimited AuthErrorCode = "AUTH-040001"

	// Authorization errors (05XXXX)
	ErrCodeForbidden   AuthErrorCode = "AUTH-050001"
	ErrCodeInvalidRole AuthErrorCode = "AUTH-050002"
)
