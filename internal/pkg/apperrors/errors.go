package apperrors

import "errors"

// Common errors
var (
	// Role errors
	ErrInvalidRole = errors.New("invalid role argument")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Auth backend errors
	ErrUpstreamUnavailable = errors.New("auth backend unavailable")
	ErrMalformedResponse   = errors.New("malformed auth backend response")
)

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}

// StatusMessage returns the user-facing message carried by err, or fallback
// when no CustomError in the chain has one.
func StatusMessage(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.StatusMsg != "" {
		return custom.StatusMsg
	}
	return fallback
}
