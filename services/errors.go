package services

import "net/http"

// ErrorKind classifies an application error for the HTTP layer.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindAuth
	KindRateLimit
	KindNotFound
	KindUpstream
)

// AppError is a typed failure with a user-facing message. Upstream causes
// are carried in Err for logging but are never sent to clients.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a malformed or incomplete submission.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

// NewAuthError reports a missing or rejected credential.
func NewAuthError(status int, message string) *AppError {
	return &AppError{Kind: KindAuth, Status: status, Message: message}
}

// NewRateLimitError reports an exhausted submission allowance.
func NewRateLimitError(message string) *AppError {
	return &AppError{Kind: KindRateLimit, Status: http.StatusTooManyRequests, Message: message}
}

// NewNotFoundError reports an unknown parent record.
func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// NewUpstreamError wraps a store, storage or identity-service failure.
// The wrapped cause stays server-side.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Status: http.StatusInternalServerError, Message: message, Err: err}
}
