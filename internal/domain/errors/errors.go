// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for domain errors.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeConfiguration      = "CONFIGURATION_ERROR"
	ErrCodeAuthentication     = "AUTHENTICATION_ERROR"
	ErrCodeLookup             = "LOOKUP_ERROR"
	ErrCodeFetch              = "FETCH_ERROR"
	ErrCodeRemote             = "REMOTE_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeBusy               = "BUSY"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	// Status is the upstream HTTP status for errors caused by an admin API response.
	Status int `json:"status,omitempty"`
	// Body is the upstream response body, kept verbatim for the operator.
	Body       string `json:"body,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error. Validation errors never reach the network.
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewConfigurationError creates an error for an environment that lacks required configuration.
func NewConfigurationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeConfiguration,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewAuthenticationError creates an error for a failed admin login exchange.
// status is zero when the exchange succeeded but issued no token.
func NewAuthenticationError(message string, status int) *DomainError {
	details := ""
	if status != 0 {
		details = fmt.Sprintf("status %d", status)
	}
	return &DomainError{
		Code:       ErrCodeAuthentication,
		Message:    message,
		Details:    details,
		Status:     status,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewLookupError creates an error for an email that could not be resolved to a user ID.
func NewLookupError(message string, status int, body string) *DomainError {
	details := ""
	if status != 0 {
		details = fmt.Sprintf("status %d", status)
	}
	return &DomainError{
		Code:       ErrCodeLookup,
		Message:    message,
		Details:    details,
		Status:     status,
		Body:       body,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewFetchError creates an error for a failed user features fetch.
func NewFetchError(status int, body string) *DomainError {
	return &DomainError{
		Code:       ErrCodeFetch,
		Message:    "user features fetch failed",
		Details:    fmt.Sprintf("status %d", status),
		Status:     status,
		Body:       body,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewRemoteError creates an error for a non-success admin API response.
func NewRemoteError(operation string, status int, body string) *DomainError {
	details := fmt.Sprintf("%d", status)
	if body != "" {
		details = fmt.Sprintf("%d: %s", status, body)
	}
	return &DomainError{
		Code:       ErrCodeRemote,
		Message:    fmt.Sprintf("%s failed", operation),
		Details:    details,
		Status:     status,
		Body:       body,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, identifier string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    identifier,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{
		Code:       ErrCodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewBusyError creates an error for a control whose previous invocation is still outstanding.
func NewBusyError(action string) *DomainError {
	return &DomainError{
		Code:       ErrCodeBusy,
		Message:    "action already in progress",
		Details:    action,
		HTTPStatus: http.StatusConflict,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewServiceUnavailableError creates a new service unavailable error.
func NewServiceUnavailableError(service string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeServiceUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", service),
		Details:    details,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// HasCode reports whether err is a domain error with the given code.
func HasCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return HasCode(err, ErrCodeValidation)
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	return HasCode(err, ErrCodeConfiguration)
}

// IsAuthenticationError checks if the error is an authentication error.
func IsAuthenticationError(err error) bool {
	return HasCode(err, ErrCodeAuthentication)
}

// IsLookupError checks if the error is a lookup error.
func IsLookupError(err error) bool {
	return HasCode(err, ErrCodeLookup)
}

// IsFetchError checks if the error is a fetch error.
func IsFetchError(err error) bool {
	return HasCode(err, ErrCodeFetch)
}

// IsRemoteError checks if the error is a remote error.
func IsRemoteError(err error) bool {
	return HasCode(err, ErrCodeRemote)
}

// IsBusy checks if the error reports an action already in progress.
func IsBusy(err error) bool {
	return HasCode(err, ErrCodeBusy)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return HasCode(err, ErrCodeUnauthorized)
}
