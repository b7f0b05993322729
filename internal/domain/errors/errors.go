package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidProvider = errors.New("invalid provider")
	ErrUpstream        = errors.New("upstream error")
	ErrUpstreamAuth    = errors.New("upstream authentication failed")
	ErrNotConfigured   = errors.New("provider not configured")
	ErrNotImplemented  = errors.New("provider not implemented")
)

// Error codes
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeUpstream       = "UPSTREAM_ERROR"
	CodeUpstreamAuth   = "UPSTREAM_AUTH"
	CodeNotConfigured  = "NOT_CONFIGURED"
	CodeNotImplemented = "NOT_IMPLEMENTED"
)

// LegStatuses carries the HTTP status of each upstream leg; zero means the leg did not answer
type LegStatuses struct {
	Info   int `json:"info"`
	Utxos  int `json:"utxos"`
	Assets int `json:"assets"`
}

// AppError represents application error with HTTP status
type AppError struct {
	Status     int          `json:"-"`
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	Detail     string       `json:"message,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
	Statuses   *LegStatuses `json:"statuses,omitempty"`
	Details    interface{}  `json:"details,omitempty"`
	Err        error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail sets the human readable follow-up message
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithDetails attaches structured validation details
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// InternalServerError creates a 500 with a caller supplied message
func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// Upstream reports a non-2xx answer from one of the provider legs
func Upstream(message string, statuses LegStatuses) *AppError {
	e := NewAppError(http.StatusBadGateway, CodeUpstream, message, ErrUpstream)
	e.Statuses = &statuses
	return e
}

// UpstreamAuth reports that a provider rejected our credentials
func UpstreamAuth(message, suggestion string) *AppError {
	e := NewAppError(http.StatusUnauthorized, CodeUpstreamAuth, message, ErrUpstreamAuth)
	e.Suggestion = suggestion
	return e
}

func NotConfigured(message string) *AppError {
	return NewAppError(http.StatusNotImplemented, CodeNotConfigured, message, ErrNotConfigured)
}

func NotImplemented(message, suggestion string) *AppError {
	e := NewAppError(http.StatusNotImplemented, CodeNotImplemented, message, ErrNotImplemented)
	e.Suggestion = suggestion
	return e
}
