// Package apierr defines the typed API failures and the JSON error
// envelope every endpoint writes on failure.
package apierr

import (
	"encoding/json"
	"net/http"
	"time"
)

type Code string

const (
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeForbidden           Code = "FORBIDDEN"
	CodeResourceNotFound    Code = "RESOURCE_NOT_FOUND"
	CodeDuplicateResource   Code = "DUPLICATE_RESOURCE"
	CodeStateConflict       Code = "STATE_CONFLICT"
	CodeValidationFailed    Code = "VALIDATION_FAILED"
	CodeUnprocessableEntity Code = "UNPROCESSABLE_ENTITY"
	CodeInternalServerError Code = "INTERNAL_SERVER_ERROR"
	CodeTokenExpired        Code = "TOKEN_EXPIRED"
	CodeUserNotFound        Code = "USER_NOT_FOUND"
	CodeDatabaseError       Code = "DATABASE_ERROR"
	CodeInvalidQueryParam   Code = "INVALID_QUERY_PARAM"
	CodeUnknownError        Code = "UNKNOWN_ERROR"
)

// FieldError is one entry of an ordered validation-detail list.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Error is an expected API failure. Services return it up the call
// chain untouched; the HTTP layer turns it into the envelope.
type Error struct {
	Status  int
	Code    Code
	Message string
	Details any
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds an Error with optional details (first value wins).
func New(status int, code Code, message string, details ...any) *Error {
	e := &Error{Status: status, Code: code, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// Validation is a 422 VALIDATION_FAILED with an ordered field list.
func Validation(fields ...FieldError) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidationFailed,
		Message: "Validation failed",
		Details: fields,
	}
}

// Unprocessable is a 422 UNPROCESSABLE_ENTITY with a field→reason map.
func Unprocessable(details map[string]string) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeUnprocessableEntity,
		Message: "Validation failed",
		Details: details,
	}
}

// InvalidQuery is a 400 INVALID_QUERY_PARAM.
func InvalidQuery(message string, details ...any) *Error {
	return New(http.StatusBadRequest, CodeInvalidQueryParam, message, details...)
}

// NotFound is a 404 RESOURCE_NOT_FOUND.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeResourceNotFound, message)
}

// Internal is the opaque 500 written when an unexpected error reaches
// the boundary. The cause goes to the log, never to the client.
func Internal() *Error {
	return New(http.StatusInternalServerError, CodeInternalServerError, "Internal server error")
}

type envelope struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
}

// Write renders err as the error envelope. Non-*Error values collapse
// to a 500 INTERNAL_SERVER_ERROR so internals never leak.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := err.(*Error)
	if !ok {
		apiErr = Internal()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(envelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
		Status:    apiErr.Status,
		Code:      apiErr.Code,
		Message:   apiErr.Message,
		Details:   apiErr.Details,
	})
}
