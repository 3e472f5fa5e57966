package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error into the API taxonomy.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// FieldError is one structured field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the application error type. Message is safe to return to
// clients; Err carries internal detail for logs only.
type AppError struct {
	Kind    Kind         `json:"-"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind onto an HTTP status. Conflicts return
// 400 to match the duplicate-code and duplicate-email contract.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// As unwraps err into an *AppError when possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	if appErr, ok := As(err); ok {
		return appErr.Kind == kind
	}
	return false
}
