package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an Error so the HTTP boundary can match it exhaustively
// instead of sniffing error shapes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindAuth
)

// FieldError is a single field-level validation violation.
type FieldError struct {
	Path    string `json:"path"`    // dotted path, e.g. "body.email"
	Message string `json:"message"` // human-readable
	Code    string `json:"code"`    // machine-readable, e.g. "email", "min"
}

// Error is the domain failure carried from services up to the HTTP boundary.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError // set only for KindValidation
	Err     error        // wrapped cause, if any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Type is the machine-readable errorType emitted in the response envelope.
func (e *Error) Type() string {
	switch e.Kind {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindDuplicate:
		return "DuplicateKeyError"
	case KindAuth:
		return "AuthError"
	default:
		return "InternalServerError"
	}
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Duplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// As unwraps err into an *Error, or nil if it is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
