package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrExtraction   = errors.New("keyword extraction failed")
	ErrStore        = errors.New("keyword store failed")
	ErrEncoding     = errors.New("document is not valid text")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// Kind returns a short label for the error class, used as a metric label and
// in CLI output.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrStore):
		return "store"
	case errors.Is(err, ErrEncoding):
		return "encoding"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEncoding):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrExtraction), errors.Is(err, ErrStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
