package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the repository and service layers to provide
// fine-grained failure reasons.
var (
	ErrResourceNotFound = errors.New("resource_not_found")
	ErrNilEntity        = errors.New("nil_entity")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
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

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondError(w, appErr.StatusCode, appErr.Message, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondError(w, http.StatusInternalServerError, "An unexpected error occurred", err)
	}
}
