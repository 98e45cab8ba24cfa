package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared across the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to HTTP responses using RFC7807. The
// operation string names what was being attempted so the client can surface
// it in the blocking notification.
func RespondError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, operation, err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, operation, err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, operation, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, operation, err.Error())
	default:
		// Repository failures surface the underlying message verbatim.
		Problem(w, http.StatusInternalServerError, operation, err.Error())
	}
}
