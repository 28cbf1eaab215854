package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// StatusError marks an error with the HTTP status it should be encoded with.
type StatusError struct {
	Status int
	Err    error
}

func (e StatusError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e StatusError) Unwrap() error { return e.Err }

type errorBody struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// mapError classifies a service error. productStatus is the status used for
// ErrProductNotFound, which differs between catalog reads and order creation.
func mapError(err error, productStatus int) StatusError {
	var se StatusError
	if errors.As(err, &se) {
		return se
	}
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return StatusError{Status: http.StatusBadRequest, Err: err}
	case errors.Is(err, domain.ErrProductNotFound):
		return StatusError{Status: productStatus, Err: err}
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrCategoryNotFound):
		return StatusError{Status: http.StatusNotFound, Err: err}
	case errors.Is(err, domain.ErrCategoryConflict), errors.Is(err, domain.ErrUserConflict):
		return StatusError{Status: http.StatusConflict, Err: err}
	case errors.Is(err, domain.ErrUnauthorized):
		return StatusError{Status: http.StatusUnauthorized, Err: err}
	default:
		return StatusError{Status: http.StatusInternalServerError, Err: err}
	}
}

// writeError encodes err as a JSON error body. Server errors are logged and
// replaced by a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, productStatus int) {
	se := mapError(err, productStatus)
	body := errorBody{Error: se.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Error = "validation failed"
		body.Fields = verr.Fields
	}
	if se.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		body.Error = http.StatusText(http.StatusInternalServerError)
	}
	writeJSON(w, se.Status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
