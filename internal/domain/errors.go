package domain

import (
	"errors"
	"strings"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryConflict = errors.New("category with this name already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserConflict     = errors.New("user with this email already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPersistence      = errors.New("persistence failure")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field rejected by a validating constructor.
type ValidationError struct {
	Fields []FieldError
}

// Add records a rejected field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns e when at least one field was rejected, nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// MissingProductsError reports the requested product ids absent from the catalog.
// It matches ErrProductNotFound under errors.Is.
type MissingProductsError struct {
	IDs []string
}

func (e *MissingProductsError) Error() string {
	if len(e.IDs) == 0 {
		return ErrProductNotFound.Error()
	}
	return ErrProductNotFound.Error() + ": " + strings.Join(e.IDs, ", ")
}

func (e *MissingProductsError) Is(target error) bool {
	return target == ErrProductNotFound
}
