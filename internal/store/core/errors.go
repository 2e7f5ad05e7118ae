package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ConflictError indica una violación de unicidad (username/email/api_key).
// Envuelve ErrConflict para que errors.Is(err, ErrConflict) funcione.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflict construye un ConflictError para el campo dado.
func Conflict(field string) error { return &ConflictError{Field: field} }
