// Package service contiene los servicios de cuota y envío de notificaciones.
package service

import "fmt"

// ConflictError indica que username o email ya están en uso al crear la cuenta.
// Es el único camino de servicio que señala el duplicado como error tipado;
// el resto de los fallos blandos se reportan como booleanos.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func usernameTaken(username string) error {
	return &ConflictError{
		Field:   "username",
		Message: fmt.Sprintf("Username '%s' is already taken", username),
	}
}

func emailRegistered(email string) error {
	return &ConflictError{
		Field:   "email",
		Message: fmt.Sprintf("Email '%s' is already registered", email),
	}
}

// ValidationError indica input malformado del cliente (400), distinto de un
// fallo de transporte.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
