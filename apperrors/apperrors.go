package apperrors

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de la aplicación para mapearlos a códigos HTTP
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
	KindInternal
)

// Error es el error tipado que viaja desde repositorios y servicios hasta
// el ErrorHandler de Fiber
type Error struct {
	Kind    Kind
	Message string
	// Fields contiene mensajes por campo para errores de validación
	Fields map[string][]string
	// Err es la causa interna; nunca se expone al cliente
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode traduce el tipo de error a un código HTTP
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return 400
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}

// PublicMessage devuelve el mensaje que se entrega al cliente. Los errores
// internos y de upstream nunca exponen el detalle original.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal {
		return "Error interno del servidor"
	}
	return e.Message
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationFields crea un error de validación con mensajes por campo
func ValidationFields(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: "Datos inválidos", Fields: fields}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// AsError extrae un *Error de cualquier error, envolviendo los desconocidos
// como internos
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Error interno del servidor", err)
}
