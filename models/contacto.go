package models

import (
	"time"
)

// MensajeContacto representa un mensaje enviado desde el formulario de
// contacto público
type MensajeContacto struct {
	ID      int       `json:"id" db:"id"`
	Nombre  string    `json:"nombre" db:"nombre"`
	Email   string    `json:"email" db:"email"`
	Mensaje string    `json:"mensaje" db:"mensaje"`
	Creado  time.Time `json:"creado" db:"creado"`
}

// ContactoRequest representa la solicitud del formulario de contacto
type ContactoRequest struct {
	Nombre  string `json:"nombre" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Mensaje string `json:"mensaje" validate:"required"`
}
