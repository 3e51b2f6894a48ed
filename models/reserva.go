package models

import (
	"time"
)

// Estados posibles de una reserva
const (
	EstadoPendiente  = "pendiente"
	EstadoConfirmada = "confirmada"
	EstadoCompletada = "completada"
	EstadoCancelada  = "cancelada"
)

// Reserva representa una cita médica entre un paciente y un médico
type Reserva struct {
	IDReserva         int       `json:"id_reserva" db:"id_reserva"`
	IDPaciente        int       `json:"id_paciente" db:"id_paciente"`
	IDMedico          int       `json:"id_medico" db:"id_medico"`
	Fecha             time.Time `json:"fecha" db:"fecha"`
	HoraInicio        string    `json:"hora_inicio" db:"hora_inicio"` // HH:MM
	HoraFin           string    `json:"hora_fin" db:"hora_fin"`
	Motivo            string    `json:"motivo" db:"motivo"`
	Estado            string    `json:"estado" db:"estado"`
	FechaCreacion     time.Time `json:"fecha_creacion" db:"fecha_creacion"`
	FechaModificacion time.Time `json:"fecha_modificacion" db:"fecha_modificacion"`
}

// EstaVigente indica si la reserva sigue activa
func (r *Reserva) EstaVigente() bool {
	return r.Estado == EstadoPendiente || r.Estado == EstadoConfirmada
}

// PuedeCancelar indica si el paciente aún puede cancelar la reserva
func (r *Reserva) PuedeCancelar() bool {
	return r.Estado == EstadoPendiente || r.Estado == EstadoConfirmada
}

// ReservaRequest representa la solicitud de creación de una reserva
type ReservaRequest struct {
	IDMedico   int    `json:"id_medico" validate:"required"`
	Fecha      string `json:"fecha" validate:"required"` // YYYY-MM-DD
	HoraInicio string `json:"hora_inicio" validate:"required"`
	HoraFin    string `json:"hora_fin" validate:"required"`
	Motivo     string `json:"motivo" validate:"required"`
}

// ReservaResponse incluye los nombres resueltos de paciente y médico
type ReservaResponse struct {
	IDReserva         int       `json:"id_reserva"`
	IDPaciente        int       `json:"id_paciente"`
	Paciente          string    `json:"paciente"`
	IDMedico          int       `json:"id_medico"`
	Medico            string    `json:"medico"`
	Fecha             time.Time `json:"fecha"`
	HoraInicio        string    `json:"hora_inicio"`
	HoraFin           string    `json:"hora_fin"`
	Motivo            string    `json:"motivo"`
	Estado            string    `json:"estado"`
	FechaCreacion     time.Time `json:"fecha_creacion"`
	FechaModificacion time.Time `json:"fecha_modificacion"`
}

// ReservaDetalle agrega el historial y el cobro asociados a la reserva
type ReservaDetalle struct {
	Reserva   ReservaResponse  `json:"reserva"`
	Historial *HistorialMedico `json:"historial"`
	Cobro     *Cobro           `json:"cobro"`
}
